package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"

	"github.com/jdsuarez23/comfachoco/internal/domain"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

// NewService loads the static permission matrix. Roles are fixed for this
// system (every employee may file and read their own requests, RRHH decides
// and sees everything), so policy lives in code rather than in a table.
func NewService(enforcer *casbin.Enforcer) (Service, error) {
	policies := [][3]string{
		{domain.RoleEmployee, "leave", "create"},
		{domain.RoleEmployee, "leave", "read"},
		{domain.RoleEmployee, "leave", "withdraw"},
		{domain.RoleHR, "leave", "read"},
		{domain.RoleHR, "leave", "read_all"},
		{domain.RoleHR, "leave", "decide"},
		{domain.RoleHR, "report", "read"},
		{domain.RoleHR, "ml", "train"},
	}
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}
