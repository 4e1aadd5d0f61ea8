package domain

// Actor is the authenticated identity attached to every operation. Handlers
// build it from verified token claims; services never read tokens themselves.
type Actor struct {
	EmployeeID  string `json:"employee_id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

const (
	RoleEmployee = "EMPLEADO"
	RoleHR       = "RRHH"
)

func (a Actor) IsHR() bool {
	return a.Role == RoleHR
}

type EnforceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}
