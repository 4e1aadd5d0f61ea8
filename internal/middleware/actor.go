package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jdsuarez23/comfachoco/internal/domain"
)

// ActorFrom rebuilds the authenticated actor stored by AuthMiddleware.
func ActorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		EmployeeID:  c.GetString("employee_id"),
		Role:        c.GetString("role"),
		DisplayName: c.GetString("display_name"),
	}
}
