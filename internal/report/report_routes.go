package report

import (
	"github.com/gin-gonic/gin"

	"github.com/jdsuarez23/comfachoco/internal/middleware"
	"github.com/jdsuarez23/comfachoco/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	rrhh := r.Group("/rrhh")
	rrhh.Use(middleware.AuthMiddleware())
	{
		rrhh.GET("/stats",
			middleware.RBACAuthorize(rbacService, "report", "read"),
			middleware.RateLimitByUser(3, 10),
			handler.Stats,
		)
		rrhh.GET("/export-csv",
			middleware.RBACAuthorize(rbacService, "report", "read"),
			middleware.RateLimitByUser(0.5, 2),
			handler.ExportCSV,
		)
		rrhh.POST("/ml/retrain",
			middleware.RBACAuthorize(rbacService, "ml", "train"),
			middleware.RateLimitByUser(0.1, 1),
			handler.TriggerTraining,
		)
	}
}
