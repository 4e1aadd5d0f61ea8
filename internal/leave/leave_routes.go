package leave

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/jdsuarez23/comfachoco/internal/middleware"
	"github.com/jdsuarez23/comfachoco/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.RateLimitByUser(2, 5),
			handler.Create,
		)
		leaves.GET("/mine",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			middleware.RateLimitByUser(3, 10),
			handler.GetMine,
		)
		leaves.GET("/:id",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			middleware.RateLimitByUser(3, 10),
			handler.GetByID,
		)
		leaves.GET("/:id/file",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			middleware.RateLimitByUser(1, 5),
			handler.DownloadSupportFile,
		)
		leaves.DELETE("/:id",
			middleware.RBACAuthorize(rbacService, "leave", "withdraw"),
			middleware.RateLimitByUser(1, 5),
			handler.Withdraw,
		)
	}

	rrhh := r.Group("/rrhh")
	rrhh.Use(middleware.AuthMiddleware())
	{
		rrhh.GET("/leaves",
			middleware.RBACAuthorize(rbacService, "leave", "read_all"),
			middleware.RateLimitByUser(3, 10),
			handler.ListAll,
		)
		rrhh.PUT("/leaves/:id/approve",
			middleware.RBACAuthorize(rbacService, "leave", "decide"),
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb),
			handler.Approve,
		)
		rrhh.PUT("/leaves/:id/reject",
			middleware.RBACAuthorize(rbacService, "leave", "decide"),
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb),
			handler.Reject,
		)
	}
}
