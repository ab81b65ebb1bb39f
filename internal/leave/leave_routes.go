package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, rdb *redis.Client) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "apply"),
			middleware.Idempotency(rdb),
			handler.Apply,
		)
		leaves.GET("/my", middleware.RBACAuthorize(rbacService, "leave", "read-own"), handler.My)
		leaves.GET("/pending", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.Pending)
		leaves.GET("/approved", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.Approved)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read-own"), handler.GetByID)
		leaves.PATCH("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.Approve)
		leaves.PATCH("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.Reject)
		leaves.PATCH("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)
	}
}
