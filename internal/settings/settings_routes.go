package settings

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	admin := r.Group("/admin/settings")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("", middleware.RBACAuthorize(rbacService, "settings", "read"), handler.Get)
		admin.PATCH("", middleware.RBACAuthorize(rbacService, "settings", "write"), handler.Update)
	}
}
