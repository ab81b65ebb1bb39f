package holiday

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", middleware.RBACAuthorize(rbacService, "holiday", "read"), handler.GetAll)
		holidays.GET("/:id", middleware.RBACAuthorize(rbacService, "holiday", "read"), handler.GetByID)
		holidays.POST("", middleware.RBACAuthorize(rbacService, "holiday", "write"), handler.Create)
		holidays.PATCH("/:id", middleware.RBACAuthorize(rbacService, "holiday", "write"), handler.Update)
		holidays.DELETE("/:id", middleware.RBACAuthorize(rbacService, "holiday", "write"), handler.Delete)
	}
}
