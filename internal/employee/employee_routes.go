package employee

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetAll)
		employees.GET("/options", middleware.RBACAuthorize(rbacService, "employee", "options"), handler.GetOptions)
		employees.GET("/stats/dashboard", middleware.RBACAuthorize(rbacService, "employee", "stats"), handler.DashboardStats)
		employees.POST("", middleware.RBACAuthorize(rbacService, "employee", "write"), handler.Create)
		employees.POST("/accrue", middleware.RBACAuthorize(rbacService, "employee", "accrue"), handler.Accrue)
		employees.GET("/:id", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetById)
		employees.PUT("/:id", middleware.RBACAuthorize(rbacService, "employee", "write"), handler.Update)
		employees.DELETE("/:id", middleware.RBACAuthorize(rbacService, "employee", "write"), handler.Delete)
	}
}
