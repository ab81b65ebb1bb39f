package auth

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/auth")
	{
		// Tight limit on login, brute-force protection.
		group.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Login)
		group.POST("/refresh", handler.Refresh)
		group.GET("/me", middleware.AuthMiddleware(), handler.Me)
	}
}
