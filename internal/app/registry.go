package app

import (
	"go-leave/internal/auth"
	"go-leave/internal/employee"
	"go-leave/internal/holiday"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/settings"
	"go-leave/internal/shared/clock"
	"go-leave/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
) error {
	systemClock := clock.NewSystem()

	// --- Repositories ---
	authRepo := auth.NewRepository(db)
	counterRepo := counter.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	holidayRepo := holiday.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)
	settingsRepo := settings.NewRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, systemClock)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, rdb)
	holidayService := holiday.NewService(holidayRepo)
	settingsService := settings.NewService(settingsRepo)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, holidayService, settingsService, outboxRepo, systemClock)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	holidayHandler := holiday.NewHandler(holidayService)
	leaveHandler := leave.NewHandler(leaveService)
	settingsHandler := settings.NewHandler(settingsService)

	// --- Global middleware ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		settings.RegisterRoutes(api, settingsHandler, rbacService)
	}

	return nil
}
