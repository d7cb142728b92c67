package rest

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/online-language-learning-systems/user-service/app/domain"
	"github.com/online-language-learning-systems/user-service/app/port"
	"github.com/online-language-learning-systems/user-service/app/rest/handlers"
	custommw "github.com/online-language-learning-systems/user-service/app/rest/middleware"
	"github.com/online-language-learning-systems/user-service/app/utils/validator"
)

// RouterConfig holds router configuration
type RouterConfig struct {
	Logger          *slog.Logger
	UserUsecase     port.UserUsecase
	TokenVerifier   port.TokenVerifier
	HealthChecker   handlers.DependencyChecker
	EnableRateLimit bool
	EnableDebug     bool
}

// NewRouter creates and configures the Echo router
func NewRouter(config RouterConfig) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.Debug = config.EnableDebug

	v := validator.New()

	userHandler := handlers.NewUserHandler(config.UserUsecase, v, config.Logger)
	healthHandler := handlers.NewHealthHandler(config.HealthChecker, config.Logger)

	policy := domain.NewAccessPolicy()
	authMiddleware := custommw.NewAuthMiddleware(config.TokenVerifier, policy, config.Logger)

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(custommw.DefaultCORS())
	e.Use(custommw.SecurityHeaders())

	if config.EnableRateLimit {
		rateLimiter := custommw.NewRateLimiter()
		e.Use(rateLimiter.RateLimit())
	}

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, latency=${latency_human}, error=${error}\n",
	}))

	// Health endpoints (no auth required)
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/ready", healthHandler.ReadinessCheck)
	e.GET("/live", healthHandler.LivenessCheck)

	// Storefront endpoints: any of lecturer, student, admin. Registration is
	// open to any authenticated principal per the prefix policy there; the
	// policy itself decides, not the route grouping.
	storefront := e.Group("/storefront")
	storefront.Use(authMiddleware.RequireAuth())
	storefront.GET("/user/profile", userHandler.GetProfile)
	storefront.POST("/users", userHandler.CreateUser)

	// Backoffice endpoints: admin only by policy.
	backoffice := e.Group("/backoffice")
	backoffice.Use(authMiddleware.RequireAuth())
	backoffice.GET("/users", userHandler.ListByRole)
	backoffice.GET("/users/:userId", userHandler.GetByID)
	backoffice.PUT("/users/profile/:userId", userHandler.UpdateProfile)
	backoffice.DELETE("/users/profile/:userId", userHandler.DeleteUser)
	backoffice.PATCH("/users/:userId/ban", userHandler.BanUser)
	backoffice.PATCH("/users/:userId/unban", userHandler.UnbanUser)
	backoffice.PATCH("/users/:userId/email/verify", userHandler.VerifyEmail)

	return e
}
