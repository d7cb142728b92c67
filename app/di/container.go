package di

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/online-language-learning-systems/user-service/app/config"
	"github.com/online-language-learning-systems/user-service/app/driver/keycloak"
	"github.com/online-language-learning-systems/user-service/app/driver/token"
	"github.com/online-language-learning-systems/user-service/app/gateway"
	"github.com/online-language-learning-systems/user-service/app/port"
	"github.com/online-language-learning-systems/user-service/app/rest"
	"github.com/online-language-learning-systems/user-service/app/usecase"
)

// Container holds all dependencies for the application
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Drivers
	KeycloakClient *keycloak.Client
	TokenVerifier  *token.Verifier

	// Gateways
	UserGateway port.IdentityProvider

	// Usecases
	UserUsecase port.UserUsecase
}

// NewContainer creates and initializes a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: logger,
	}

	var err error

	container.KeycloakClient, err = keycloak.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Keycloak client: %w", err)
	}

	container.TokenVerifier, err = token.NewVerifier(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	adapter := keycloak.NewAdapter(container.KeycloakClient, logger)
	container.UserGateway = gateway.NewUserGateway(adapter, cfg.KeycloakClientID, logger)

	container.UserUsecase = usecase.NewUserUsecase(container.UserGateway, cfg.RolePageSize, logger)

	logger.Info("Container initialized with full dependency stack")

	return container, nil
}

// CreateRouter creates and returns a fully configured Echo router
func (c *Container) CreateRouter() *echo.Echo {
	routerConfig := rest.RouterConfig{
		Logger:          c.Logger,
		UserUsecase:     c.UserUsecase,
		TokenVerifier:   c.TokenVerifier,
		HealthChecker:   c.KeycloakClient,
		EnableRateLimit: c.Config.EnableRateLimit,
		EnableDebug:     c.Config.LogLevel == "debug",
	}

	router := rest.NewRouter(routerConfig)

	c.Logger.Info("Full API router created")
	return router
}

// Close closes all resources
func (c *Container) Close() error {
	if c.TokenVerifier != nil {
		c.TokenVerifier.Close()
	}

	c.Logger.Info("Container closed successfully")
	return nil
}
