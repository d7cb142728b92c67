package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the user service
type Config struct {
	// Server
	Port     string `env:"PORT" default:"9600"`
	Host     string `env:"HOST" default:"0.0.0.0"`
	LogLevel string `env:"LOG_LEVEL" default:"info"`

	// Keycloak
	KeycloakURL          string `env:"KEYCLOAK_URL" required:"true"`
	KeycloakRealm        string `env:"KEYCLOAK_REALM" required:"true"`
	KeycloakClientID     string `env:"KEYCLOAK_CLIENT_ID" required:"true"`
	KeycloakClientSecret string `env:"KEYCLOAK_CLIENT_SECRET" required:"true"`

	// Token verification
	JWKSURL   string `env:"JWKS_URL"`
	JWTIssuer string `env:"JWT_ISSUER"`

	// Listing
	RolePageSize int `env:"ROLE_PAGE_SIZE" default:"100"`

	// Features
	EnableRateLimit bool `env:"ENABLE_RATE_LIMIT" default:"true"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{}

	// Server configuration
	config.Port = getEnvOrDefault("PORT", "9600")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Keycloak configuration
	config.KeycloakURL = os.Getenv("KEYCLOAK_URL")
	if config.KeycloakURL == "" {
		return nil, fmt.Errorf("KEYCLOAK_URL is required")
	}

	config.KeycloakRealm = os.Getenv("KEYCLOAK_REALM")
	if config.KeycloakRealm == "" {
		return nil, fmt.Errorf("KEYCLOAK_REALM is required")
	}

	config.KeycloakClientID = os.Getenv("KEYCLOAK_CLIENT_ID")
	if config.KeycloakClientID == "" {
		return nil, fmt.Errorf("KEYCLOAK_CLIENT_ID is required")
	}

	config.KeycloakClientSecret = os.Getenv("KEYCLOAK_CLIENT_SECRET")
	if config.KeycloakClientSecret == "" {
		return nil, fmt.Errorf("KEYCLOAK_CLIENT_SECRET is required")
	}

	// Token verification. The realm publishes its signing keys at a
	// well-known path; JWKS_URL only needs setting when keys are served
	// from somewhere else.
	config.JWKSURL = getEnvOrDefault("JWKS_URL", config.defaultJWKSURL())
	config.JWTIssuer = os.Getenv("JWT_ISSUER")

	// Listing configuration
	pageSizeStr := getEnvOrDefault("ROLE_PAGE_SIZE", "100")
	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ROLE_PAGE_SIZE: %w", err)
	}
	config.RolePageSize = pageSize

	// Feature flags
	config.EnableRateLimit = getBoolEnv("ENABLE_RATE_LIMIT", true)

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if !strings.HasPrefix(c.KeycloakURL, "http://") && !strings.HasPrefix(c.KeycloakURL, "https://") {
		return fmt.Errorf("KEYCLOAK_URL must be an http(s) URL: %s", c.KeycloakURL)
	}

	if c.RolePageSize < 1 || c.RolePageSize > 1000 {
		return fmt.Errorf("ROLE_PAGE_SIZE must be between 1 and 1000, got: %d", c.RolePageSize)
	}

	return nil
}

// defaultJWKSURL derives the realm's published signing-key endpoint
func (c *Config) defaultJWKSURL() string {
	base := strings.TrimSuffix(c.KeycloakURL, "/")
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/certs", base, c.KeycloakRealm)
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
