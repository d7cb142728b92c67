package keycloak

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/Nerzal/gocloak/v13"

	"github.com/online-language-learning-systems/user-service/app/config"
)

// tokenExpiryMargin is subtracted from the advertised token lifetime so a
// token is never used right at its expiry edge.
const tokenExpiryMargin = 30 * time.Second

// Client wraps the Keycloak admin API client together with the service's own
// client-credentials grant. It is constructed once at startup and shared; the
// credential lifecycle belongs to the process, not to any request.
type Client struct {
	gc           *gocloak.GoCloak
	realm        string
	clientID     string
	clientSecret string
	logger       *slog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new Keycloak admin client
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if !isValidURL(cfg.KeycloakURL) {
		return nil, fmt.Errorf("invalid Keycloak URL: %s", cfg.KeycloakURL)
	}

	gc := gocloak.NewClient(cfg.KeycloakURL)

	logger.Info("Keycloak client initialized",
		"url", cfg.KeycloakURL,
		"realm", cfg.KeycloakRealm,
		"client_id", cfg.KeycloakClientID)

	return &Client{
		gc:           gc,
		realm:        cfg.KeycloakRealm,
		clientID:     cfg.KeycloakClientID,
		clientSecret: cfg.KeycloakClientSecret,
		logger:       logger,
	}, nil
}

// API returns the underlying admin API client
func (c *Client) API() *gocloak.GoCloak {
	return c.gc
}

// Realm returns the realm this client administers
func (c *Client) Realm() string {
	return c.realm
}

// ClientID returns the service's own client identifier, used when naming the
// service principal in access-denied translations.
func (c *Client) ClientID() string {
	return c.clientID
}

// AccessToken returns a valid service-account access token, reusing the
// cached one until it nears expiry.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	jwt, err := c.gc.LoginClient(ctx, c.clientID, c.clientSecret, c.realm)
	if err != nil {
		return "", fmt.Errorf("client credentials login failed: %w", err)
	}

	c.accessToken = jwt.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(jwt.ExpiresIn)*time.Second - tokenExpiryMargin)

	c.logger.Info("service account token refreshed",
		"client_id", c.clientID,
		"expires_in_s", jwt.ExpiresIn)

	return c.accessToken, nil
}

// HealthCheck checks if the Keycloak admin API is reachable with the
// configured credential.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.AccessToken(ctx); err != nil {
		return fmt.Errorf("failed to connect to Keycloak: %w", err)
	}
	return nil
}

// isValidURL validates if a URL is properly formatted
func isValidURL(urlStr string) bool {
	if urlStr == "" {
		return false
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	return parsedURL.Scheme != "" && parsedURL.Host != ""
}
