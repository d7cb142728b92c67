package middleware

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/online-language-learning-systems/user-service/app/domain"
	"github.com/online-language-learning-systems/user-service/app/port"
	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
)

// Context keys set by the auth middleware.
const (
	ContextKeyPrincipal = "principal"
	ContextKeyUsername  = "username"
)

// AuthMiddleware authenticates bearer tokens and enforces the URL-prefix
// access policy on every request it guards.
type AuthMiddleware struct {
	verifier port.TokenVerifier
	policy   *domain.AccessPolicy
	logger   *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier port.TokenVerifier, policy *domain.AccessPolicy, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		policy:   policy,
		logger:   logger.With("component", "auth_middleware"),
	}
}

// RequireAuth verifies the bearer token, checks the access policy against the
// request path, and stashes the principal in the request context.
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			rawToken := m.extractBearerToken(c)
			if rawToken == "" {
				return respondError(c, apperrors.NewUnauthenticated("missing bearer token"))
			}

			principal, err := m.verifier.Verify(ctx, rawToken)
			if err != nil {
				m.logger.Warn("token verification failed",
					"path", c.Request().URL.Path,
					"error", err)
				return respondError(c, err)
			}

			if err := m.policy.Authorize(c.Request().URL.Path, principal); err != nil {
				m.logger.Warn("access denied",
					"path", c.Request().URL.Path,
					"subject", principal.Subject,
					"authorities", principal.Authorities)
				return respondError(c, err)
			}

			c.Set(ContextKeyPrincipal, principal)
			c.Set(ContextKeyUsername, principal.Username)

			return next(c)
		}
	}
}

// PrincipalFromContext returns the principal stashed by RequireAuth, or nil
// when the request never passed through it.
func PrincipalFromContext(c echo.Context) *domain.Principal {
	principal, ok := c.Get(ContextKeyPrincipal).(*domain.Principal)
	if !ok {
		return nil
	}
	return principal
}

func (m *AuthMiddleware) extractBearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if auth == "" {
		return ""
	}
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// respondError serializes a typed failure to its HTTP shape.
func respondError(c echo.Context, err error) error {
	status := apperrors.GetHTTPStatusCode(err)
	body := map[string]interface{}{
		"error": err.Error(),
		"code":  string(apperrors.GetErrorCode(err)),
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		body["error"] = appErr.Message
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
	}
	return c.JSON(status, body)
}
