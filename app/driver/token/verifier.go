package token

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/online-language-learning-systems/user-service/app/config"
	"github.com/online-language-learning-systems/user-service/app/domain"
	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
)

// jwksRefreshInterval controls background refresh of the realm's published
// signing keys, so key rotation is picked up without a restart.
const jwksRefreshInterval = time.Hour

// Claims the verifier consumes beyond the role grants.
const (
	subjectClaim  = "sub"
	usernameClaim = "preferred_username"
)

// Verifier validates bearer tokens against the realm's published signing
// keys and maps verified claims to a Principal. Implements port.TokenVerifier.
type Verifier struct {
	keyFunc jwt.Keyfunc
	issuer  string
	jwks    *keyfunc.JWKS
	logger  *slog.Logger
}

// NewVerifier creates a verifier backed by the realm's JWK Set endpoint. The
// JWKS handle refreshes in the background until Close is called.
func NewVerifier(cfg *config.Config, logger *slog.Logger) (*Verifier, error) {
	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		RefreshInterval: jwksRefreshInterval,
		RefreshErrorHandler: func(err error) {
			logger.Error("JWKS refresh failed", "url", cfg.JWKSURL, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWK Set from %s: %w", cfg.JWKSURL, err)
	}

	logger.Info("JWKS verifier initialized", "url", cfg.JWKSURL)

	return &Verifier{
		keyFunc: jwks.Keyfunc,
		issuer:  cfg.JWTIssuer,
		jwks:    jwks,
		logger:  logger,
	}, nil
}

// NewVerifierWithKeyfunc creates a verifier with a caller-supplied key
// function. Used by tests that sign tokens with a local key.
func NewVerifierWithKeyfunc(keyFunc jwt.Keyfunc, issuer string, logger *slog.Logger) *Verifier {
	return &Verifier{
		keyFunc: keyFunc,
		issuer:  issuer,
		logger:  logger,
	}
}

// Verify parses and validates a raw bearer token and builds the caller's
// principal from its claims. Signature or expiry problems surface as
// unauthenticated; a structurally valid token missing the expected claim
// shape surfaces as malformed claims, which is still an authentication
// failure, never an authorization one.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*domain.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512", "HS256"}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, v.keyFunc, opts...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnauthenticated, "token verification failed", err)
	}
	if !parsed.Valid {
		return nil, apperrors.NewUnauthenticated("token is not valid")
	}

	authorities, err := domain.ExtractAuthorities(claims)
	if err != nil {
		return nil, err
	}

	subject, _ := claims[subjectClaim].(string)
	if subject == "" {
		return nil, apperrors.NewMalformedClaims("subject claim missing")
	}
	username, _ := claims[usernameClaim].(string)

	return domain.NewPrincipal(subject, username, authorities), nil
}

// Close stops the background JWKS refresh.
func (v *Verifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
