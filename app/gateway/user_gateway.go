package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/online-language-learning-systems/user-service/app/domain"
	"github.com/online-language-learning-systems/user-service/app/port"
	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
)

// UserGateway implements port.IdentityProvider by delegating to the IdP
// driver. It acts as an anti-corruption layer between the orchestrator and
// the identity provider: structured logging on every call, and access-denied
// failures rewritten to name the service principal so audits can tell a
// misconfigured service credential from an end-user 403.
type UserGateway struct {
	provider         port.IdentityProvider
	servicePrincipal string
	logger           *slog.Logger
}

// NewUserGateway creates a new UserGateway instance
func NewUserGateway(provider port.IdentityProvider, servicePrincipal string, logger *slog.Logger) *UserGateway {
	return &UserGateway{
		provider:         provider,
		servicePrincipal: servicePrincipal,
		logger:           logger.With("component", "user_gateway"),
	}
}

// FindByID retrieves an account by its identifier
func (g *UserGateway) FindByID(ctx context.Context, userID string) (*domain.UserAccount, error) {
	account, err := g.provider.FindByID(ctx, userID)
	if err != nil {
		g.logger.Error("failed to find user by id",
			"user_id", userID,
			"error", err)
		return nil, g.translate(err)
	}
	return account, nil
}

// FindByUsername retrieves an account by exact username
func (g *UserGateway) FindByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	account, err := g.provider.FindByUsername(ctx, username)
	if err != nil {
		if !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			g.logger.Error("failed to find user by username",
				"username", username,
				"error", err)
		}
		return nil, g.translate(err)
	}
	return account, nil
}

// FindByEmail retrieves an account by exact email
func (g *UserGateway) FindByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	account, err := g.provider.FindByEmail(ctx, email)
	if err != nil {
		if !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			g.logger.Error("failed to find user by email", "error", err)
		}
		return nil, g.translate(err)
	}
	return account, nil
}

// ListRoleMembers retrieves one page of accounts holding a realm role
func (g *UserGateway) ListRoleMembers(ctx context.Context, role string, first, max int) ([]*domain.UserAccount, error) {
	g.logger.Info("listing role members",
		"role", role,
		"first", first,
		"max", max)

	accounts, err := g.provider.ListRoleMembers(ctx, role, first, max)
	if err != nil {
		g.logger.Error("failed to list role members",
			"role", role,
			"error", err)
		return nil, g.translate(err)
	}

	g.logger.Info("role members listed",
		"role", role,
		"count", len(accounts))

	return accounts, nil
}

// Create registers a new account and returns its identifier
func (g *UserGateway) Create(ctx context.Context, account *domain.UserAccount, password string) (string, error) {
	g.logger.Info("creating user",
		"username", account.Username,
		"email", account.Email)

	id, err := g.provider.Create(ctx, account, password)
	if err != nil {
		g.logger.Error("failed to create user",
			"username", account.Username,
			"error", err)
		return "", g.translate(err)
	}

	g.logger.Info("user created",
		"user_id", id,
		"username", account.Username)

	return id, nil
}

// Update overwrites an account's stored representation
func (g *UserGateway) Update(ctx context.Context, account *domain.UserAccount) error {
	g.logger.Info("updating user",
		"user_id", account.ID,
		"enabled", account.Enabled)

	if err := g.provider.Update(ctx, account); err != nil {
		g.logger.Error("failed to update user",
			"user_id", account.ID,
			"error", err)
		return g.translate(err)
	}

	return nil
}

// AssignRealmRole grants a realm role to an account
func (g *UserGateway) AssignRealmRole(ctx context.Context, userID, role string) error {
	g.logger.Info("assigning realm role",
		"user_id", userID,
		"role", role)

	if err := g.provider.AssignRealmRole(ctx, userID, role); err != nil {
		g.logger.Error("failed to assign realm role",
			"user_id", userID,
			"role", role,
			"error", err)
		return g.translate(err)
	}

	return nil
}

// ListRealmRoles retrieves the role names defined in the realm
func (g *UserGateway) ListRealmRoles(ctx context.Context) ([]string, error) {
	roles, err := g.provider.ListRealmRoles(ctx)
	if err != nil {
		g.logger.Error("failed to list realm roles", "error", err)
		return nil, g.translate(err)
	}
	return roles, nil
}

// translate rewrites access-denied failures to name the offending service
// principal. All other typed failures pass through unchanged.
func (g *UserGateway) translate(err error) error {
	if apperrors.HasCode(err, apperrors.ErrCodeAccessDenied) {
		return apperrors.Wrap(apperrors.ErrCodeAccessDenied,
			fmt.Sprintf("client %s does not have access rights for this resource", g.servicePrincipal),
			err)
	}
	return err
}
