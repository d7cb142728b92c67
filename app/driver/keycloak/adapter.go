package keycloak

import (
	"context"
	"log/slog"

	"github.com/Nerzal/gocloak/v13"

	"github.com/online-language-learning-systems/user-service/app/domain"
	"github.com/online-language-learning-systems/user-service/app/port"
	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
)

// Adapter implements port.IdentityProvider on top of the Keycloak admin API.
type Adapter struct {
	client *Client
	logger *slog.Logger
}

// NewAdapter creates a new identity provider adapter
func NewAdapter(client *Client, logger *slog.Logger) port.IdentityProvider {
	return &Adapter{
		client: client,
		logger: logger,
	}
}

// FindByID fetches a single account by its IdP-assigned identifier.
func (a *Adapter) FindByID(ctx context.Context, userID string) (*domain.UserAccount, error) {
	token, err := a.client.AccessToken(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}

	user, err := a.client.API().GetUserByID(ctx, token, a.client.Realm(), userID)
	if err != nil {
		return nil, translateError(err, "user lookup")
	}

	return fromRepresentation(user), nil
}

// FindByUsername performs an exact username search. The realm enforces
// username uniqueness, so at most one account can match.
func (a *Adapter) FindByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	token, err := a.client.AccessToken(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}

	users, err := a.client.API().GetUsers(ctx, token, a.client.Realm(), gocloak.GetUsersParams{
		Username: gocloak.StringP(username),
		Exact:    gocloak.BoolP(true),
	})
	if err != nil {
		return nil, translateError(err, "username search")
	}

	if len(users) == 0 {
		return nil, apperrors.NewNotFound("user")
	}

	return fromRepresentation(users[0]), nil
}

// FindByEmail performs an exact email search, mirroring FindByUsername.
func (a *Adapter) FindByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	token, err := a.client.AccessToken(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}

	users, err := a.client.API().GetUsers(ctx, token, a.client.Realm(), gocloak.GetUsersParams{
		Email: gocloak.StringP(email),
		Exact: gocloak.BoolP(true),
	})
	if err != nil {
		return nil, translateError(err, "email search")
	}

	if len(users) == 0 {
		return nil, apperrors.NewNotFound("user")
	}

	return fromRepresentation(users[0]), nil
}

// ListRoleMembers returns one page of accounts holding the given realm role.
// Completeness beyond the page is not guaranteed.
func (a *Adapter) ListRoleMembers(ctx context.Context, role string, first, max int) ([]*domain.UserAccount, error) {
	token, err := a.client.AccessToken(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}

	users, err := a.client.API().GetUsersByRoleName(ctx, token, a.client.Realm(), role, gocloak.GetUsersByRoleParams{
		First: gocloak.IntP(first),
		Max:   gocloak.IntP(max),
	})
	if err != nil {
		return nil, translateError(err, "role member listing")
	}

	accounts := make([]*domain.UserAccount, 0, len(users))
	for _, user := range users {
		accounts = append(accounts, fromRepresentation(user))
	}
	return accounts, nil
}

// Create registers a new account with a single non-temporary password
// credential and returns the IdP-assigned identifier. A conflict raised by
// the IdP itself surfaces as a duplicate error.
func (a *Adapter) Create(ctx context.Context, account *domain.UserAccount, password string) (string, error) {
	token, err := a.client.AccessToken(ctx)
	if err != nil {
		return "", apperrors.NewUpstreamError(err)
	}

	representation := toRepresentation(account)
	representation.Credentials = &[]gocloak.CredentialRepresentation{
		passwordCredential(password),
	}

	id, err := a.client.API().CreateUser(ctx, token, a.client.Realm(), representation)
	if err != nil {
		return "", translateError(err, "user creation")
	}

	return id, nil
}

// Update overwrites the stored representation of an existing account.
func (a *Adapter) Update(ctx context.Context, account *domain.UserAccount) error {
	token, err := a.client.AccessToken(ctx)
	if err != nil {
		return apperrors.NewUpstreamError(err)
	}

	if err := a.client.API().UpdateUser(ctx, token, a.client.Realm(), toRepresentation(account)); err != nil {
		return translateError(err, "user update")
	}

	return nil
}

// AssignRealmRole grants a realm role to an account. An undefined role is a
// configuration fault, not a client error.
func (a *Adapter) AssignRealmRole(ctx context.Context, userID, role string) error {
	token, err := a.client.AccessToken(ctx)
	if err != nil {
		return apperrors.NewUpstreamError(err)
	}

	realmRole, err := a.client.API().GetRealmRole(ctx, token, a.client.Realm(), role)
	if err != nil {
		if apperrors.HasCode(translateError(err, "role lookup"), apperrors.ErrCodeNotFound) {
			return apperrors.NewRoleNotFound(role).WithCause(err)
		}
		return translateError(err, "role lookup")
	}

	if err := a.client.API().AddRealmRoleToUser(ctx, token, a.client.Realm(), userID, []gocloak.Role{*realmRole}); err != nil {
		return translateError(err, "role assignment")
	}

	return nil
}

// ListRealmRoles returns the role names defined in the realm.
func (a *Adapter) ListRealmRoles(ctx context.Context) ([]string, error) {
	token, err := a.client.AccessToken(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}

	roles, err := a.client.API().GetRealmRoles(ctx, token, a.client.Realm(), gocloak.GetRoleParams{})
	if err != nil {
		return nil, translateError(err, "realm role listing")
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, gocloak.PString(role.Name))
	}
	return names, nil
}

// Representation mapping

func fromRepresentation(user *gocloak.User) *domain.UserAccount {
	account := &domain.UserAccount{
		ID:            gocloak.PString(user.ID),
		Username:      gocloak.PString(user.Username),
		Email:         gocloak.PString(user.Email),
		FirstName:     gocloak.PString(user.FirstName),
		LastName:      gocloak.PString(user.LastName),
		Enabled:       gocloak.PBool(user.Enabled),
		EmailVerified: gocloak.PBool(user.EmailVerified),
	}
	if user.RealmRoles != nil {
		account.RealmRoles = *user.RealmRoles
	}
	return account
}

func toRepresentation(account *domain.UserAccount) gocloak.User {
	user := gocloak.User{
		Username:      gocloak.StringP(account.Username),
		Email:         gocloak.StringP(account.Email),
		FirstName:     gocloak.StringP(account.FirstName),
		LastName:      gocloak.StringP(account.LastName),
		Enabled:       gocloak.BoolP(account.Enabled),
		EmailVerified: gocloak.BoolP(account.EmailVerified),
	}
	if account.ID != "" {
		user.ID = gocloak.StringP(account.ID)
	}
	return user
}

// passwordCredential wraps a password for transmission, always marked
// non-temporary. The value is never stored or logged by this service.
func passwordCredential(password string) gocloak.CredentialRepresentation {
	return gocloak.CredentialRepresentation{
		Type:      gocloak.StringP("password"),
		Value:     gocloak.StringP(password),
		Temporary: gocloak.BoolP(false),
	}
}
