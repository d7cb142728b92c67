package usecase

import (
	"context"
	"log/slog"

	"github.com/online-language-learning-systems/user-service/app/domain"
	"github.com/online-language-learning-systems/user-service/app/port"
	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
)

// UserUsecase orchestrates the user lifecycle against the identity provider.
// The service keeps no state of its own; every operation is one or more IdP
// round-trips composed here.
type UserUsecase struct {
	provider     port.IdentityProvider
	rolePageSize int
	logger       *slog.Logger
}

// NewUserUsecase creates a new UserUsecase instance
func NewUserUsecase(provider port.IdentityProvider, rolePageSize int, logger *slog.Logger) *UserUsecase {
	return &UserUsecase{
		provider:     provider,
		rolePageSize: rolePageSize,
		logger:       logger.With("component", "user_usecase"),
	}
}

// ListByRole returns the first page of accounts holding the given realm role,
// in the order the provider returns them.
func (u *UserUsecase) ListByRole(ctx context.Context, role string) (*domain.UserList, error) {
	accounts, err := u.provider.ListRoleMembers(ctx, role, 0, u.rolePageSize)
	if err != nil {
		return nil, err
	}

	list := &domain.UserList{Users: make([]domain.UserSummary, 0, len(accounts))}
	for _, account := range accounts {
		list.Users = append(list.Users, account.Summary())
	}
	return list, nil
}

// GetProfile returns the account matching the authenticated caller's username.
func (u *UserUsecase) GetProfile(ctx context.Context, username string) (*domain.UserDetail, error) {
	account, err := u.provider.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	detail := account.Detail()
	return &detail, nil
}

// GetByID returns the account with the given identifier.
func (u *UserUsecase) GetByID(ctx context.Context, userID string) (*domain.UserDetail, error) {
	account, err := u.provider.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	detail := account.Detail()
	return &detail, nil
}

// Create registers a new account with the identity provider and assigns its
// realm role. Duplicate checks run before any write so a conflicting request
// never reaches the provider.
func (u *UserUsecase) Create(ctx context.Context, input *domain.CreateUserInput) (*domain.UserDetail, error) {
	if input.Password != input.PasswordConfirm {
		return nil, apperrors.NewDuplicate("password and confirmation do not match")
	}

	if err := u.checkUsernameFree(ctx, input.Username); err != nil {
		return nil, err
	}
	if err := u.checkEmailFree(ctx, input.Email); err != nil {
		return nil, err
	}

	// Validate the requested role before writing anything, so a typo'd or
	// undefined role cannot leave a roleless account behind.
	role := input.RequestedRole()
	if err := u.checkRoleDefined(ctx, role); err != nil {
		return nil, err
	}

	account := &domain.UserAccount{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Enabled:   true,
	}

	userID, err := u.provider.Create(ctx, account, input.Password)
	if err != nil {
		return nil, err
	}
	account.ID = userID

	if err := u.provider.AssignRealmRole(ctx, userID, role); err != nil {
		// The account exists but carries no role. Surface the failure so
		// the caller knows the registration is incomplete; an operator has
		// to assign the role by hand.
		u.logger.Error("user created but role assignment failed",
			"user_id", userID,
			"username", input.Username,
			"role", role,
			"error", err)
		return nil, err
	}

	u.logger.Info("user registered",
		"user_id", userID,
		"username", input.Username,
		"role", role)

	detail := account.Detail()
	return &detail, nil
}

// UpdateProfile overwrites the mutable profile fields of an existing account.
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID string, input *domain.ProfileUpdateInput) error {
	account, err := u.provider.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	account.FirstName = input.FirstName
	account.LastName = input.LastName
	account.Email = input.Email

	return u.provider.Update(ctx, account)
}

// SetBanned toggles an account's enabled flag. Banning an already banned
// account is a no-op write.
func (u *UserUsecase) SetBanned(ctx context.Context, userID string, banned bool) error {
	account, err := u.provider.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	account.Enabled = !banned
	if err := u.provider.Update(ctx, account); err != nil {
		return err
	}

	u.logger.Info("user ban state changed",
		"user_id", userID,
		"banned", banned)
	return nil
}

// DeleteByID soft-deletes an account by disabling it. The record stays with
// the identity provider.
func (u *UserUsecase) DeleteByID(ctx context.Context, userID string) error {
	account, err := u.provider.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	account.Enabled = false
	if err := u.provider.Update(ctx, account); err != nil {
		return err
	}

	u.logger.Info("user soft-deleted", "user_id", userID)
	return nil
}

// MarkEmailVerified flags an account's email address as verified.
func (u *UserUsecase) MarkEmailVerified(ctx context.Context, userID string) error {
	account, err := u.provider.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	account.EmailVerified = true
	return u.provider.Update(ctx, account)
}

// checkUsernameFree fails with DUPLICATE when an account already holds the
// username. A NOT_FOUND lookup result means the name is free.
func (u *UserUsecase) checkUsernameFree(ctx context.Context, username string) error {
	_, err := u.provider.FindByUsername(ctx, username)
	if err == nil {
		return apperrors.NewDuplicate("username is already in use")
	}
	if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		return nil
	}
	return err
}

// checkRoleDefined fails with ROLE_NOT_FOUND when the realm does not define
// the requested role. Role assignment after create can still race against a
// concurrent role deletion; this check only catches the common case early.
func (u *UserUsecase) checkRoleDefined(ctx context.Context, role string) error {
	roles, err := u.provider.ListRealmRoles(ctx)
	if err != nil {
		return err
	}
	for _, defined := range roles {
		if defined == role {
			return nil
		}
	}
	return apperrors.NewRoleNotFound(role)
}

// checkEmailFree fails with DUPLICATE when an account already holds the email.
func (u *UserUsecase) checkEmailFree(ctx context.Context, email string) error {
	_, err := u.provider.FindByEmail(ctx, email)
	if err == nil {
		return apperrors.NewDuplicate("email is already in use")
	}
	if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		return nil
	}
	return err
}
