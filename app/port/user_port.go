package port

//go:generate mockgen -source=user_port.go -destination=../mocks/mock_user_port.go

import (
	"context"

	"github.com/online-language-learning-systems/user-service/app/domain"
)

// UserUsecase defines the user lifecycle orchestration interface
type UserUsecase interface {
	ListByRole(ctx context.Context, role string) (*domain.UserList, error)
	GetProfile(ctx context.Context, username string) (*domain.UserDetail, error)
	GetByID(ctx context.Context, userID string) (*domain.UserDetail, error)
	Create(ctx context.Context, input *domain.CreateUserInput) (*domain.UserDetail, error)
	UpdateProfile(ctx context.Context, userID string, input *domain.ProfileUpdateInput) error
	SetBanned(ctx context.Context, userID string, banned bool) error
	DeleteByID(ctx context.Context, userID string) error
	MarkEmailVerified(ctx context.Context, userID string) error
}

// IdentityProvider is the call contract against the external IdP's admin API.
// Lookup methods fail with a NOT_FOUND-coded error when no account matches;
// Create fails with DUPLICATE when the IdP itself rejects on conflict;
// AssignRealmRole fails with ROLE_NOT_FOUND when the role is undefined in the
// realm. Any call may fail with ACCESS_DENIED when the service credential
// lacks grant, and with UPSTREAM_ERROR for any other gateway failure.
type IdentityProvider interface {
	FindByID(ctx context.Context, userID string) (*domain.UserAccount, error)
	FindByUsername(ctx context.Context, username string) (*domain.UserAccount, error)
	FindByEmail(ctx context.Context, email string) (*domain.UserAccount, error)
	ListRoleMembers(ctx context.Context, role string, first, max int) ([]*domain.UserAccount, error)
	Create(ctx context.Context, account *domain.UserAccount, password string) (string, error)
	Update(ctx context.Context, account *domain.UserAccount) error
	AssignRealmRole(ctx context.Context, userID, role string) error
	ListRealmRoles(ctx context.Context) ([]string, error)
}

// TokenVerifier verifies an inbound bearer token and maps its claims to an
// authenticated principal.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*domain.Principal, error)
}
