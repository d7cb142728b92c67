package gateway

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/online-language-learning-systems/user-service/app/domain"
	mock_port "github.com/online-language-learning-systems/user-service/app/mocks"
	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
)

func newTestGateway(provider *mock_port.MockIdentityProvider) *UserGateway {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserGateway(provider, "user-service-client", logger)
}

func TestUserGateway_AccessDeniedNamesServicePrincipal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := mock_port.NewMockIdentityProvider(ctrl)
	provider.EXPECT().
		FindByUsername(gomock.Any(), "alice").
		Return(nil, apperrors.NewAccessDenied("insufficient grant"))

	_, err := newTestGateway(provider).FindByUsername(context.Background(), "alice")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAccessDenied))
	assert.Contains(t, err.Error(), "user-service-client",
		"audit trail must name the offending service principal")
}

func TestUserGateway_OtherErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode apperrors.ErrorCode
	}{
		{name: "not found", err: apperrors.NewNotFound("user"), wantCode: apperrors.ErrCodeNotFound},
		{name: "duplicate", err: apperrors.NewDuplicate("taken"), wantCode: apperrors.ErrCodeDuplicate},
		{name: "upstream", err: apperrors.NewUpstreamError(assert.AnError), wantCode: apperrors.ErrCodeUpstreamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			provider := mock_port.NewMockIdentityProvider(ctrl)
			provider.EXPECT().
				FindByID(gomock.Any(), "id-1").
				Return(nil, tt.err)

			_, err := newTestGateway(provider).FindByID(context.Background(), "id-1")

			assert.True(t, apperrors.HasCode(err, tt.wantCode))
			assert.NotContains(t, err.Error(), "user-service-client")
		})
	}
}

func TestUserGateway_DelegatesSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := mock_port.NewMockIdentityProvider(ctrl)

	account := &domain.UserAccount{ID: "id-1", Username: "alice"}
	provider.EXPECT().FindByID(gomock.Any(), "id-1").Return(account, nil)
	provider.EXPECT().Create(gomock.Any(), account, "pass").Return("id-1", nil)
	provider.EXPECT().Update(gomock.Any(), account).Return(nil)
	provider.EXPECT().AssignRealmRole(gomock.Any(), "id-1", "student").Return(nil)
	provider.EXPECT().ListRoleMembers(gomock.Any(), "student", 0, 50).
		Return([]*domain.UserAccount{account}, nil)
	provider.EXPECT().ListRealmRoles(gomock.Any()).Return([]string{"student", "admin"}, nil)

	g := newTestGateway(provider)
	ctx := context.Background()

	got, err := g.FindByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, account, got)

	id, err := g.Create(ctx, account, "pass")
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	require.NoError(t, g.Update(ctx, account))
	require.NoError(t, g.AssignRealmRole(ctx, "id-1", "student"))

	members, err := g.ListRoleMembers(ctx, "student", 0, 50)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	roles, err := g.ListRealmRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"student", "admin"}, roles)
}
