package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/online-language-learning-systems/user-service/app/domain"
	mock_port "github.com/online-language-learning-systems/user-service/app/mocks"
	custommw "github.com/online-language-learning-systems/user-service/app/rest/middleware"
	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
	"github.com/online-language-learning-systems/user-service/app/utils/validator"
)

func newTestHandler(usecase *mock_port.MockUserUsecase) *UserHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserHandler(usecase, validator.New(), logger)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req
}

func TestUserHandler_ListByRole(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMocks func(*mock_port.MockUserUsecase)
		wantStatus int
	}{
		{
			name:   "returns user list",
			target: "/backoffice/users?role=lecturer",
			setupMocks: func(usecase *mock_port.MockUserUsecase) {
				usecase.EXPECT().
					ListByRole(gomock.Any(), "lecturer").
					Return(&domain.UserList{Users: []domain.UserSummary{
						{ID: "1", Username: "alice"},
					}}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing role parameter",
			target:     "/backoffice/users",
			setupMocks: func(usecase *mock_port.MockUserUsecase) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "upstream failure maps to 502",
			target: "/backoffice/users?role=lecturer",
			setupMocks: func(usecase *mock_port.MockUserUsecase) {
				usecase.EXPECT().
					ListByRole(gomock.Any(), "lecturer").
					Return(nil, apperrors.NewUpstreamError(assert.AnError))
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			usecase := mock_port.NewMockUserUsecase(ctrl)
			tt.setupMocks(usecase)

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodGet, tt.target, ""), rec)

			require.NoError(t, newTestHandler(usecase).ListByRole(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUserHandler_GetProfile(t *testing.T) {
	t.Run("uses the verified principal's username", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		usecase := mock_port.NewMockUserUsecase(ctrl)
		usecase.EXPECT().
			GetProfile(gomock.Any(), "alice").
			Return(&domain.UserDetail{ID: "1", Username: "alice"}, nil)

		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodGet, "/storefront/user/profile", ""), rec)
		c.Set(custommw.ContextKeyPrincipal, domain.NewPrincipal("sub-1", "alice", []string{"ROLE_student"}))

		require.NoError(t, newTestHandler(usecase).GetProfile(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var detail domain.UserDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
		assert.Equal(t, "alice", detail.Username)
	})

	t.Run("no principal in context", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		usecase := mock_port.NewMockUserUsecase(ctrl)

		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodGet, "/storefront/user/profile", ""), rec)

		require.NoError(t, newTestHandler(usecase).GetProfile(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserHandler_GetByID(t *testing.T) {
	userID := uuid.NewString()

	tests := []struct {
		name       string
		paramValue string
		setupMocks func(*mock_port.MockUserUsecase)
		wantStatus int
	}{
		{
			name:       "returns user detail",
			paramValue: userID,
			setupMocks: func(usecase *mock_port.MockUserUsecase) {
				usecase.EXPECT().
					GetByID(gomock.Any(), userID).
					Return(&domain.UserDetail{ID: userID, Username: "alice"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-UUID identifier",
			paramValue: "not-a-uuid",
			setupMocks: func(usecase *mock_port.MockUserUsecase) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown user",
			paramValue: userID,
			setupMocks: func(usecase *mock_port.MockUserUsecase) {
				usecase.EXPECT().
					GetByID(gomock.Any(), userID).
					Return(nil, apperrors.NewNotFound("user"))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			usecase := mock_port.NewMockUserUsecase(ctrl)
			tt.setupMocks(usecase)

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodGet, "/backoffice/users/"+tt.paramValue, ""), rec)
			c.SetParamNames("userId")
			c.SetParamValues(tt.paramValue)

			require.NoError(t, newTestHandler(usecase).GetByID(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUserHandler_CreateUser(t *testing.T) {
	validBody := `{
		"username": "alice",
		"password": "s3cretpass",
		"passwordConfirm": "s3cretpass",
		"email": "alice@example.com",
		"role": "lecturer",
		"firstName": "Alice",
		"lastName": "Liddell"
	}`

	tests := []struct {
		name       string
		body       string
		setupMocks func(*mock_port.MockUserUsecase)
		wantStatus int
	}{
		{
			name: "created user returns 200 with detail",
			body: validBody,
			setupMocks: func(usecase *mock_port.MockUserUsecase) {
				usecase.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(&domain.UserDetail{ID: "new-id", Username: "alice"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing required fields",
			body:       `{"username": "alice"}`,
			setupMocks: func(usecase *mock_port.MockUserUsecase) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{not json`,
			setupMocks: func(usecase *mock_port.MockUserUsecase) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate surfaces as 409",
			body: validBody,
			setupMocks: func(usecase *mock_port.MockUserUsecase) {
				usecase.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil, apperrors.NewDuplicate("username is already in use"))
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			usecase := mock_port.NewMockUserUsecase(ctrl)
			tt.setupMocks(usecase)

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPost, "/storefront/users", tt.body), rec)

			require.NoError(t, newTestHandler(usecase).CreateUser(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	userID := uuid.NewString()
	validBody := `{"firstName": "Alice", "lastName": "Liddell", "email": "alice@example.com"}`

	tests := []struct {
		name       string
		body       string
		setupMocks func(*mock_port.MockUserUsecase)
		wantStatus int
	}{
		{
			name: "successful update returns 204",
			body: validBody,
			setupMocks: func(usecase *mock_port.MockUserUsecase) {
				usecase.EXPECT().
					UpdateProfile(gomock.Any(), userID, gomock.Any()).
					Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "invalid email rejected",
			body:       `{"firstName": "Alice", "lastName": "Liddell", "email": "nope"}`,
			setupMocks: func(usecase *mock_port.MockUserUsecase) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown user returns 404",
			body: validBody,
			setupMocks: func(usecase *mock_port.MockUserUsecase) {
				usecase.EXPECT().
					UpdateProfile(gomock.Any(), userID, gomock.Any()).
					Return(apperrors.NewNotFound("user"))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			usecase := mock_port.NewMockUserUsecase(ctrl)
			tt.setupMocks(usecase)

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPut, "/backoffice/users/profile/"+userID, tt.body), rec)
			c.SetParamNames("userId")
			c.SetParamValues(userID)

			require.NoError(t, newTestHandler(usecase).UpdateProfile(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUserHandler_BanUnban(t *testing.T) {
	userID := uuid.NewString()

	t.Run("ban returns 204", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		usecase := mock_port.NewMockUserUsecase(ctrl)
		usecase.EXPECT().SetBanned(gomock.Any(), userID, true).Return(nil)

		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPatch, "/backoffice/users/"+userID+"/ban", ""), rec)
		c.SetParamNames("userId")
		c.SetParamValues(userID)

		require.NoError(t, newTestHandler(usecase).BanUser(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unban returns 204", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		usecase := mock_port.NewMockUserUsecase(ctrl)
		usecase.EXPECT().SetBanned(gomock.Any(), userID, false).Return(nil)

		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPatch, "/backoffice/users/"+userID+"/unban", ""), rec)
		c.SetParamNames("userId")
		c.SetParamValues(userID)

		require.NoError(t, newTestHandler(usecase).UnbanUser(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	userID := uuid.NewString()

	tests := []struct {
		name       string
		setupMocks func(*mock_port.MockUserUsecase)
		wantStatus int
	}{
		{
			name: "successful delete returns 204",
			setupMocks: func(usecase *mock_port.MockUserUsecase) {
				usecase.EXPECT().DeleteByID(gomock.Any(), userID).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "unknown user returns 404",
			setupMocks: func(usecase *mock_port.MockUserUsecase) {
				usecase.EXPECT().
					DeleteByID(gomock.Any(), userID).
					Return(apperrors.NewNotFound("user"))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			usecase := mock_port.NewMockUserUsecase(ctrl)
			tt.setupMocks(usecase)

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodDelete, "/backoffice/users/profile/"+userID, ""), rec)
			c.SetParamNames("userId")
			c.SetParamValues(userID)

			require.NoError(t, newTestHandler(usecase).DeleteUser(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUserHandler_VerifyEmail(t *testing.T) {
	userID := uuid.NewString()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	usecase := mock_port.NewMockUserUsecase(ctrl)
	usecase.EXPECT().MarkEmailVerified(gomock.Any(), userID).Return(nil)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/backoffice/users/"+userID+"/email/verify", ""), rec)
	c.SetParamNames("userId")
	c.SetParamValues(userID)

	require.NoError(t, newTestHandler(usecase).VerifyEmail(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestErrorResponseShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	usecase := mock_port.NewMockUserUsecase(ctrl)
	usecase.EXPECT().
		ListByRole(gomock.Any(), "lecturer").
		Return(nil, apperrors.NewNotFound("user"))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodGet, "/backoffice/users?role=lecturer", ""), rec)

	require.NoError(t, newTestHandler(usecase).ListByRole(c))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
	assert.NotEmpty(t, resp.Error)
}
