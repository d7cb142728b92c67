package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/online-language-learning-systems/user-service/app/domain"
	"github.com/online-language-learning-systems/user-service/app/port"
	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
	"github.com/online-language-learning-systems/user-service/app/utils/validator"
)

// UserHandler handles user management HTTP requests
type UserHandler struct {
	userUsecase port.UserUsecase
	validator   *validator.Validator
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userUsecase port.UserUsecase, v *validator.Validator, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   v,
		logger:      logger,
	}
}

// ListByRole lists users holding a realm role.
// GET /backoffice/users?role=<name>
func (h *UserHandler) ListByRole(c echo.Context) error {
	ctx := c.Request().Context()

	role := c.QueryParam("role")
	if role == "" {
		return respondError(c, apperrors.NewValidationError("role query parameter is required"))
	}

	list, err := h.userUsecase.ListByRole(ctx, role)
	if err != nil {
		h.logger.Error("failed to list users by role", "role", role, "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// GetProfile returns the authenticated caller's own account. The username
// comes from the verified token, never from client input.
// GET /storefront/user/profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	principal := principalFromContext(c)
	if principal == nil || principal.Username == "" {
		return respondError(c, apperrors.NewUnauthenticated("no authenticated principal"))
	}

	detail, err := h.userUsecase.GetProfile(ctx, principal.Username)
	if err != nil {
		h.logger.Error("failed to get profile", "username", principal.Username, "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, detail)
}

// GetByID returns a single account.
// GET /backoffice/users/:userId
func (h *UserHandler) GetByID(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := h.pathUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.userUsecase.GetByID(ctx, userID)
	if err != nil {
		h.logger.Error("failed to get user by id", "user_id", userID, "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, detail)
}

// CreateUser registers a new account.
// POST /storefront/users
func (h *UserHandler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.NewValidationError("invalid request body"))
	}

	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, apperrors.NewValidationError(err.Error()))
	}

	input := &domain.CreateUserInput{
		Username:        req.Username,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Email:           req.Email,
		Role:            req.Role,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	}

	detail, err := h.userUsecase.Create(ctx, input)
	if err != nil {
		h.logger.Error("failed to create user", "username", req.Username, "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, detail)
}

// UpdateProfile overwrites an account's mutable profile fields.
// PUT /backoffice/users/profile/:userId
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := h.pathUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.NewValidationError("invalid request body"))
	}

	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, apperrors.NewValidationError(err.Error()))
	}

	input := &domain.ProfileUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}

	if err := h.userUsecase.UpdateProfile(ctx, userID, input); err != nil {
		h.logger.Error("failed to update profile", "user_id", userID, "error", err)
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// BanUser disables an account.
// PATCH /backoffice/users/:userId/ban
func (h *UserHandler) BanUser(c echo.Context) error {
	return h.setBanned(c, true)
}

// UnbanUser re-enables an account.
// PATCH /backoffice/users/:userId/unban
func (h *UserHandler) UnbanUser(c echo.Context) error {
	return h.setBanned(c, false)
}

func (h *UserHandler) setBanned(c echo.Context, banned bool) error {
	ctx := c.Request().Context()

	userID, err := h.pathUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.userUsecase.SetBanned(ctx, userID, banned); err != nil {
		h.logger.Error("failed to change ban state", "user_id", userID, "banned", banned, "error", err)
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteUser soft-deletes an account.
// DELETE /backoffice/users/profile/:userId
func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := h.pathUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.userUsecase.DeleteByID(ctx, userID); err != nil {
		h.logger.Error("failed to delete user", "user_id", userID, "error", err)
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// VerifyEmail flags an account's email address as verified.
// PATCH /backoffice/users/:userId/email/verify
func (h *UserHandler) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := h.pathUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.userUsecase.MarkEmailVerified(ctx, userID); err != nil {
		h.logger.Error("failed to verify email", "user_id", userID, "error", err)
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// pathUserID parses the userId path parameter, which must be a UUID.
func (h *UserHandler) pathUserID(c echo.Context) (string, error) {
	raw := c.Param("userId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.NewValidationError("invalid user ID format")
	}
	return id.String(), nil
}

// Request types

type CreateUserRequest struct {
	Username        string `json:"username" validate:"required,username"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role,omitempty"`
	FirstName       string `json:"firstName" validate:"required,notblank"`
	LastName        string `json:"lastName" validate:"required,notblank"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
	Email     string `json:"email" validate:"required,email"`
}
