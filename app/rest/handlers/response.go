package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/online-language-learning-systems/user-service/app/domain"
	custommw "github.com/online-language-learning-systems/user-service/app/rest/middleware"
	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
)

// ErrorResponse is the wire shape of every failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// respondError serializes a typed failure using the code→status mapping.
func respondError(c echo.Context, err error) error {
	resp := ErrorResponse{
		Error: err.Error(),
		Code:  string(apperrors.GetErrorCode(err)),
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		resp.Error = appErr.Message
		resp.Details = appErr.Details
	}
	return c.JSON(apperrors.GetHTTPStatusCode(err), resp)
}

func principalFromContext(c echo.Context) *domain.Principal {
	return custommw.PrincipalFromContext(c)
}
