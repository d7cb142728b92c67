package keycloak

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Nerzal/gocloak/v13"

	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
)

// translateError maps a Keycloak admin API failure to the service's error
// taxonomy. Every failure comes out as exactly one typed error; nothing is
// swallowed or retried here.
func translateError(err error, operation string) error {
	if code, ok := apiErrorCode(err); ok {
		switch code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.Wrap(apperrors.ErrCodeAccessDenied,
				fmt.Sprintf("identity provider rejected %s", operation), err)
		case http.StatusNotFound:
			return apperrors.Wrap(apperrors.ErrCodeNotFound,
				fmt.Sprintf("identity provider has no such resource for %s", operation), err)
		case http.StatusConflict:
			return apperrors.Wrap(apperrors.ErrCodeDuplicate,
				fmt.Sprintf("identity provider reported a conflict during %s", operation), err)
		}
	}

	return apperrors.Wrapf(apperrors.ErrCodeUpstreamError, err,
		"identity provider %s failed", operation)
}

// apiErrorCode digs the HTTP status out of a gocloak failure. The library
// returns APIError both by value and by pointer depending on the call site.
func apiErrorCode(err error) (int, bool) {
	var ptrErr *gocloak.APIError
	if errors.As(err, &ptrErr) {
		return ptrErr.Code, true
	}
	var valErr gocloak.APIError
	if errors.As(err, &valErr) {
		return valErr.Code, true
	}
	return 0, false
}
