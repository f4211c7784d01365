package httpx

import (
	"errors"
	"net/http"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps domain and authorization errors to HTTP responses using
// RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var invalidScope *authz.InvalidScopeError
	var invalidAction *authz.InvalidActionError
	switch {
	case errors.Is(err, authz.ErrUnauthenticated), errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, authz.ErrForbidden), errors.Is(err, authz.ErrAdminProfile), errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.As(err, &invalidScope):
		Problem(w, http.StatusBadRequest, "Invalid Scope", err.Error())
	case errors.As(err, &invalidAction):
		Problem(w, http.StatusBadRequest, "Invalid Action", err.Error())
	case errors.Is(err, authz.ErrNotFound), errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
