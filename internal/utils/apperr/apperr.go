package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors for the failure classes the API distinguishes. Wrap them
// with fmt.Errorf("%w: ...") so handlers can map any error to a status via
// errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrAuthentication   = errors.New("authentication required")
	ErrAuthorization    = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrUpstreamProvider = errors.New("storage provider failure")
)

// HTTPStatus maps an error to its response status. Unclassified errors are
// internal server errors.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstreamProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
