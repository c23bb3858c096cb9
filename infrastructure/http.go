package infrastructure

import (
	"errors"
	"net/http"
)

// HTTPStatus maps an error kind to the status code the REST boundary
// returns. Unrecognized errors, including ErrSentinelMissing, fall through
// to 500: those indicate a deployment or data-integrity defect.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTokenExpired):
		return http.StatusGone
	case errors.Is(err, ErrAttemptsExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrAlreadyActive), errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
