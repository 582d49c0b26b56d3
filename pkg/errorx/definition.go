package errorx

import (
	"errors"
	"net/http"
)

var httpStatuses = map[Code]int{
	BadRequest:       http.StatusBadRequest,
	StateConflict:    http.StatusBadRequest,
	Expired:          http.StatusBadRequest,
	Unauthenticated:  http.StatusUnauthorized,
	PermissionDenied: http.StatusForbidden,
	NotFound:         http.StatusNotFound,
	AlreadyExists:    http.StatusConflict,
	TooManyRequests:  http.StatusTooManyRequests,
	NotImplemented:   http.StatusNotImplemented,
	Unavailable:      http.StatusServiceUnavailable,
}

// HTTPStatus returns the status code sent to client for this error. Unknown
// codes are treated as internal failures.
func (e Error) HTTPStatus() int {
	if status, ok := httpStatuses[e.Code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// Normalize converts any error to an Error which is safe to be sent to client.
// Errors which are not created by this package never leak their message.
func Normalize(err error) Error {
	var errx Error
	if errors.As(err, &errx) {
		return errx
	}

	return Unknown
}
