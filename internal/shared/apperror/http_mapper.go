package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any error onto the response envelope. Errors that are not an
// AppError are reported as internal so store failures never leak to callers.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus > 0 && appErr.HTTPStatus < http.StatusInternalServerError {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}

// IsDomain reports whether err belongs to the caller-facing taxonomy.
func IsDomain(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError
}
