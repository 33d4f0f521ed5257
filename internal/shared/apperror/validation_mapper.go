package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldError is one entry of the details list on a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

var (
	ErrMalformedBody = New(
		CodeValidation,
		"Request body is malformed",
		http.StatusBadRequest,
	)

	errInvalidInput = New(
		CodeValidation,
		"Invalid input",
		http.StatusBadRequest,
	)
)

// formatFieldName turns start_date into "Start Date".
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")

	caser := cases.Title(language.English)
	return caser.String(s)
}

func fieldMessage(e validator.FieldError) string {
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required":
		return RequiredField(field).Message
	case "datetime":
		return fmt.Sprintf("%s must use the format yyyy-MM-dd HH:mm:ss", field)
	case "uuid":
		return fmt.Sprintf("%s must be a UUID", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("%s accepts at most %s items", field, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	default:
		return InvalidField(field).Message
	}
}

// MapValidationError converts a binding failure into a VALIDATION_ERROR.
// The message names the first failing field; details list all of them.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		details := make([]FieldError, 0, len(errs))
		for _, e := range errs {
			details = append(details, FieldError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: fieldMessage(e),
			})
		}

		return New(CodeValidation, details[0].Message, http.StatusBadRequest).
			WithDetails(details)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return ErrMalformedBody.WithCause(err)
	}

	return errInvalidInput
}
