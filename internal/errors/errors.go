package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUserNotFound is returned when no record exists for the requested id.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a create or update would reuse an email.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned on any login failure, whether the
	// email is unknown or the secret is wrong.
	ErrInvalidCredentials = errors.New("invalid email or secret")
)

// FieldError names one offending request field and the rule it broke.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Fields []FieldError `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     []FieldError
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// Unauthorized is the single rejection shape for every token failure: missing,
// malformed, expired, or asserting an identity that no longer resolves.
func Unauthorized() *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, "invalid or expired token", "UNAUTHORIZED")
}

// NewValidationError turns a validator error into a 400 response listing every
// offending field, not just the first one.
func NewValidationError(err error) *HTTPError {
	httpErr := NewHTTPError(http.StatusBadRequest, "request validation failed", "VALIDATION_ERROR")

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			httpErr.Fields = append(httpErr.Fields, FieldError{
				Field: strings.ToLower(fe.Field()),
				Rule:  rule,
			})
		}
	}
	return httpErr
}
