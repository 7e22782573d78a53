// Package apperror defines the error vocabulary shared by every layer of the service.
// Gateway, service and handler code all return `*AppError` values so the HTTP layer can
// decide how each category is rendered (most store failures are deliberately rendered
// inside a 200 envelope, see the `resource` package).
package apperror

import (
	"errors"
	"fmt"
	// `net/http` is used for HTTP status codes.
	"net/http"
)

// ErrorType is an enumeration (using `iota`) for the categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents a failure reported by the document store or its driver
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// ValidationError represents a request body that failed boundary validation
	ValidationError
	// BadRequestError represents a request body that could not be decoded at all
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// MigrationError represents an error while preparing the document schema
	MigrationError
)

// String returns a short, log-friendly name for the error type.
func (t ErrorType) String() string {
	switch t {
	case DatabaseError:
		return "database"
	case ConfigError:
		return "config"
	case ValidationError:
		return "validation"
	case BadRequestError:
		return "bad_request"
	case InternalError:
		return "internal"
	case MigrationError:
		return "migration"
	default:
		return "unknown"
	}
}

// AppError is the custom error type of the application.
// It keeps a user-facing `Message` apart from the underlying cause (`Err`), which is only
// ever logged.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error so `errors.Is` and `errors.As` can walk the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type.
// Handlers that intentionally answer 200 for store failures do not consult it.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case DatabaseError, ConfigError, InternalError, MigrationError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. Prefer the typed constructors below.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// ErrorResponse is the `{error}` body clients receive for any failure.
type ErrorResponse struct {
	Error string `json:"error" example:"failed to delete tag"`
}

// ToResponse converts an AppError to an ErrorResponse.
// Only `Message` is exposed; the wrapped cause stays server-side.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// FromError converts any error into an *AppError, wrapping foreign errors as internal ones.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("internal server error", err)
}

// IsConfigError checks if an error came from loading the configuration
func IsConfigError(err error) bool {
	return isType(err, ConfigError)
}

// IsDatabaseError checks if an error came from the document store
func IsDatabaseError(err error) bool {
	return isType(err, DatabaseError)
}

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool {
	return isType(err, ValidationError)
}

// IsBadRequest reports whether the error should be answered with 400.
func IsBadRequest(err error) bool {
	return isType(err, BadRequestError) || IsValidationError(err)
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
