package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the application's failure taxonomy.
// Services wrap these; handlers unwrap with errors.Is to pick a response.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnavailable        = errors.New("unavailable")
	ErrInvalidAction      = errors.New("invalid action")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// NotAuthenticated indicates there is no valid session.
// HTTP handlers map this to a redirect to the login page.
func NotAuthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrNotAuthenticated,
		Message: message,
	}
}

// InvalidCredentials is returned for an unknown name OR a wrong secret.
// Deliberately one error for both cases so responses don't reveal which
// usernames exist.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid credentials",
	}
}

// Unavailable indicates the target of an operation exists but is not in
// a state that permits it (e.g. applying to a non-approved event).
func Unavailable(message string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: message,
	}
}

// InvalidAction indicates a workflow action outside the allowed set.
func InvalidAction(action string) *AppError {
	return &AppError{
		Err:     ErrInvalidAction,
		Message: fmt.Sprintf("invalid action %q", action),
	}
}

// Message extracts the human-readable message from an error chain.
// Handlers use it to echo a typed error into a page without exposing the
// raw chain; an error that carries no AppError gets a generic message.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong"
}
