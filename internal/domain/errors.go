package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation marks malformed, missing or out-of-domain input.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden marks an entity the caller has no rights over.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks a business-rule violation such as mutating an address in active use.
	ErrConflict = errors.New("conflict")
)

// Error pairs an error kind with the message shown to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Validation returns an ErrValidation error with a client-facing message.
func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// NotFound returns an ErrNotFound error with a client-facing message.
func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// Forbidden returns an ErrForbidden error with a client-facing message.
func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

// Conflict returns an ErrConflict error with a client-facing message.
func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}
