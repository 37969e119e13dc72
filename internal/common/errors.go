// Package common defines shared constants, sentinel errors and small helpers
// used across the server, the admin client and the CLI. Callers should use
// errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error is a failure with a message that is safe to show to a participant.
// It unwraps to its Kind, so errors.Is(err, ErrorValidation) and friends work.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Invalid builds a validation error with a formatted message.
func Invalid(format string, args ...any) error {
	return &Error{Kind: ErrorValidation, Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrUserNotFound        = &Error{Kind: ErrorNotFound, Msg: "user not found"}
	ErrUserExists          = &Error{Kind: ErrorAlreadyExists, Msg: "user already exists"}
	ErrNameRequired        = &Error{Kind: ErrorValidation, Msg: "name is required"}
	ErrSecretKeyRequired   = &Error{Kind: ErrorValidation, Msg: "secret key is required"}
	ErrInvalidSecretKey    = &Error{Kind: ErrorUnauthorized, Msg: "invalid secret key"}
	ErrCurrentKeyRequired  = &Error{Kind: ErrorUnauthorized, Msg: "current secret key is required"}
	ErrCurrentKeyIncorrect = &Error{Kind: ErrorUnauthorized, Msg: "current secret key is incorrect"}

	ErrNoAssignment   = &Error{Kind: ErrorValidation, Msg: "no assignment yet"}
	ErrNoSanta        = &Error{Kind: ErrorValidation, Msg: "no Secret Santa assigned to you yet"}
	ErrEmptyMessage   = &Error{Kind: ErrorValidation, Msg: "message cannot be empty"}
	ErrNoUsersGiven   = &Error{Kind: ErrorValidation, Msg: "users array is required"}
	ErrNotEnoughUsers = &Error{Kind: ErrorValidation, Msg: "need at least 2 users to shuffle"}
)
