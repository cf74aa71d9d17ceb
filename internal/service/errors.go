// Package service provides the authentication and ledger business logic,
// delegating persistence to repository interfaces.
package service

import "errors"

var (
	// ErrEmailTaken is returned by Register when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUnauthorized is the root of every authentication failure.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidEmail is returned when no user has the given email.
	ErrInvalidEmail = wrapUnauthorized("invalid email")
	// ErrInvalidPassword is returned when the password does not match.
	ErrInvalidPassword = wrapUnauthorized("invalid password")
	// ErrInvalidToken is returned when a bearer token matches no live session.
	ErrInvalidToken = wrapUnauthorized("invalid token")
	// ErrDuplicateTitle is returned when a ledger already holds the title.
	ErrDuplicateTitle = errors.New("transaction title already exists")
)

type unauthorizedError struct {
	reason string
}

func wrapUnauthorized(reason string) error {
	return &unauthorizedError{reason: reason}
}

func (e *unauthorizedError) Error() string { return e.reason }

func (e *unauthorizedError) Unwrap() error { return ErrUnauthorized }
