// Package service holds the registration, authentication and statistics
// use cases. Handlers call into it and map its sentinel errors to HTTP
// status codes; storage details never leak past this layer.
package service

import "errors"

var (
	// ErrDuplicateUser means phone, national ID or employee ID is taken.
	ErrDuplicateUser = errors.New("duplicate user")
	// ErrInvalidCredentials covers both an unknown phone and a wrong
	// password so callers cannot probe which phones are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidForm is a malformed login request.
	ErrInvalidForm = errors.New("invalid form")
	// ErrPersistence hides any storage failure. The cause is logged.
	ErrPersistence = errors.New("persistence failure")
)

// DuplicateError names the identifier that collided. It unwraps to
// ErrDuplicateUser. Field is empty when the collision was only detected by
// the unique constraint and could not be attributed afterwards.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return ErrDuplicateUser.Error()
	}
	return ErrDuplicateUser.Error() + ": " + e.Field
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateUser }
