package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing, expired or revoked token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller lacks the required module permission.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates the operation violates a referential or state constraint.
	ErrConflict = errors.New("conflict")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates invalid request input.
	ErrValidation = errors.New("validation failed")
)
