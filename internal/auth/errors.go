package auth

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("auth: not found")
	// ErrConflict indicates a uniqueness violation, typically a duplicate email.
	ErrConflict = errors.New("auth: already exists")
	// ErrInvalidInput indicates malformed input caught before storage.
	ErrInvalidInput = errors.New("auth: invalid input")
	// ErrUnauthorized indicates a failed credential or ownership check.
	ErrUnauthorized = errors.New("auth: unauthorized")
	// ErrInvalidToken indicates a rejected access or federated token.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrTokenExpired indicates a refresh token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
)

// ValidationError carries the credential store's reported reasons for
// rejecting an account creation, e.g. a weak password.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	if len(e.Reasons) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Reasons, "; ")
}
