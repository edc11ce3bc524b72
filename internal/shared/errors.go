package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidToken indicates the bearer token failed verification;
	// the caller must treat the session as anonymous.
	ErrInvalidToken = errors.New("invalid token")
	// ErrDuplicateSession occurs when a session id is registered twice.
	ErrDuplicateSession = errors.New("duplicate session")
)
