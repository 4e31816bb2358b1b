package session

import "errors"

// Errors returned by the session package.
var (
	// ErrInvalidID is returned for an empty session ID.
	ErrInvalidID = errors.New("invalid session id")

	// ErrEmptyToken is returned when signing in without a token.
	ErrEmptyToken = errors.New("empty auth token")
)
