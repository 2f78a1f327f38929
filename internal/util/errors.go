package util

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already registered")
	// ErrAnswerRowConflict marks corrupted data: more than one merge-policy
	// answer row exists for a single (sid, div_id, course) key.
	ErrAnswerRowConflict = errors.New("multiple answer rows for one subject key")
)
