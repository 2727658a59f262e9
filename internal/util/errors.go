package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCompletion    = errors.New("AI returned no choices")
	ErrNoAttempts         = errors.New("user has no attempts")
)
