package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidInput        = errors.New("invalid input")
	ErrStorageFailure      = errors.New("storage failure")
	ErrSessionNotFound     = errors.New("no active session")
	ErrForbidden           = errors.New("access forbidden")
	ErrProviderUnavailable = errors.New("analytics provider unavailable")
)
