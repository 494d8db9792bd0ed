package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAdminRequired      = errors.New("admin privilege required")
	ErrAuthNotConfigured  = errors.New("admin login is not configured")
)
