package users

import "errors"

// Error types for account operations
var (
	ErrInvalidInput = errors.New("email, password, and name are required")
	ErrInvalidEmail = errors.New("invalid email format")
	ErrWeakPassword = errors.New("password must be at least 6 characters long")
	ErrEmailTaken   = errors.New("email already registered")

	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserNotFound = errors.New("user not found")
)
