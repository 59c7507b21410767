package users

import "context"

// Repository is the credential store. Implementations assign strictly
// increasing identifiers starting at 1 and enforce email uniqueness at
// creation; no operation removes a user.
type Repository interface {
	// Create assigns the next identifier, persists the user, and returns the
	// stored record. Fails with ErrEmailTaken if the email already exists.
	Create(ctx context.Context, user User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
}
