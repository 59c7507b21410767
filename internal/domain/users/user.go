package users

import "time"

// User is an account record. PasswordHash never leaves this package except
// through the repository; API responses are built from Public().
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Role         string
	CreatedAt    time.Time
	JoinedEvents []int64
}

// Profile is the public projection of a user, safe to return to clients.
type Profile struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (u *User) Public() Profile {
	return Profile{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
