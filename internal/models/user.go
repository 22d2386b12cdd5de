package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Summary returns the public projection of the user.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

// UserSummary is the user as embedded in auth responses and posts. It carries
// neither the password hash nor the internal timestamps.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserPatch holds the fields a user may change on their own account. Nil
// fields are left untouched.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
}

// Caller is the authenticated identity behind a request.
type Caller struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Credentials identify a user at login. Username takes precedence over Email
// when both are given.
type Credentials struct {
	Username string
	Email    string
	Password string
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        UserSummary `json:"user"`
}
