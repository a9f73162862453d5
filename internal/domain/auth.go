package domain

import "time"

// Identity is what a successful login discloses about the admin.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session describes an issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	IssuedAt  time.Time
	Identity  Identity
}
