package domain

import (
	"strings"
	"time"
)

// Admin is the stored administrator credential.
type Admin struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	ResetToken          *string    `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	ProfileImageURL     *string    `json:"profile_image_url"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// HasPendingReset reports whether a reset token is outstanding.
func (a *Admin) HasPendingReset() bool {
	return a.ResetToken != nil && a.ResetTokenExpiresAt != nil
}

// Identity returns the minimal public view of the admin.
func (a *Admin) Identity() Identity {
	return Identity{ID: a.ID, Email: a.Email}
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
