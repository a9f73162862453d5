package domain

import "time"

// ContactMessage is a note left by a visitor through the contact form.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Body      string
	IsRead    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
