package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/transport-site/internal/domain"
)

// CreateMessageRequest payload for POST /contact.
type CreateMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r CreateMessageRequest) Validate() error {
	if err := validateRequired("name", strings.TrimSpace(r.Name)); err != nil {
		return err
	}
	if err := validateEmail("email", r.Email); err != nil {
		return err
	}
	return validateRequired("message", strings.TrimSpace(r.Message))
}

// ContactMessageResponse is the admin view of a contact message.
type ContactMessageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewContactMessageResponse(m *domain.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Message:   m.Body,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func NewContactMessageListResponse(messages []domain.ContactMessage) []ContactMessageResponse {
	out := make([]ContactMessageResponse, len(messages))
	for i := range messages {
		out[i] = NewContactMessageResponse(&messages[i])
	}
	return out
}
