package repository

import (
	"context"

	"github.com/spec-kit/transport-site/internal/domain"
)

// MessageRepository persists contact form submissions.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
	GetByID(ctx context.Context, id string) (*domain.ContactMessage, error)
	// List returns every message, newest first.
	List(ctx context.Context) ([]domain.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
}
