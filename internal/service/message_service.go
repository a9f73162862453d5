package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/domain"
	"github.com/spec-kit/transport-site/internal/events"
	"github.com/spec-kit/transport-site/internal/repository"
	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

// MessageService stores contact form submissions for the admin inbox.
type MessageService struct {
	messages   repository.MessageRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewMessageService constructs the service.
func NewMessageService(repo repository.MessageRepository, dispatcher events.Dispatcher, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{messages: repo, dispatcher: dispatcher, logger: logger}
}

// Submit records a visitor message as unread.
func (s *MessageService) Submit(ctx context.Context, name, email, body string) (*domain.ContactMessage, error) {
	msg := &domain.ContactMessage{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Body:  body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("create message: %w", err))
	}

	s.logger.Info("contact message received", zap.String("message_id", msg.ID))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventMessageReceived,
		Payload: events.MessageReceivedPayload{MessageID: msg.ID, Name: msg.Name},
	})
	return msg, nil
}

// List returns every message, newest first.
func (s *MessageService) List(ctx context.Context) ([]domain.ContactMessage, error) {
	messages, err := s.messages.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("list messages: %w", err))
	}
	return messages, nil
}

// Get returns one message.
func (s *MessageService) Get(ctx context.Context, id string) (*domain.ContactMessage, error) {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("message", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("load message: %w", err))
	}
	return msg, nil
}

// MarkRead flags the message with id as read and returns it.
func (s *MessageService) MarkRead(ctx context.Context, id string) (*domain.ContactMessage, error) {
	if err := s.messages.MarkRead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("message", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("mark message read: %w", err))
	}
	return s.Get(ctx, id)
}
