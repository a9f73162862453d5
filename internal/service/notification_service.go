package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/events"
)

// SecurityNotifier sends account notices that carry no secrets.
type SecurityNotifier interface {
	SendPasswordChanged(ctx context.Context, email string) error
}

// NotificationService turns security events into audit log lines and emails.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   SecurityNotifier
	logger     *zap.Logger
}

// NewNotificationService creates the service. notifier may be nil to only audit.
func NewNotificationService(dispatcher events.Dispatcher, notifier SecurityNotifier, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAdminCreated, n.audit)
	n.dispatcher.Subscribe(events.EventAdminRemoved, n.audit)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.audit)
	n.dispatcher.Subscribe(events.EventSettingsUpdated, n.audit)
	n.dispatcher.Subscribe(events.EventPasswordReset, n.handlePasswordUpdated)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handlePasswordUpdated)
}

func (n *NotificationService) audit(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("at", event.Timestamp),
	}
	if event.AdminID != "" {
		fields = append(fields, zap.String("admin_id", event.AdminID))
	}
	if event.Actor.AdminID != nil {
		fields = append(fields, zap.String("actor_id", *event.Actor.AdminID))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	n.logger.Info("security event", fields...)
	return nil
}

func (n *NotificationService) handlePasswordUpdated(ctx context.Context, event events.Event) error {
	_ = n.audit(ctx, event)
	if n.notifier == nil || event.Email == "" {
		return nil
	}
	return n.notifier.SendPasswordChanged(ctx, event.Email)
}
