package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/domain"
	"github.com/spec-kit/transport-site/internal/events"
	"github.com/spec-kit/transport-site/internal/repository"
	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

// SettingsService reads and updates the site settings row.
type SettingsService struct {
	settings   repository.SettingsRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(repo repository.SettingsRepository, dispatcher events.Dispatcher, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{settings: repo, dispatcher: dispatcher, logger: logger}
}

// GetOrCreateDefault returns the newest settings, creating the default row on first use.
func (s *SettingsService) GetOrCreateDefault(ctx context.Context) (*domain.Settings, error) {
	current, err := s.settings.Latest(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(fmt.Errorf("load settings: %w", err))
	}

	defaults := domain.DefaultSettings()
	if err := s.settings.Create(ctx, &defaults); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("create default settings: %w", err))
	}
	return &defaults, nil
}

// Update applies patch to the current settings.
func (s *SettingsService) Update(ctx context.Context, actorID *string, patch domain.SettingsPatch) (*domain.Settings, error) {
	current, err := s.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}

	patch.Apply(current)
	if err := s.settings.Update(ctx, current); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("update settings: %w", err))
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventSettingsUpdated,
		Actor:   events.Actor{AdminID: actorID},
		Payload: events.SettingsUpdatedPayload{Fields: patch.Fields()},
	})
	return current, nil
}
