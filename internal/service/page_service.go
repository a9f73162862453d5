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

// PageService manages the fixed site pages. Pages are created on first read.
type PageService struct {
	pages      repository.PageRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewPageService constructs the service.
func NewPageService(repo repository.PageRepository, dispatcher events.Dispatcher, logger *zap.Logger) *PageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageService{pages: repo, dispatcher: dispatcher, logger: logger}
}

// ParseSlug validates raw against the known page slugs.
func ParseSlug(raw string) (domain.PageSlug, error) {
	slug, ok := domain.ParsePageSlug(raw)
	if !ok {
		return "", apperrors.NewBadRequest("invalid slug, allowed: "+allowedSlugs(), map[string]any{"slug": raw})
	}
	return slug, nil
}

// List returns every stored page.
func (s *PageService) List(ctx context.Context) ([]domain.Page, error) {
	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("list pages: %w", err))
	}
	return pages, nil
}

// GetOrCreate returns the page for rawSlug, creating an empty one on first use.
func (s *PageService) GetOrCreate(ctx context.Context, rawSlug string) (*domain.Page, error) {
	slug, err := ParseSlug(rawSlug)
	if err != nil {
		return nil, err
	}

	page, err := s.pages.GetBySlug(ctx, slug)
	if err == nil {
		return page, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(fmt.Errorf("load page: %w", err))
	}

	page = &domain.Page{Slug: slug}
	if err := s.pages.Create(ctx, page); err != nil {
		// a concurrent reader created it first
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return s.load(ctx, slug)
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("create page: %w", err))
	}
	s.logger.Info("page created on first read", zap.String("slug", string(slug)))
	return page, nil
}

// Create stores a page for rawSlug. It fails with Conflict when the page exists.
func (s *PageService) Create(ctx context.Context, actorID *string, rawSlug string, patch domain.PagePatch) (*domain.Page, error) {
	slug, err := ParseSlug(rawSlug)
	if err != nil {
		return nil, err
	}

	page := &domain.Page{Slug: slug}
	patch.Apply(page)
	if err := s.pages.Create(ctx, page); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, apperrors.NewConflict("a page with this slug already exists", map[string]any{"slug": rawSlug})
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("create page: %w", err))
	}

	s.publish(ctx, events.EventPageUpdated, page, actorID)
	return page, nil
}

// Update applies patch to the page for rawSlug, creating the page if needed.
func (s *PageService) Update(ctx context.Context, actorID *string, rawSlug string, patch domain.PagePatch) (*domain.Page, error) {
	page, err := s.GetOrCreate(ctx, rawSlug)
	if err != nil {
		return nil, err
	}

	patch.Apply(page)
	if err := s.pages.Update(ctx, page); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("page", map[string]any{"slug": rawSlug})
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("update page: %w", err))
	}

	s.publish(ctx, events.EventPageUpdated, page, actorID)
	return page, nil
}

// Delete removes the page for rawSlug. A later read recreates it empty.
func (s *PageService) Delete(ctx context.Context, actorID *string, rawSlug string) error {
	slug, err := ParseSlug(rawSlug)
	if err != nil {
		return err
	}
	if err := s.pages.Delete(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("page", map[string]any{"slug": rawSlug})
		}
		return apperrors.NewInternalError(fmt.Errorf("delete page: %w", err))
	}

	s.publish(ctx, events.EventPageDeleted, &domain.Page{Slug: slug}, actorID)
	return nil
}

func (s *PageService) load(ctx context.Context, slug domain.PageSlug) (*domain.Page, error) {
	page, err := s.pages.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("load page: %w", err))
	}
	return page, nil
}

func (s *PageService) publish(ctx context.Context, eventType events.EventType, page *domain.Page, actorID *string) {
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    eventType,
		Actor:   events.Actor{AdminID: actorID},
		Payload: events.ContentPayload{ID: page.ID, Slug: string(page.Slug)},
	})
}

func allowedSlugs() string {
	names := make([]string, len(domain.PageSlugs))
	for i, slug := range domain.PageSlugs {
		names[i] = string(slug)
	}
	return strings.Join(names, ", ")
}
