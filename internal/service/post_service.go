package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/domain"
	"github.com/spec-kit/transport-site/internal/events"
	"github.com/spec-kit/transport-site/internal/repository"
	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

const (
	cacheKeyPostsAll      = "posts:all"
	cacheKeyPostsCarousel = "posts:carousel"
	cacheKeyPostsStatus   = "posts:status:"

	defaultListCacheTTL = 5 * time.Minute
)

// ListCache keeps rendered listings between writes. A miss is reported as
// (false, nil); errors are logged and the store is read instead.
type ListCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// PostService manages news posts and their cached listings.
type PostService struct {
	posts      repository.PostRepository
	cache      ListCache
	cacheTTL   time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PostDependencies encapsulates collaborators for post management.
// Cache may be nil.
type PostDependencies struct {
	PostRepo   repository.PostRepository
	Cache      ListCache
	CacheTTL   time.Duration
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewPostService constructs the service.
func NewPostService(deps PostDependencies) *PostService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = defaultListCacheTTL
	}
	return &PostService{
		posts:      deps.PostRepo,
		cache:      deps.Cache,
		cacheTTL:   ttl,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create stores a new post. An empty status defaults to draft.
func (s *PostService) Create(ctx context.Context, actorID *string, post domain.Post) (*domain.Post, error) {
	if post.Status == "" {
		post.Status = domain.PostStatusDraft
	}
	if err := s.posts.Create(ctx, &post); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("create post: %w", err))
	}

	s.invalidate(ctx)
	s.publish(ctx, events.EventPostCreated, &post, actorID)
	return &post, nil
}

// List returns posts newest first, optionally limited to one status.
func (s *PostService) List(ctx context.Context, status *domain.PostStatus) ([]domain.Post, error) {
	key := cacheKeyPostsAll
	if status != nil {
		key = cacheKeyPostsStatus + string(*status)
	}
	return s.cachedList(ctx, key, domain.PostFilter{Status: status})
}

// Carousel returns the published posts flagged for the home carousel, newest first.
func (s *PostService) Carousel(ctx context.Context) ([]domain.Post, error) {
	return s.cachedList(ctx, cacheKeyPostsCarousel, domain.CarouselFilter())
}

// Get returns one post.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("load post: %w", err))
	}
	return post, nil
}

// Update applies patch to the post with id.
func (s *PostService) Update(ctx context.Context, actorID *string, id string, patch domain.PostPatch) (*domain.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(post)
	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("update post: %w", err))
	}

	s.invalidate(ctx)
	s.publish(ctx, events.EventPostUpdated, post, actorID)
	return post, nil
}

// Delete removes the post with id.
func (s *PostService) Delete(ctx context.Context, actorID *string, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return apperrors.NewInternalError(fmt.Errorf("delete post: %w", err))
	}

	s.invalidate(ctx)
	s.publish(ctx, events.EventPostDeleted, post, actorID)
	return nil
}

func (s *PostService) cachedList(ctx context.Context, key string, filter domain.PostFilter) ([]domain.Post, error) {
	if s.cache != nil {
		var cached []domain.Post
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("post cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("list posts: %w", err))
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, posts, s.cacheTTL); err != nil {
			s.logger.Warn("post cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return posts, nil
}

func (s *PostService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	keys := []string{cacheKeyPostsAll, cacheKeyPostsCarousel}
	for _, status := range []domain.PostStatus{domain.PostStatusDraft, domain.PostStatusPublished} {
		keys = append(keys, cacheKeyPostsStatus+string(status))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("post cache invalidation failed", zap.Error(err))
	}
}

func (s *PostService) publish(ctx context.Context, eventType events.EventType, post *domain.Post, actorID *string) {
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    eventType,
		Actor:   events.Actor{AdminID: actorID},
		Payload: events.ContentPayload{ID: post.ID, Status: string(post.Status)},
	})
}
