package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/transport-site/internal/domain"
)

// ErrDuplicateSlug is returned when a page with the same slug exists.
var ErrDuplicateSlug = errors.New("page slug already exists")

// PageRepository persists the fixed site pages, one row per slug.
type PageRepository interface {
	Create(ctx context.Context, page *domain.Page) error
	GetBySlug(ctx context.Context, slug domain.PageSlug) (*domain.Page, error)
	List(ctx context.Context) ([]domain.Page, error)
	Update(ctx context.Context, page *domain.Page) error
	Delete(ctx context.Context, slug domain.PageSlug) error
}
