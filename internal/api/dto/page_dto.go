package dto

import (
	"time"

	"github.com/spec-kit/transport-site/internal/domain"
)

// UpdatePageRequest payload for PUT /pages/:slug. Empty strings clear a field.
type UpdatePageRequest struct {
	ContentFR *string `json:"content_fr"`
	ContentEN *string `json:"content_en"`
	ContentES *string `json:"content_es"`
	Image     *string `json:"image"`
}

func (r UpdatePageRequest) Validate() error {
	return validateOptionalURL("image", r.Image)
}

// Patch converts the request to a domain patch.
func (r UpdatePageRequest) Patch() domain.PagePatch {
	return domain.PagePatch{
		ContentFR: r.ContentFR,
		ContentEN: r.ContentEN,
		ContentES: r.ContentES,
		Image:     r.Image,
	}
}

// CreatePageRequest payload for POST /pages.
type CreatePageRequest struct {
	Slug string `json:"slug"`
	UpdatePageRequest
}

// Validate checks presence only; the slug itself is checked by the page service.
func (r CreatePageRequest) Validate() error {
	if err := validateRequired("slug", r.Slug); err != nil {
		return err
	}
	return r.UpdatePageRequest.Validate()
}

// PageResponse is the public view of a page.
type PageResponse struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	ContentFR *string   `json:"content_fr"`
	ContentEN *string   `json:"content_en"`
	ContentES *string   `json:"content_es"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewPageResponse(p *domain.Page) PageResponse {
	return PageResponse{
		ID:        p.ID,
		Slug:      string(p.Slug),
		ContentFR: p.ContentFR,
		ContentEN: p.ContentEN,
		ContentES: p.ContentES,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewPageListResponse(pages []domain.Page) []PageResponse {
	out := make([]PageResponse, len(pages))
	for i := range pages {
		out[i] = NewPageResponse(&pages[i])
	}
	return out
}
