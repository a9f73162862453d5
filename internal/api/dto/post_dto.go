package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/transport-site/internal/domain"
)

// CreatePostRequest payload for POST /posts.
type CreatePostRequest struct {
	TitleFR        string  `json:"title_fr"`
	TitleEN        string  `json:"title_en"`
	TitleES        string  `json:"title_es"`
	ContentFR      string  `json:"content_fr"`
	ContentEN      string  `json:"content_en"`
	ContentES      string  `json:"content_es"`
	Image          *string `json:"image"`
	ShowInCarousel bool    `json:"show_in_carousel"`
	Status         string  `json:"status"`
}

func (r CreatePostRequest) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"title_fr", r.TitleFR},
		{"title_en", r.TitleEN},
		{"title_es", r.TitleES},
		{"content_fr", r.ContentFR},
		{"content_en", r.ContentEN},
		{"content_es", r.ContentES},
	} {
		if err := validateRequired(f.name, strings.TrimSpace(f.value)); err != nil {
			return err
		}
	}
	if err := validateOptionalURL("image", r.Image); err != nil {
		return err
	}
	if r.Status != "" {
		return validateStatus(r.Status)
	}
	return nil
}

// Post converts the request to a domain post.
func (r CreatePostRequest) Post() domain.Post {
	post := domain.Post{
		TitleFR:        r.TitleFR,
		TitleEN:        r.TitleEN,
		TitleES:        r.TitleES,
		ContentFR:      r.ContentFR,
		ContentEN:      r.ContentEN,
		ContentES:      r.ContentES,
		ShowInCarousel: r.ShowInCarousel,
		Status:         domain.PostStatus(r.Status),
	}
	if r.Image != nil && *r.Image != "" {
		post.Image = r.Image
	}
	return post
}

// UpdatePostRequest payload for PATCH /posts/:id. Omitted fields are left unchanged.
type UpdatePostRequest struct {
	TitleFR        *string `json:"title_fr"`
	TitleEN        *string `json:"title_en"`
	TitleES        *string `json:"title_es"`
	ContentFR      *string `json:"content_fr"`
	ContentEN      *string `json:"content_en"`
	ContentES      *string `json:"content_es"`
	Image          *string `json:"image"`
	ShowInCarousel *bool   `json:"show_in_carousel"`
	Status         *string `json:"status"`
}

func (r UpdatePostRequest) Validate() error {
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"title_fr", r.TitleFR},
		{"title_en", r.TitleEN},
		{"title_es", r.TitleES},
		{"content_fr", r.ContentFR},
		{"content_en", r.ContentEN},
		{"content_es", r.ContentES},
	} {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return fieldError(f.name, fmt.Sprintf("%s must not be empty", f.name))
		}
	}
	if err := validateOptionalURL("image", r.Image); err != nil {
		return err
	}
	if r.Status != nil {
		return validateStatus(*r.Status)
	}
	return nil
}

// Patch converts the request to a domain patch.
func (r UpdatePostRequest) Patch() domain.PostPatch {
	patch := domain.PostPatch{
		TitleFR:        r.TitleFR,
		TitleEN:        r.TitleEN,
		TitleES:        r.TitleES,
		ContentFR:      r.ContentFR,
		ContentEN:      r.ContentEN,
		ContentES:      r.ContentES,
		Image:          r.Image,
		ShowInCarousel: r.ShowInCarousel,
	}
	if r.Status != nil {
		status := domain.PostStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// ParsePostStatus validates the optional ?status= filter. Empty means no filter.
func ParsePostStatus(raw string) (*domain.PostStatus, error) {
	if raw == "" {
		return nil, nil
	}
	if err := validateStatus(raw); err != nil {
		return nil, err
	}
	status := domain.PostStatus(raw)
	return &status, nil
}

// PostResponse is the public view of a post.
type PostResponse struct {
	ID             string    `json:"id"`
	TitleFR        string    `json:"title_fr"`
	TitleEN        string    `json:"title_en"`
	TitleES        string    `json:"title_es"`
	ContentFR      string    `json:"content_fr"`
	ContentEN      string    `json:"content_en"`
	ContentES      string    `json:"content_es"`
	Image          *string   `json:"image"`
	ShowInCarousel bool      `json:"show_in_carousel"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:             p.ID,
		TitleFR:        p.TitleFR,
		TitleEN:        p.TitleEN,
		TitleES:        p.TitleES,
		ContentFR:      p.ContentFR,
		ContentEN:      p.ContentEN,
		ContentES:      p.ContentES,
		Image:          p.Image,
		ShowInCarousel: p.ShowInCarousel,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func NewPostListResponse(posts []domain.Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i := range posts {
		out[i] = NewPostResponse(&posts[i])
	}
	return out
}

func validateStatus(value string) error {
	if !domain.PostStatus(value).Valid() {
		return fieldError("status", "status must be draft or published")
	}
	return nil
}

// validateOptionalURL accepts nil or empty values, which clear the field.
func validateOptionalURL(field string, value *string) error {
	if value == nil || *value == "" {
		return nil
	}
	return validateURL(field, *value)
}
