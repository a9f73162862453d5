package domain

import "time"

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is a news article written in French, English and Spanish.
type Post struct {
	ID             string
	TitleFR        string
	TitleEN        string
	TitleES        string
	ContentFR      string
	ContentEN      string
	ContentES      string
	Image          *string
	ShowInCarousel bool
	Status         PostStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PostFilter narrows post listings. The zero value lists every post.
type PostFilter struct {
	Status       *PostStatus
	CarouselOnly bool
}

// CarouselFilter selects the published posts flagged for the home carousel.
func CarouselFilter() PostFilter {
	published := PostStatusPublished
	return PostFilter{Status: &published, CarouselOnly: true}
}

// PostPatch lists optional post updates; nil fields are left untouched.
// An empty Image clears the stored image.
type PostPatch struct {
	TitleFR        *string
	TitleEN        *string
	TitleES        *string
	ContentFR      *string
	ContentEN      *string
	ContentES      *string
	Image          *string
	ShowInCarousel *bool
	Status         *PostStatus
}

// Apply copies the non-nil patch fields onto p.
func (pp PostPatch) Apply(p *Post) {
	setString(&p.TitleFR, pp.TitleFR)
	setString(&p.TitleEN, pp.TitleEN)
	setString(&p.TitleES, pp.TitleES)
	setString(&p.ContentFR, pp.ContentFR)
	setString(&p.ContentEN, pp.ContentEN)
	setString(&p.ContentES, pp.ContentES)
	if pp.Image != nil {
		p.Image = optional(*pp.Image)
	}
	if pp.ShowInCarousel != nil {
		p.ShowInCarousel = *pp.ShowInCarousel
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// optional turns an empty string into nil.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
