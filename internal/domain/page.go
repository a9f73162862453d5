package domain

import "time"

// PageSlug names one of the fixed site pages.
type PageSlug string

const (
	PageHome     PageSlug = "home"
	PageAbout    PageSlug = "about"
	PageServices PageSlug = "services"
	PageContact  PageSlug = "contact"
)

// PageSlugs lists every page the site serves, in menu order.
var PageSlugs = []PageSlug{PageHome, PageAbout, PageServices, PageContact}

// ParsePageSlug reports whether raw names a known page.
func ParsePageSlug(raw string) (PageSlug, bool) {
	for _, slug := range PageSlugs {
		if string(slug) == raw {
			return slug, true
		}
	}
	return "", false
}

// Page holds the editable content of a fixed site page.
type Page struct {
	ID        string
	Slug      PageSlug
	ContentFR *string
	ContentEN *string
	ContentES *string
	Image     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PagePatch lists optional page updates. Empty strings clear a field.
type PagePatch struct {
	ContentFR *string
	ContentEN *string
	ContentES *string
	Image     *string
}

// Apply copies the non-nil patch fields onto p.
func (pp PagePatch) Apply(p *Page) {
	if pp.ContentFR != nil {
		p.ContentFR = optional(*pp.ContentFR)
	}
	if pp.ContentEN != nil {
		p.ContentEN = optional(*pp.ContentEN)
	}
	if pp.ContentES != nil {
		p.ContentES = optional(*pp.ContentES)
	}
	if pp.Image != nil {
		p.Image = optional(*pp.Image)
	}
}
