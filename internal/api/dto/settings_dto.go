package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/transport-site/internal/domain"
)

// UpdateSettingsRequest payload for PATCH/PUT /settings. Omitted fields are left unchanged.
type UpdateSettingsRequest struct {
	SiteName    *string           `json:"site_name"`
	Logo        *string           `json:"logo"`
	Email       *string           `json:"email"`
	Phone       *string           `json:"phone"`
	SocialLinks map[string]string `json:"social_links"`
}

// Validate checks the settings payload. Empty strings clear optional fields.
func (r UpdateSettingsRequest) Validate() error {
	if r.SiteName != nil && strings.TrimSpace(*r.SiteName) == "" {
		return fieldError("site_name", "site_name must not be empty")
	}
	if r.Logo != nil && *r.Logo != "" {
		if err := validateURL("logo", *r.Logo); err != nil {
			return err
		}
	}
	if r.Email != nil && *r.Email != "" {
		if err := validateEmail("email", *r.Email); err != nil {
			return err
		}
	}
	for name, link := range r.SocialLinks {
		if link == "" {
			continue
		}
		if err := validateURL("social_links."+name, link); err != nil {
			return err
		}
	}
	return nil
}

// Patch converts the request to a domain patch.
func (r UpdateSettingsRequest) Patch() domain.SettingsPatch {
	return domain.SettingsPatch{
		SiteName:    r.SiteName,
		Logo:        r.Logo,
		Email:       r.Email,
		Phone:       r.Phone,
		SocialLinks: r.SocialLinks,
	}
}

// SettingsResponse is the public view of the site settings.
type SettingsResponse struct {
	ID          string            `json:"id"`
	SiteName    string            `json:"site_name"`
	Logo        *string           `json:"logo"`
	Email       *string           `json:"email"`
	Phone       *string           `json:"phone"`
	SocialLinks map[string]string `json:"social_links"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewSettingsResponse maps domain settings to the response.
func NewSettingsResponse(s *domain.Settings) SettingsResponse {
	links := s.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	return SettingsResponse{
		ID:          s.ID,
		SiteName:    s.SiteName,
		Logo:        s.Logo,
		Email:       s.Email,
		Phone:       s.Phone,
		SocialLinks: links,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
