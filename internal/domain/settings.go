package domain

import "time"

// DefaultSiteName seeds the settings row created on first read.
const DefaultSiteName = "Dayang Transport"

// Settings holds site-wide presentation values.
type Settings struct {
	ID          string
	SiteName    string
	Logo        *string
	Email       *string
	Phone       *string
	SocialLinks map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultSettings is the payload persisted when no settings row exists.
func DefaultSettings() Settings {
	return Settings{
		SiteName:    DefaultSiteName,
		SocialLinks: map[string]string{},
	}
}

// SettingsPatch lists optional updates; nil fields are left untouched.
type SettingsPatch struct {
	SiteName    *string
	Logo        *string
	Email       *string
	Phone       *string
	SocialLinks map[string]string
}

// Apply copies the non-nil patch fields onto s.
func (p SettingsPatch) Apply(s *Settings) {
	if p.SiteName != nil {
		s.SiteName = *p.SiteName
	}
	if p.Logo != nil {
		s.Logo = p.Logo
	}
	if p.Email != nil {
		s.Email = p.Email
	}
	if p.Phone != nil {
		s.Phone = p.Phone
	}
	if p.SocialLinks != nil {
		s.SocialLinks = p.SocialLinks
	}
}

// Fields names the settings a patch touches.
func (p SettingsPatch) Fields() []string {
	var fields []string
	if p.SiteName != nil {
		fields = append(fields, "site_name")
	}
	if p.Logo != nil {
		fields = append(fields, "logo")
	}
	if p.Email != nil {
		fields = append(fields, "email")
	}
	if p.Phone != nil {
		fields = append(fields, "phone")
	}
	if p.SocialLinks != nil {
		fields = append(fields, "social_links")
	}
	return fields
}
