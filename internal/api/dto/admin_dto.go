package dto

import (
	"time"

	"github.com/spec-kit/transport-site/internal/domain"
)

// CreateAdminRequest payload for POST /admins.
type CreateAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r CreateAdminRequest) Validate() error {
	if err := validateEmail("email", r.Email); err != nil {
		return err
	}
	return validateNewPassword("password", r.Password)
}

// AdminResponse is the public view of an admin. Hashes and reset state never leave the server.
type AdminResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	ProfileImageURL *string   `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewAdminResponse maps a domain admin to its response.
func NewAdminResponse(admin *domain.Admin) AdminResponse {
	return AdminResponse{
		ID:              admin.ID,
		Email:           admin.Email,
		ProfileImageURL: admin.ProfileImageURL,
		CreatedAt:       admin.CreatedAt,
		UpdatedAt:       admin.UpdatedAt,
	}
}

// NewAdminListResponse maps a slice of admins.
func NewAdminListResponse(admins []domain.Admin) []AdminResponse {
	out := make([]AdminResponse, 0, len(admins))
	for i := range admins {
		out = append(out, NewAdminResponse(&admins[i]))
	}
	return out
}

// ProfileImageResponse is returned by the profile image endpoints.
type ProfileImageResponse struct {
	URL *string `json:"url"`
}
