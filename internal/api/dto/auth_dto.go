package dto

import "time"

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login payload.
func (r LoginRequest) Validate() error {
	if err := validateEmail("email", r.Email); err != nil {
		return err
	}
	return validateRequired("password", r.Password)
}

// ForgotPasswordRequest payload for POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validateEmail("email", r.Email)
}

// ResetPasswordRequest payload for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (r ResetPasswordRequest) Validate() error {
	if err := validateRequired("token", r.Token); err != nil {
		return err
	}
	return validateNewPassword("newPassword", r.NewPassword)
}

// ChangePasswordRequest payload for POST /auth/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (r ChangePasswordRequest) Validate() error {
	if err := validateRequired("oldPassword", r.OldPassword); err != nil {
		return err
	}
	return validateNewPassword("newPassword", r.NewPassword)
}

// UserSummary is the identity returned next to a session token.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        UserSummary `json:"user"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}
