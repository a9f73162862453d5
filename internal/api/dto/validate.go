package dto

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

// Password bounds for newly chosen passwords. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

func fieldError(field, message string) error {
	return apperrors.NewValidationError(message, map[string]any{"field": field})
}

func validateEmail(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fieldError(field, fmt.Sprintf("%s is required", field))
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return fieldError(field, fmt.Sprintf("%s must be a valid email address", field))
	}
	return nil
}

func validateRequired(field, value string) error {
	if value == "" {
		return fieldError(field, fmt.Sprintf("%s is required", field))
	}
	return nil
}

func validateNewPassword(field, value string) error {
	switch {
	case value == "":
		return fieldError(field, fmt.Sprintf("%s is required", field))
	case len(value) < MinPasswordLength:
		return fieldError(field, fmt.Sprintf("%s must be at least %d characters", field, MinPasswordLength))
	case len(value) > MaxPasswordLength:
		return fieldError(field, fmt.Sprintf("%s must be at most %d bytes", field, MaxPasswordLength))
	}
	return nil
}

func validateURL(field, value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fieldError(field, fmt.Sprintf("%s must be an http(s) URL", field))
	}
	return nil
}
