package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

func strPtr(s string) *string { return &s }

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Equal(t, field, de.Details["field"])
}

func TestLoginRequestValidate(t *testing.T) {
	require.NoError(t, LoginRequest{Email: "admin@example.com", Password: "x"}.Validate())
	requireFieldError(t, LoginRequest{Email: "not-an-email", Password: "x"}.Validate(), "email")
	requireFieldError(t, LoginRequest{Email: "Admin <admin@example.com>", Password: "x"}.Validate(), "email")
	requireFieldError(t, LoginRequest{Email: "admin@example.com"}.Validate(), "password")
}

func TestResetPasswordRequestValidate(t *testing.T) {
	require.NoError(t, ResetPasswordRequest{Token: "abc", NewPassword: "secret1"}.Validate())
	requireFieldError(t, ResetPasswordRequest{NewPassword: "secret1"}.Validate(), "token")
	requireFieldError(t, ResetPasswordRequest{Token: "abc", NewPassword: "short"}.Validate(), "newPassword")
	requireFieldError(t, ResetPasswordRequest{Token: "abc", NewPassword: strings.Repeat("a", 73)}.Validate(), "newPassword")
}

func TestChangePasswordRequestValidate(t *testing.T) {
	require.NoError(t, ChangePasswordRequest{OldPassword: "a", NewPassword: "abcdef"}.Validate())
	requireFieldError(t, ChangePasswordRequest{NewPassword: "abcdef"}.Validate(), "oldPassword")
	requireFieldError(t, ChangePasswordRequest{OldPassword: "a", NewPassword: "abc"}.Validate(), "newPassword")
}

func TestCreateAdminRequestValidate(t *testing.T) {
	require.NoError(t, CreateAdminRequest{Email: "ops@example.com", Password: "abcdef"}.Validate())
	requireFieldError(t, CreateAdminRequest{Email: "ops@example.com", Password: "abc"}.Validate(), "password")
	requireFieldError(t, CreateAdminRequest{Password: "abcdef"}.Validate(), "email")
}

func TestUpdateSettingsRequestValidate(t *testing.T) {
	ok := UpdateSettingsRequest{
		SiteName:    strPtr("Dayang Transport"),
		Logo:        strPtr("https://cdn.example.com/logo.png"),
		Email:       strPtr(""),
		SocialLinks: map[string]string{"facebook": "https://facebook.com/dayang", "x": ""},
	}
	require.NoError(t, ok.Validate())

	requireFieldError(t, UpdateSettingsRequest{SiteName: strPtr("  ")}.Validate(), "site_name")
	requireFieldError(t, UpdateSettingsRequest{Logo: strPtr("logo.png")}.Validate(), "logo")
	requireFieldError(t, UpdateSettingsRequest{Email: strPtr("nope")}.Validate(), "email")
	requireFieldError(t, UpdateSettingsRequest{SocialLinks: map[string]string{"ig": "ftp://x"}}.Validate(), "social_links.ig")

	patch := ok.Patch()
	assert.Equal(t, []string{"site_name", "logo", "email", "social_links"}, patch.Fields())
}

func validPost() CreatePostRequest {
	return CreatePostRequest{
		TitleFR:   "Nouvelle ligne",
		TitleEN:   "New route",
		TitleES:   "Nueva ruta",
		ContentFR: "contenu",
		ContentEN: "content",
		ContentES: "contenido",
	}
}

func TestCreatePostRequestValidate(t *testing.T) {
	require.NoError(t, validPost().Validate())

	missing := validPost()
	missing.ContentES = "  "
	requireFieldError(t, missing.Validate(), "content_es")

	badImage := validPost()
	badImage.Image = strPtr("/uploads/a.png")
	requireFieldError(t, badImage.Validate(), "image")

	badStatus := validPost()
	badStatus.Status = "archived"
	requireFieldError(t, badStatus.Validate(), "status")

	post := validPost().Post()
	assert.Equal(t, "", string(post.Status), "the service applies the draft default")
	assert.Nil(t, post.Image)
}

func TestUpdatePostRequestValidate(t *testing.T) {
	require.NoError(t, UpdatePostRequest{Image: strPtr(""), Status: strPtr("published")}.Validate())
	requireFieldError(t, UpdatePostRequest{TitleEN: strPtr("")}.Validate(), "title_en")
	requireFieldError(t, UpdatePostRequest{Status: strPtr("hidden")}.Validate(), "status")

	patch := UpdatePostRequest{Status: strPtr("published")}.Patch()
	require.NotNil(t, patch.Status)
	assert.Equal(t, "published", string(*patch.Status))
}

func TestParsePostStatus(t *testing.T) {
	status, err := ParsePostStatus("")
	require.NoError(t, err)
	assert.Nil(t, status)

	status, err = ParsePostStatus("draft")
	require.NoError(t, err)
	assert.Equal(t, "draft", string(*status))

	_, err = ParsePostStatus("deleted")
	requireFieldError(t, err, "status")
}

func TestPageRequestsValidate(t *testing.T) {
	require.NoError(t, UpdatePageRequest{ContentFR: strPtr("Bienvenue"), Image: strPtr("https://cdn.example.com/home.jpg")}.Validate())
	requireFieldError(t, UpdatePageRequest{Image: strPtr("home.jpg")}.Validate(), "image")
	requireFieldError(t, CreatePageRequest{}.Validate(), "slug")
	require.NoError(t, CreatePageRequest{Slug: "about"}.Validate())
}

func TestCreateMessageRequestValidate(t *testing.T) {
	require.NoError(t, CreateMessageRequest{Name: "Ana", Email: "ana@example.com", Message: "Hello"}.Validate())
	requireFieldError(t, CreateMessageRequest{Email: "ana@example.com", Message: "Hello"}.Validate(), "name")
	requireFieldError(t, CreateMessageRequest{Name: "Ana", Email: "ana", Message: "Hello"}.Validate(), "email")
	requireFieldError(t, CreateMessageRequest{Name: "Ana", Email: "ana@example.com", Message: " "}.Validate(), "message")
}
