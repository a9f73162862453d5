package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"domain error passes through", NewUnauthorized("invalid credentials"), CodeUnauthorized, http.StatusUnauthorized},
		{"wrapped domain error", fmt.Errorf("login: %w", NewInvalidToken("expired")), CodeInvalidToken, http.StatusBadRequest},
		{"no rows becomes not found", sql.ErrNoRows, CodeNotFound, http.StatusNotFound},
		{"fiber bad request", fiber.NewError(http.StatusBadRequest, "invalid payload"), CodeBadRequest, http.StatusBadRequest},
		{"fiber too large", fiber.ErrRequestEntityTooLarge, CodeTooLarge, http.StatusRequestEntityTooLarge},
		{"fiber 5xx", fiber.ErrBadGateway, CodeInternal, http.StatusBadGateway},
		{"unknown error is internal", errors.New("connection reset"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("pq: password authentication failed")
	de := ToDomainError(NewInternalError(cause))

	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(NewConflict("email taken", nil), CodeConflict))
	assert.True(t, HasCode(fmt.Errorf("wrapped: %w", NewNotFound("admin", nil)), CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))
	assert.False(t, HasCode(nil, CodeConflict))
}
