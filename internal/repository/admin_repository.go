package repository

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/transport-site/internal/domain"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = domain.ErrNotFound
	// ErrDuplicateEmail is returned when an admin with the same email exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrResetTokenMismatch is returned when a conditional reset update matched no row.
	ErrResetTokenMismatch = domain.ErrResetTokenMismatch
)

// AdminRepository persists administrator credentials.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	GetByResetToken(ctx context.Context, token string) (*domain.Admin, error)
	List(ctx context.Context) ([]domain.Admin, error)
	Delete(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfileImage(ctx context.Context, id string, url *string) error

	// SetResetToken stores token and expiry together, replacing any previous token.
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	// ClearResetToken clears the reset fields if token is still the stored one.
	ClearResetToken(ctx context.Context, id, token string) error
	// CompletePasswordReset replaces the hash and clears the reset fields in one
	// statement, only while token is still stored and unexpired at now.
	// It returns ErrResetTokenMismatch when no row qualified.
	CompletePasswordReset(ctx context.Context, id, token string, now time.Time, passwordHash string) error
}
