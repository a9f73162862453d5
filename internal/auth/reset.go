package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spec-kit/transport-site/internal/domain"
	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

const (
	resetTokenBytes = 32

	MsgInvalidResetToken = "invalid or expired reset token"
	MsgExpiredResetToken = "reset token has expired"
)

// ResetTokenStore is the part of the admin repository the issuer writes to.
type ResetTokenStore interface {
	GetByResetToken(ctx context.Context, token string) (*domain.Admin, error)
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id, token string) error
}

// ResetTokenIssuer creates and validates single-use password reset tokens.
// It never delivers or logs the tokens it creates.
type ResetTokenIssuer struct {
	store  ResetTokenStore
	clock  Clock
	random io.Reader
	ttl    time.Duration
}

// NewResetTokenIssuer builds an issuer. A nil clock or random source falls back
// to the system clock and crypto/rand.
func NewResetTokenIssuer(store ResetTokenStore, clock Clock, random io.Reader, ttl time.Duration) *ResetTokenIssuer {
	if clock == nil {
		clock = SystemClock
	}
	if random == nil {
		random = rand.Reader
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResetTokenIssuer{store: store, clock: clock, random: random, ttl: ttl}
}

// Issue stores a fresh token on admin, replacing any outstanding one, and returns it.
func (i *ResetTokenIssuer) Issue(ctx context.Context, admin *domain.Admin) (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := io.ReadFull(i.random, buf); err != nil {
		return "", apperrors.NewInternalError(fmt.Errorf("generate reset token: %w", err))
	}
	token := hex.EncodeToString(buf)
	expiresAt := i.clock.Now().Add(i.ttl)

	if err := i.store.SetResetToken(ctx, admin.ID, token, expiresAt); err != nil {
		return "", apperrors.NewInternalError(fmt.Errorf("store reset token: %w", err))
	}
	admin.ResetToken = &token
	admin.ResetTokenExpiresAt = &expiresAt
	return token, nil
}

// Consume resolves token to its admin. Unknown tokens fail with InvalidToken;
// expired ones are cleared and fail the same way.
func (i *ResetTokenIssuer) Consume(ctx context.Context, token string) (*domain.Admin, error) {
	if token == "" {
		return nil, apperrors.NewInvalidToken(MsgInvalidResetToken)
	}

	admin, err := i.store.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NewInvalidToken(MsgInvalidResetToken)
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("lookup reset token: %w", err))
	}

	if i.Expired(admin) {
		err := i.store.ClearResetToken(ctx, admin.ID, token)
		if err != nil && !errors.Is(err, domain.ErrResetTokenMismatch) {
			return nil, apperrors.NewInternalError(fmt.Errorf("clear expired reset token: %w", err))
		}
		return nil, apperrors.NewInvalidToken(MsgExpiredResetToken)
	}
	return admin, nil
}

// Expired reports whether admin has no usable reset token at the current time.
func (i *ResetTokenIssuer) Expired(admin *domain.Admin) bool {
	if !admin.HasPendingReset() {
		return true
	}
	return !i.clock.Now().Before(*admin.ResetTokenExpiresAt)
}

// Now exposes the issuer clock so reset completion uses the same time source.
func (i *ResetTokenIssuer) Now() time.Time {
	return i.clock.Now()
}
