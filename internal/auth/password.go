package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// bcrypt ignores everything past 72 bytes; longer inputs are rejected instead.
const maxPasswordBytes = 72

var (
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrPasswordTooLong = fmt.Errorf("password exceeds %d bytes", maxPasswordBytes)
)

// PasswordHasher hashes and verifies stored credentials.
type PasswordHasher interface {
	// Hash returns a salted one-way hash of password.
	Hash(ctx context.Context, password string) (string, error)
	// Verify reports whether password matches hashed. Malformed hashes yield false.
	Verify(ctx context.Context, password, hashed string) bool
	// DummyHash returns a valid hash that matches no real password.
	DummyHash() string
}

// BcryptHasher implements PasswordHasher with bcrypt. At most `concurrency`
// hash computations run at once; callers beyond that wait on ctx.
type BcryptHasher struct {
	cost  int
	sem   *semaphore.Weighted
	dummy string
}

// NewBcryptHasher builds a hasher with the given cost and concurrency bound.
func NewBcryptHasher(cost, concurrency int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d,%d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	seed := make([]byte, 16)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("seed dummy hash: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(seed)), cost)
	if err != nil {
		return nil, fmt.Errorf("build dummy hash: %w", err)
	}

	return &BcryptHasher{
		cost:  cost,
		sem:   semaphore.NewWeighted(int64(concurrency)),
		dummy: string(dummy),
	}, nil
}

// Hash hashes a plaintext password with the configured cost.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify compares password against hashed; bcrypt compares in constant time.
func (h *BcryptHasher) Verify(ctx context.Context, password, hashed string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// DummyHash returns the precomputed hash used to keep unknown-account logins as slow as real ones.
func (h *BcryptHasher) DummyHash() string {
	return h.dummy
}
