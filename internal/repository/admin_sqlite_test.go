package repository_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/domain"
	"github.com/spec-kit/transport-site/internal/persistence"
	"github.com/spec-kit/transport-site/internal/repository"
)

func newTestDatabase(t *testing.T) *persistence.Database {
	t.Helper()
	ctx := context.Background()
	db, err := persistence.OpenSQLite(ctx, persistence.MemoryDSN)
	require.NoError(t, err)
	database := persistence.NewSQLiteDatabase(db, zap.NewNop())
	require.NoError(t, database.Migrate(ctx))
	t.Cleanup(database.Close)
	return database
}

func createAdmin(t *testing.T, repo repository.AdminRepository, email string) *domain.Admin {
	t.Helper()
	admin := &domain.Admin{Email: email, PasswordHash: "hash-" + email}
	require.NoError(t, repo.Create(context.Background(), admin))
	return admin
}

func TestAdminSQLiteRepository_CreateAndLookup(t *testing.T) {
	repo := newTestDatabase(t).Admins()
	ctx := context.Background()

	admin := createAdmin(t, repo, "admin@example.com")
	require.NotEmpty(t, admin.ID)

	byEmail, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, byEmail.ID)
	assert.Equal(t, "hash-admin@example.com", byEmail.PasswordHash)
	assert.Nil(t, byEmail.ResetToken)
	assert.Nil(t, byEmail.ProfileImageURL)

	byID, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", byID.Email)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Create(ctx, &domain.Admin{Email: "admin@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestAdminSQLiteRepository_ListAndDelete(t *testing.T) {
	repo := newTestDatabase(t).Admins()
	ctx := context.Background()

	first := createAdmin(t, repo, "a@example.com")
	createAdmin(t, repo, "b@example.com")

	admins, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 2)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), repository.ErrNotFound)

	admins, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "b@example.com", admins[0].Email)
}

func TestAdminSQLiteRepository_ResetTokenLifecycle(t *testing.T) {
	repo := newTestDatabase(t).Admins()
	ctx := context.Background()
	admin := createAdmin(t, repo, "admin@example.com")

	now := time.Now().UTC()
	require.NoError(t, repo.SetResetToken(ctx, admin.ID, "first", now.Add(time.Hour)))
	require.NoError(t, repo.SetResetToken(ctx, admin.ID, "second", now.Add(time.Hour)))

	_, err := repo.GetByResetToken(ctx, "first")
	assert.ErrorIs(t, err, repository.ErrNotFound, "a newer token replaces the old one")

	found, err := repo.GetByResetToken(ctx, "second")
	require.NoError(t, err)
	require.True(t, found.HasPendingReset())
	assert.WithinDuration(t, now.Add(time.Hour), *found.ResetTokenExpiresAt, time.Second)

	assert.ErrorIs(t, repo.CompletePasswordReset(ctx, admin.ID, "first", now, "new-hash"), repository.ErrResetTokenMismatch)
	require.NoError(t, repo.CompletePasswordReset(ctx, admin.ID, "second", now, "new-hash"))
	assert.ErrorIs(t, repo.CompletePasswordReset(ctx, admin.ID, "second", now, "other-hash"), repository.ErrResetTokenMismatch)

	updated, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.PasswordHash)
	assert.Nil(t, updated.ResetToken)
	assert.Nil(t, updated.ResetTokenExpiresAt)
}

func TestAdminSQLiteRepository_CompleteRejectsExpired(t *testing.T) {
	repo := newTestDatabase(t).Admins()
	ctx := context.Background()
	admin := createAdmin(t, repo, "admin@example.com")

	now := time.Now().UTC()
	require.NoError(t, repo.SetResetToken(ctx, admin.ID, "tok", now.Add(-time.Minute)))
	assert.ErrorIs(t, repo.CompletePasswordReset(ctx, admin.ID, "tok", now, "new-hash"), repository.ErrResetTokenMismatch)

	require.NoError(t, repo.ClearResetToken(ctx, admin.ID, "tok"))
	assert.ErrorIs(t, repo.ClearResetToken(ctx, admin.ID, "tok"), repository.ErrResetTokenMismatch)
}

func TestAdminSQLiteRepository_ConcurrentResetIsSingleUse(t *testing.T) {
	repo := newTestDatabase(t).Admins()
	ctx := context.Background()
	admin := createAdmin(t, repo, "admin@example.com")
	now := time.Now().UTC()
	require.NoError(t, repo.SetResetToken(ctx, admin.ID, "tok", now.Add(time.Hour)))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.CompletePasswordReset(ctx, admin.ID, "tok", now, "hash") == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestAdminSQLiteRepository_ProfileImageAndPassword(t *testing.T) {
	repo := newTestDatabase(t).Admins()
	ctx := context.Background()
	admin := createAdmin(t, repo, "admin@example.com")

	url := "/uploads/profile-1.png"
	require.NoError(t, repo.UpdateProfileImage(ctx, admin.ID, &url))
	require.NoError(t, repo.UpdatePassword(ctx, admin.ID, "rotated"))

	got, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ProfileImageURL)
	assert.Equal(t, url, *got.ProfileImageURL)
	assert.Equal(t, "rotated", got.PasswordHash)

	require.NoError(t, repo.UpdateProfileImage(ctx, admin.ID, nil))
	got, err = repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProfileImageURL)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, "missing", "x"), repository.ErrNotFound)
}

func TestSettingsSQLiteRepository(t *testing.T) {
	repo := newTestDatabase(t).Settings()
	ctx := context.Background()

	_, err := repo.Latest(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)

	s := domain.DefaultSettings()
	require.NoError(t, repo.Create(ctx, &s))

	phone := "+62 21 555 0100"
	s.Phone = &phone
	s.SocialLinks = map[string]string{"instagram": "https://instagram.com/dayang"}
	require.NoError(t, repo.Update(ctx, &s))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSiteName, got.SiteName)
	require.NotNil(t, got.Phone)
	assert.Equal(t, phone, *got.Phone)
	assert.Nil(t, got.Logo)
	assert.Equal(t, "https://instagram.com/dayang", got.SocialLinks["instagram"])
}
