package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/spec-kit/transport-site/internal/domain"
)

// adminRow maps 1:1 to the admins table columns.
type adminRow struct {
	ID                  string         `db:"id"`
	Email               string         `db:"email"`
	PasswordHash        string         `db:"password_hash"`
	ResetToken          sql.NullString `db:"reset_token"`
	ResetTokenExpiresAt sql.NullTime   `db:"reset_token_expires_at"`
	ProfileImageURL     sql.NullString `db:"profile_image_url"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (r adminRow) toDomain() domain.Admin {
	admin := domain.Admin{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.ResetToken.Valid {
		token := r.ResetToken.String
		admin.ResetToken = &token
	}
	if r.ResetTokenExpiresAt.Valid {
		expires := r.ResetTokenExpiresAt.Time.UTC()
		admin.ResetTokenExpiresAt = &expires
	}
	if r.ProfileImageURL.Valid {
		url := r.ProfileImageURL.String
		admin.ProfileImageURL = &url
	}
	return admin
}

type adminSQLiteRepository struct {
	db *sqlx.DB
}

// NewAdminSQLiteRepository returns a SQLite-backed implementation.
func NewAdminSQLiteRepository(db *sqlx.DB) AdminRepository {
	return &adminSQLiteRepository{db: db}
}

func (r *adminSQLiteRepository) Create(ctx context.Context, admin *domain.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	const q = `INSERT INTO admins (id, email, password_hash, profile_image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, admin.ID, admin.Email, admin.PasswordHash, nullString(admin.ProfileImageURL), now, now)
	if isSQLiteUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (r *adminSQLiteRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.getOne(ctx, "SELECT * FROM admins WHERE id = ?", id)
}

func (r *adminSQLiteRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.getOne(ctx, "SELECT * FROM admins WHERE email = ?", email)
}

func (r *adminSQLiteRepository) GetByResetToken(ctx context.Context, token string) (*domain.Admin, error) {
	return r.getOne(ctx, "SELECT * FROM admins WHERE reset_token = ?", token)
}

func (r *adminSQLiteRepository) List(ctx context.Context) ([]domain.Admin, error) {
	var rows []adminRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM admins ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	admins := make([]domain.Admin, len(rows))
	for i, row := range rows {
		admins[i] = row.toDomain()
	}
	return admins, nil
}

func (r *adminSQLiteRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "DELETE FROM admins WHERE id = ?", id)
}

func (r *adminSQLiteRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.execOne(ctx, "UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, time.Now().UTC(), id)
}

func (r *adminSQLiteRepository) UpdateProfileImage(ctx context.Context, id string, url *string) error {
	return r.execOne(ctx, "UPDATE admins SET profile_image_url = ?, updated_at = ? WHERE id = ?",
		nullString(url), time.Now().UTC(), id)
}

func (r *adminSQLiteRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	return r.execOne(ctx,
		"UPDATE admins SET reset_token = ?, reset_token_expires_at = ?, updated_at = ? WHERE id = ?",
		token, expiresAt.UTC(), time.Now().UTC(), id)
}

func (r *adminSQLiteRepository) ClearResetToken(ctx context.Context, id, token string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE admins SET reset_token = NULL, reset_token_expires_at = NULL, updated_at = ? WHERE id = ? AND reset_token = ?",
		time.Now().UTC(), id, token)
	if err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}
	return requireRow(res, ErrResetTokenMismatch)
}

// CompletePasswordReset checks expiry in Go because SQLite stores timestamps
// as text; the token match in the UPDATE keeps the operation single-use.
func (r *adminSQLiteRepository) CompletePasswordReset(ctx context.Context, id, token string, now time.Time, passwordHash string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var expires sql.NullTime
	err = tx.GetContext(ctx, &expires,
		"SELECT reset_token_expires_at FROM admins WHERE id = ? AND reset_token = ?", id, token)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrResetTokenMismatch
	}
	if err != nil {
		return fmt.Errorf("load reset token: %w", err)
	}
	if !expires.Valid || !expires.Time.After(now) {
		return ErrResetTokenMismatch
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE admins SET password_hash = ?, reset_token = NULL, reset_token_expires_at = NULL, updated_at = ?
		 WHERE id = ? AND reset_token = ?`,
		passwordHash, time.Now().UTC(), id, token)
	if err != nil {
		return fmt.Errorf("complete reset: %w", err)
	}
	if err := requireRow(res, ErrResetTokenMismatch); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *adminSQLiteRepository) getOne(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	var row adminRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	admin := row.toDomain()
	return &admin, nil
}

func (r *adminSQLiteRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	return requireRow(res, ErrNotFound)
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
