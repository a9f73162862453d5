package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/transport-site/internal/domain"
)

// PgxQuerier is the subset of *pgxpool.Pool used by the Postgres repositories.
type PgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const adminColumns = `id, email, password_hash, reset_token, reset_token_expires_at, profile_image_url, created_at, updated_at`

type adminPostgresRepository struct {
	pool PgxQuerier
}

// NewAdminPostgresRepository returns a Postgres-backed implementation.
func NewAdminPostgresRepository(pool PgxQuerier) AdminRepository {
	return &adminPostgresRepository{pool: pool}
}

func (r *adminPostgresRepository) Create(ctx context.Context, admin *domain.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	const query = `
        INSERT INTO admins (id, email, password_hash, profile_image_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.ProfileImageURL,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if isPgUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *adminPostgresRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.getOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE id=$1`, id)
}

func (r *adminPostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.getOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE email=$1`, email)
}

func (r *adminPostgresRepository) GetByResetToken(ctx context.Context, token string) (*domain.Admin, error) {
	return r.getOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE reset_token=$1`, token)
}

func (r *adminPostgresRepository) List(ctx context.Context) ([]domain.Admin, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []domain.Admin
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, *admin)
	}
	return admins, rows.Err()
}

func (r *adminPostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM admins WHERE id=$1`, id)
}

func (r *adminPostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE admins SET password_hash=$1, updated_at=$2
        WHERE id=$3`
	return r.execOne(ctx, query, passwordHash, time.Now().UTC(), id)
}

func (r *adminPostgresRepository) UpdateProfileImage(ctx context.Context, id string, url *string) error {
	const query = `
        UPDATE admins SET profile_image_url=$1, updated_at=$2
        WHERE id=$3`
	return r.execOne(ctx, query, url, time.Now().UTC(), id)
}

func (r *adminPostgresRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	const query = `
        UPDATE admins SET reset_token=$1, reset_token_expires_at=$2, updated_at=$3
        WHERE id=$4`
	return r.execOne(ctx, query, token, expiresAt.UTC(), time.Now().UTC(), id)
}

func (r *adminPostgresRepository) ClearResetToken(ctx context.Context, id, token string) error {
	const query = `
        UPDATE admins SET reset_token=NULL, reset_token_expires_at=NULL, updated_at=$1
        WHERE id=$2 AND reset_token=$3`
	cmd, err := r.pool.Exec(ctx, query, time.Now().UTC(), id, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrResetTokenMismatch
	}
	return nil
}

func (r *adminPostgresRepository) CompletePasswordReset(ctx context.Context, id, token string, now time.Time, passwordHash string) error {
	const query = `
        UPDATE admins
        SET password_hash=$1, reset_token=NULL, reset_token_expires_at=NULL, updated_at=$2
        WHERE id=$3 AND reset_token=$4 AND reset_token_expires_at > $5`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, time.Now().UTC(), id, token, now.UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrResetTokenMismatch
	}
	return nil
}

func (r *adminPostgresRepository) getOne(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	admin, err := scanAdmin(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return admin, err
}

func (r *adminPostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var admin domain.Admin
	if err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.ResetToken,
		&admin.ResetTokenExpiresAt,
		&admin.ProfileImageURL,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
