package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/transport-site/internal/domain"
)

type settingsPostgresRepository struct {
	pool PgxQuerier
}

// NewSettingsPostgresRepository returns a Postgres-backed implementation.
func NewSettingsPostgresRepository(pool PgxQuerier) SettingsRepository {
	return &settingsPostgresRepository{pool: pool}
}

func (r *settingsPostgresRepository) Latest(ctx context.Context) (*domain.Settings, error) {
	const query = `
        SELECT id, site_name, logo, email, phone, social_links, created_at, updated_at
        FROM settings ORDER BY created_at DESC LIMIT 1`

	var (
		s     domain.Settings
		links []byte
	)
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.ID, &s.SiteName, &s.Logo, &s.Email, &s.Phone, &links, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.SocialLinks, err = decodeSocialLinks(links); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsPostgresRepository) Create(ctx context.Context, s *domain.Settings) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	links, err := encodeSocialLinks(s.SocialLinks)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO settings (id, site_name, logo, email, phone, social_links, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.pool.Exec(ctx, query, s.ID, s.SiteName, s.Logo, s.Email, s.Phone, links, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *settingsPostgresRepository) Update(ctx context.Context, s *domain.Settings) error {
	links, err := encodeSocialLinks(s.SocialLinks)
	if err != nil {
		return err
	}
	s.UpdatedAt = time.Now().UTC()

	const query = `
        UPDATE settings SET site_name=$1, logo=$2, email=$3, phone=$4, social_links=$5, updated_at=$6
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query, s.SiteName, s.Logo, s.Email, s.Phone, links, s.UpdatedAt, s.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
