package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spec-kit/transport-site/internal/domain"
)

type settingsRow struct {
	ID          string         `db:"id"`
	SiteName    string         `db:"site_name"`
	Logo        sql.NullString `db:"logo"`
	Email       sql.NullString `db:"email"`
	Phone       sql.NullString `db:"phone"`
	SocialLinks string         `db:"social_links"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r settingsRow) toDomain() (*domain.Settings, error) {
	links, err := decodeSocialLinks([]byte(r.SocialLinks))
	if err != nil {
		return nil, fmt.Errorf("decode social links: %w", err)
	}
	s := &domain.Settings{
		ID:          r.ID,
		SiteName:    r.SiteName,
		SocialLinks: links,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Logo.Valid {
		s.Logo = &r.Logo.String
	}
	if r.Email.Valid {
		s.Email = &r.Email.String
	}
	if r.Phone.Valid {
		s.Phone = &r.Phone.String
	}
	return s, nil
}

type settingsSQLiteRepository struct {
	db *sqlx.DB
}

// NewSettingsSQLiteRepository returns a SQLite-backed implementation.
func NewSettingsSQLiteRepository(db *sqlx.DB) SettingsRepository {
	return &settingsSQLiteRepository{db: db}
}

func (r *settingsSQLiteRepository) Latest(ctx context.Context) (*domain.Settings, error) {
	var row settingsRow
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM settings ORDER BY created_at DESC LIMIT 1"); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return row.toDomain()
}

func (r *settingsSQLiteRepository) Create(ctx context.Context, s *domain.Settings) error {
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
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (id, site_name, logo, email, phone, social_links, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.SiteName, nullString(s.Logo), nullString(s.Email), nullString(s.Phone), string(links), now, now)
	if err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}
	return nil
}

func (r *settingsSQLiteRepository) Update(ctx context.Context, s *domain.Settings) error {
	links, err := encodeSocialLinks(s.SocialLinks)
	if err != nil {
		return err
	}
	s.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`UPDATE settings SET site_name = ?, logo = ?, email = ?, phone = ?, social_links = ?, updated_at = ?
		 WHERE id = ?`,
		s.SiteName, nullString(s.Logo), nullString(s.Email), nullString(s.Phone), string(links), s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return requireRow(res, ErrNotFound)
}
