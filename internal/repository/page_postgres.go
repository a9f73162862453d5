package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/transport-site/internal/domain"
)

const pageColumns = `id, slug, content_fr, content_en, content_es, image, created_at, updated_at`

type pagePostgresRepository struct {
	pool PgxQuerier
}

// NewPagePostgresRepository returns a Postgres-backed implementation.
func NewPagePostgresRepository(pool PgxQuerier) PageRepository {
	return &pagePostgresRepository{pool: pool}
}

func (r *pagePostgresRepository) Create(ctx context.Context, page *domain.Page) error {
	if page.ID == "" {
		page.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	page.CreatedAt = now
	page.UpdatedAt = now

	const query = `
        INSERT INTO pages (` + pageColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.pool.Exec(ctx, query,
		page.ID,
		string(page.Slug),
		page.ContentFR,
		page.ContentEN,
		page.ContentES,
		page.Image,
		page.CreatedAt,
		page.UpdatedAt,
	)
	if isPgUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *pagePostgresRepository) GetBySlug(ctx context.Context, slug domain.PageSlug) (*domain.Page, error) {
	page, err := scanPage(r.pool.QueryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug=$1`, string(slug)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return page, err
}

func (r *pagePostgresRepository) List(ctx context.Context) ([]domain.Page, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY slug ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []domain.Page{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *page)
	}
	return pages, rows.Err()
}

func (r *pagePostgresRepository) Update(ctx context.Context, page *domain.Page) error {
	page.UpdatedAt = time.Now().UTC()

	const query = `
        UPDATE pages SET content_fr=$1, content_en=$2, content_es=$3, image=$4, updated_at=$5
        WHERE slug=$6`
	cmd, err := r.pool.Exec(ctx, query,
		page.ContentFR, page.ContentEN, page.ContentES, page.Image, page.UpdatedAt, string(page.Slug))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pagePostgresRepository) Delete(ctx context.Context, slug domain.PageSlug) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM pages WHERE slug=$1`, string(slug))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPage(row pgx.Row) (*domain.Page, error) {
	var (
		page domain.Page
		slug string
	)
	if err := row.Scan(
		&page.ID,
		&slug,
		&page.ContentFR,
		&page.ContentEN,
		&page.ContentES,
		&page.Image,
		&page.CreatedAt,
		&page.UpdatedAt,
	); err != nil {
		return nil, err
	}
	page.Slug = domain.PageSlug(slug)
	return &page, nil
}
