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

type pageRow struct {
	ID        string         `db:"id"`
	Slug      string         `db:"slug"`
	ContentFR sql.NullString `db:"content_fr"`
	ContentEN sql.NullString `db:"content_en"`
	ContentES sql.NullString `db:"content_es"`
	Image     sql.NullString `db:"image"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r pageRow) toDomain() domain.Page {
	return domain.Page{
		ID:        r.ID,
		Slug:      domain.PageSlug(r.Slug),
		ContentFR: fromNullString(r.ContentFR),
		ContentEN: fromNullString(r.ContentEN),
		ContentES: fromNullString(r.ContentES),
		Image:     fromNullString(r.Image),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type pageSQLiteRepository struct {
	db *sqlx.DB
}

// NewPageSQLiteRepository returns a SQLite-backed implementation.
func NewPageSQLiteRepository(db *sqlx.DB) PageRepository {
	return &pageSQLiteRepository{db: db}
}

func (r *pageSQLiteRepository) Create(ctx context.Context, page *domain.Page) error {
	if page.ID == "" {
		page.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	page.CreatedAt = now
	page.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pages (id, slug, content_fr, content_en, content_es, image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		page.ID, string(page.Slug), nullString(page.ContentFR), nullString(page.ContentEN), nullString(page.ContentES),
		nullString(page.Image), now, now)
	if isSQLiteUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if err != nil {
		return fmt.Errorf("insert page: %w", err)
	}
	return nil
}

func (r *pageSQLiteRepository) GetBySlug(ctx context.Context, slug domain.PageSlug) (*domain.Page, error) {
	var row pageRow
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM pages WHERE slug = ?", string(slug)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get page: %w", err)
	}
	page := row.toDomain()
	return &page, nil
}

func (r *pageSQLiteRepository) List(ctx context.Context) ([]domain.Page, error) {
	var rows []pageRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM pages ORDER BY slug ASC"); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	pages := make([]domain.Page, len(rows))
	for i, row := range rows {
		pages[i] = row.toDomain()
	}
	return pages, nil
}

func (r *pageSQLiteRepository) Update(ctx context.Context, page *domain.Page) error {
	page.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE pages SET content_fr = ?, content_en = ?, content_es = ?, image = ?, updated_at = ?
		 WHERE slug = ?`,
		nullString(page.ContentFR), nullString(page.ContentEN), nullString(page.ContentES), nullString(page.Image),
		page.UpdatedAt, string(page.Slug))
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	return requireRow(res, ErrNotFound)
}

func (r *pageSQLiteRepository) Delete(ctx context.Context, slug domain.PageSlug) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM pages WHERE slug = ?", string(slug))
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return requireRow(res, ErrNotFound)
}

func fromNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
