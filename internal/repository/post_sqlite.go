package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spec-kit/transport-site/internal/domain"
)

type postRow struct {
	ID             string         `db:"id"`
	TitleFR        string         `db:"title_fr"`
	TitleEN        string         `db:"title_en"`
	TitleES        string         `db:"title_es"`
	ContentFR      string         `db:"content_fr"`
	ContentEN      string         `db:"content_en"`
	ContentES      string         `db:"content_es"`
	Image          sql.NullString `db:"image"`
	ShowInCarousel bool           `db:"show_in_carousel"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r postRow) toDomain() domain.Post {
	post := domain.Post{
		ID:             r.ID,
		TitleFR:        r.TitleFR,
		TitleEN:        r.TitleEN,
		TitleES:        r.TitleES,
		ContentFR:      r.ContentFR,
		ContentEN:      r.ContentEN,
		ContentES:      r.ContentES,
		ShowInCarousel: r.ShowInCarousel,
		Status:         domain.PostStatus(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Image.Valid {
		image := r.Image.String
		post.Image = &image
	}
	return post
}

type postSQLiteRepository struct {
	db *sqlx.DB
}

// NewPostSQLiteRepository returns a SQLite-backed implementation.
func NewPostSQLiteRepository(db *sqlx.DB) PostRepository {
	return &postSQLiteRepository{db: db}
}

func (r *postSQLiteRepository) Create(ctx context.Context, post *domain.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, title_fr, title_en, title_es, content_fr, content_en, content_es, image, show_in_carousel, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.TitleFR, post.TitleEN, post.TitleES, post.ContentFR, post.ContentEN, post.ContentES,
		nullString(post.Image), post.ShowInCarousel, string(post.Status), now, now)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postSQLiteRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	var row postRow
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM posts WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	post := row.toDomain()
	return &post, nil
}

func (r *postSQLiteRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Status != nil {
		clauses = append(clauses, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.CarouselOnly {
		clauses = append(clauses, "show_in_carousel = 1")
	}

	var rows []postRow
	query := "SELECT * FROM posts WHERE " + strings.Join(clauses, " AND ") + " ORDER BY created_at DESC"
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts := make([]domain.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toDomain()
	}
	return posts, nil
}

func (r *postSQLiteRepository) Update(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title_fr = ?, title_en = ?, title_es = ?, content_fr = ?, content_en = ?, content_es = ?,
		    image = ?, show_in_carousel = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		post.TitleFR, post.TitleEN, post.TitleES, post.ContentFR, post.ContentEN, post.ContentES,
		nullString(post.Image), post.ShowInCarousel, string(post.Status), post.UpdatedAt, post.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return requireRow(res, ErrNotFound)
}

func (r *postSQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireRow(res, ErrNotFound)
}
