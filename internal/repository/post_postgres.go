package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/transport-site/internal/domain"
)

const postColumns = `id, title_fr, title_en, title_es, content_fr, content_en, content_es, image, show_in_carousel, status, created_at, updated_at`

type postPostgresRepository struct {
	pool PgxQuerier
}

// NewPostPostgresRepository returns a Postgres-backed implementation.
func NewPostPostgresRepository(pool PgxQuerier) PostRepository {
	return &postPostgresRepository{pool: pool}
}

func (r *postPostgresRepository) Create(ctx context.Context, post *domain.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	const query = `
        INSERT INTO posts (` + postColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.TitleFR,
		post.TitleEN,
		post.TitleES,
		post.ContentFR,
		post.ContentEN,
		post.ContentES,
		post.Image,
		post.ShowInCarousel,
		string(post.Status),
		post.CreatedAt,
		post.UpdatedAt,
	)
	return err
}

func (r *postPostgresRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	post, err := scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return post, err
}

func (r *postPostgresRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.CarouselOnly {
		clauses = append(clauses, "show_in_carousel")
	}

	query := fmt.Sprintf(`SELECT %s FROM posts WHERE %s ORDER BY created_at DESC`,
		postColumns, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (r *postPostgresRepository) Update(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()

	const query = `
        UPDATE posts SET title_fr=$1, title_en=$2, title_es=$3, content_fr=$4, content_en=$5, content_es=$6,
            image=$7, show_in_carousel=$8, status=$9, updated_at=$10
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		post.TitleFR,
		post.TitleEN,
		post.TitleES,
		post.ContentFR,
		post.ContentEN,
		post.ContentES,
		post.Image,
		post.ShowInCarousel,
		string(post.Status),
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postPostgresRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var (
		post   domain.Post
		status string
	)
	if err := row.Scan(
		&post.ID,
		&post.TitleFR,
		&post.TitleEN,
		&post.TitleES,
		&post.ContentFR,
		&post.ContentEN,
		&post.ContentES,
		&post.Image,
		&post.ShowInCarousel,
		&status,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	post.Status = domain.PostStatus(status)
	return &post, nil
}
