package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/transport-site/internal/domain"
)

const messageColumns = `id, name, email, message, is_read, created_at, updated_at`

type messagePostgresRepository struct {
	pool PgxQuerier
}

// NewMessagePostgresRepository returns a Postgres-backed implementation.
func NewMessagePostgresRepository(pool PgxQuerier) MessageRepository {
	return &messagePostgresRepository{pool: pool}
}

func (r *messagePostgresRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	const query = `
        INSERT INTO messages (` + messageColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.Name,
		msg.Email,
		msg.Body,
		msg.IsRead,
		msg.CreatedAt,
		msg.UpdatedAt,
	)
	return err
}

func (r *messagePostgresRepository) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	msg, err := scanMessage(r.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return msg, err
}

func (r *messagePostgresRepository) List(ctx context.Context) ([]domain.ContactMessage, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.ContactMessage{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func (r *messagePostgresRepository) MarkRead(ctx context.Context, id string) error {
	const query = `
        UPDATE messages SET is_read=TRUE, updated_at=$1
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMessage(row pgx.Row) (*domain.ContactMessage, error) {
	var msg domain.ContactMessage
	if err := row.Scan(
		&msg.ID,
		&msg.Name,
		&msg.Email,
		&msg.Body,
		&msg.IsRead,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}
