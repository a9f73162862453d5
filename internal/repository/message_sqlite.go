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

type messageRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Message   string    `db:"message"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r messageRow) toDomain() domain.ContactMessage {
	return domain.ContactMessage{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Body:      r.Message,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type messageSQLiteRepository struct {
	db *sqlx.DB
}

// NewMessageSQLiteRepository returns a SQLite-backed implementation.
func NewMessageSQLiteRepository(db *sqlx.DB) MessageRepository {
	return &messageSQLiteRepository{db: db}
}

func (r *messageSQLiteRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, name, email, message, is_read, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Name, msg.Email, msg.Body, msg.IsRead, now, now)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *messageSQLiteRepository) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	var row messageRow
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM messages WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	msg := row.toDomain()
	return &msg, nil
}

func (r *messageSQLiteRepository) List(ctx context.Context) ([]domain.ContactMessage, error) {
	var rows []messageRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM messages ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	messages := make([]domain.ContactMessage, len(rows))
	for i, row := range rows {
		messages[i] = row.toDomain()
	}
	return messages, nil
}

func (r *messageSQLiteRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE messages SET is_read = 1, updated_at = ? WHERE id = ?", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return requireRow(res, ErrNotFound)
}
