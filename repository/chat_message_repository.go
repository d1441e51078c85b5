package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lottohouse/database"
	"lottohouse/domain/entities"
)

const chatMessageColumns = `id, user_id, content, is_admin, created_at`

// ChatMessageRepository implements lobby chat data access
type ChatMessageRepository struct {
	q Queryable
}

// NewChatMessageRepository creates a new chat message repository over the pool
func NewChatMessageRepository(db *database.DB) *ChatMessageRepository {
	return &ChatMessageRepository{q: db.Pool}
}

// newChatMessageRepositoryWithTx creates a chat message repository bound to a transaction
func newChatMessageRepositoryWithTx(tx Queryable) *ChatMessageRepository {
	return &ChatMessageRepository{q: tx}
}

func scanChatMessage(row pgx.Row) (*entities.ChatMessage, error) {
	var msg entities.ChatMessage
	err := row.Scan(
		&msg.ID,
		&msg.UserID,
		&msg.Content,
		&msg.IsAdmin,
		&msg.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Create inserts a chat message
func (r *ChatMessageRepository) Create(ctx context.Context, msg *entities.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (user_id, content, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, msg.UserID, msg.Content, msg.IsAdmin).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}

	return nil
}

// ListRecent retrieves the most recent messages, oldest first
func (r *ChatMessageRepository) ListRecent(ctx context.Context, limit int) ([]*entities.ChatMessage, error) {
	query := `
		SELECT ` + chatMessageColumns + ` FROM (
			SELECT ` + chatMessageColumns + `
			FROM chat_messages
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		) recent
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []*entities.ChatMessage
	for rows.Next() {
		msg, err := scanChatMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat messages: %w", err)
	}

	return msgs, nil
}
