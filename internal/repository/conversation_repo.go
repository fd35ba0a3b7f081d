package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spur-chat/internal/domain"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation domain.Conversation) error
	GetByID(ctx context.Context, id string) (domain.Conversation, error)
}

// ErrConversationNotFound señala que el session id no resuelve a una conversación.
var ErrConversationNotFound = errors.New("conversation not found")

type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

func (r *PgConversationRepository) Create(ctx context.Context, conversation domain.Conversation) error {
	const query = `
		INSERT INTO conversations (id, created_at)
		VALUES ($1, $2)
	`
	_, err := r.pool.Exec(ctx, query,
		conversation.ID,
		conversation.CreatedAt,
	)
	return err
}

func (r *PgConversationRepository) GetByID(ctx context.Context, id string) (domain.Conversation, error) {
	const query = `
		SELECT id, created_at
		FROM conversations
		WHERE id = $1
	`
	var conversation domain.Conversation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&conversation.ID,
		&conversation.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Conversation{}, ErrConversationNotFound
	}
	return conversation, err
}
