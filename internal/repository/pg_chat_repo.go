package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftyourstyle/backend/internal/domain"
)

type pgChatRepository struct {
	pool *pgxpool.Pool
}

// NewPgChatRepository returns a ChatRepository backed by PostgreSQL.
func NewPgChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &pgChatRepository{pool: pool}
}

func (r *pgChatRepository) CreateSession(ctx context.Context, s *domain.ChatSession) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_sessions (id, user_id, status, started_at, ended_at)
		VALUES ($1,$2,$3,$4,$5)`,
		s.ID, s.UserID, s.Status, s.StartedAt, s.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat session: %w", err)
	}
	return nil
}

func (r *pgChatRepository) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, status, started_at, ended_at
		FROM chat_sessions WHERE id = $1`, id)

	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return s, err
}

func (r *pgChatRepository) ActiveSessionByUser(ctx context.Context, userID string) (*domain.ChatSession, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, status, started_at, ended_at
		FROM chat_sessions
		WHERE user_id = $1 AND status = $2
		ORDER BY started_at DESC
		LIMIT 1`, userID, domain.SessionActive)

	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoActiveSession
	}
	return s, err
}

func (r *pgChatRepository) CloseSession(ctx context.Context, id string, endedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE chat_sessions
		SET status = $1, ended_at = $2
		WHERE id = $3`, domain.SessionClosed, endedAt, id)
	if err != nil {
		return fmt.Errorf("close chat session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgChatRepository) AppendMessage(ctx context.Context, m *domain.ChatMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_messages (id, session_id, author, content, image_urls, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.SessionID, m.Author, m.Content, m.ImageURLs, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

func (r *pgChatRepository) MessagesBySession(ctx context.Context, sessionID string, limit int) ([]*domain.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, author, content, image_urls, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Author, &m.Content, &m.ImageURLs, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

func scanSession(row pgx.Row) (*domain.ChatSession, error) {
	var s domain.ChatSession
	err := row.Scan(&s.ID, &s.UserID, &s.Status, &s.StartedAt, &s.EndedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
