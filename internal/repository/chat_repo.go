package repository

import (
	"context"
	"time"

	"github.com/craftyourstyle/backend/internal/domain"
)

// ChatRepository persists chat sessions and their message timelines for the
// fashion agent service.
type ChatRepository interface {
	CreateSession(ctx context.Context, s *domain.ChatSession) error
	GetSession(ctx context.Context, id string) (*domain.ChatSession, error)
	ActiveSessionByUser(ctx context.Context, userID string) (*domain.ChatSession, error)
	CloseSession(ctx context.Context, id string, endedAt time.Time) error

	AppendMessage(ctx context.Context, m *domain.ChatMessage) error
	// MessagesBySession returns the most recent messages first, capped at limit.
	MessagesBySession(ctx context.Context, sessionID string, limit int) ([]*domain.ChatMessage, error)
}
