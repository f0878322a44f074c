package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/craftyourstyle/backend/internal/domain"
)

// MockChatRepository is the in-memory ChatRepository used in unit tests.
type MockChatRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.ChatSession
	messages []*domain.ChatMessage

	// Optional error overrides — set in tests to simulate failure paths.
	CreateSessionErr error
	AppendMessageErr error
}

func NewMockChatRepository() *MockChatRepository {
	return &MockChatRepository{sessions: make(map[string]*domain.ChatSession)}
}

func (m *MockChatRepository) CreateSession(_ context.Context, s *domain.ChatSession) error {
	if m.CreateSessionErr != nil {
		return m.CreateSessionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *s
	m.sessions[s.ID] = &clone
	return nil
}

func (m *MockChatRepository) GetSession(_ context.Context, id string) (*domain.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *MockChatRepository) ActiveSessionByUser(_ context.Context, userID string) (*domain.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.UserID == userID && s.Status == domain.SessionActive {
			clone := *s
			return &clone, nil
		}
	}
	return nil, domain.ErrNoActiveSession
}

func (m *MockChatRepository) CloseSession(_ context.Context, id string, endedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = domain.SessionClosed
	s.EndedAt = &endedAt
	return nil
}

func (m *MockChatRepository) AppendMessage(_ context.Context, msg *domain.ChatMessage) error {
	if m.AppendMessageErr != nil {
		return m.AppendMessageErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *msg
	m.messages = append(m.messages, &clone)
	return nil
}

func (m *MockChatRepository) MessagesBySession(_ context.Context, sessionID string, limit int) ([]*domain.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.ChatMessage
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			clone := *msg
			result = append(result, &clone)
		}
	}
	// Most recent first, matching the pgx implementation.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
