package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/craftyourstyle/backend/internal/domain"
)

// MockNotificationRepository is a hand-written, in-memory implementation of
// NotificationRepository used in unit tests. No mock-generation library needed.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	// Optional error overrides — set in tests to simulate failure paths.
	CreateErr error
	ListErr   error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Create(_ context.Context, n *domain.Notification) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *n
	m.notifications = append(m.notifications, &clone)
	return nil
}

func (m *MockNotificationRepository) List(_ context.Context) ([]*domain.Notification, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		clone := *n
		result = append(result, &clone)
	}
	// Most recent first, matching the pgx implementation.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
