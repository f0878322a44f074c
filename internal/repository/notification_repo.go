package repository

import (
	"context"

	"github.com/craftyourstyle/backend/internal/domain"
)

// NotificationRepository is the persistence boundary shared by the HTTP
// handlers and the broker consumer. Records are insert-only: the core never
// updates or deletes a notification.
// The pgx implementation is in pg_notification_repo.go.
// Tests use a hand-written mock (mock_notification_repo.go).
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context) ([]*domain.Notification, error)
}
