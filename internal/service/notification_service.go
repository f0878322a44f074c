package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/craftyourstyle/backend/internal/domain"
	"github.com/craftyourstyle/backend/internal/repository"
)

// NotificationService backs the HTTP boundary of the notification service.
// The broker consumer writes through the repository directly; this service
// only covers user-initiated creation and listing.
type NotificationService struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// Create validates and persists a single notification. Messages over the
// length bound are truncated, never rejected.
func (s *NotificationService) Create(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	n := domain.NewNotification(req.Category, req.Message)
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}

	s.logger.Info("notification created",
		zap.String("id", n.ID),
		zap.String("category", string(n.Category)),
	)
	return n, nil
}

// List returns all stored notifications, newest first.
func (s *NotificationService) List(ctx context.Context) ([]*domain.Notification, error) {
	return s.repo.List(ctx)
}
