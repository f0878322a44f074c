package service_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/craftyourstyle/backend/internal/domain"
	"github.com/craftyourstyle/backend/internal/repository"
	"github.com/craftyourstyle/backend/internal/service"
)

func newNotificationService() (*service.NotificationService, *repository.MockNotificationRepository) {
	repo := repository.NewMockNotificationRepository()
	return service.NewNotificationService(repo, zap.NewNop()), repo
}

func TestNotificationService_Create(t *testing.T) {
	svc, repo := newNotificationService()

	n, err := svc.Create(context.Background(), domain.CreateNotificationRequest{
		Category: domain.CategoryTextMessage,
		Message:  "Tu pedido está en camino",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.ID == "" {
		t.Fatal("expected a non-empty ID")
	}

	rows, _ := repo.List(context.Background())
	if len(rows) != 1 {
		t.Fatalf("expected 1 persisted row, got %d", len(rows))
	}
}

func TestNotificationService_Create_Invalid(t *testing.T) {
	svc, _ := newNotificationService()

	_, err := svc.Create(context.Background(), domain.CreateNotificationRequest{
		Category: "fax",
		Message:  "hola",
	})
	if err != domain.ErrInvalidCategory {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}

	_, err = svc.Create(context.Background(), domain.CreateNotificationRequest{
		Category: domain.CategoryPush,
	})
	if err != domain.ErrEmptyMessage {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestNotificationService_Create_TruncatesLongMessage(t *testing.T) {
	svc, _ := newNotificationService()

	n, err := svc.Create(context.Background(), domain.CreateNotificationRequest{
		Category: domain.CategoryEmail,
		Message:  strings.Repeat("m", 400),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := utf8.RuneCountInString(n.Message); got != domain.MaxMessageLength {
		t.Fatalf("expected %d runes, got %d", domain.MaxMessageLength, got)
	}
}

func TestNotificationService_List(t *testing.T) {
	svc, _ := newNotificationService()
	ctx := context.Background()

	for _, msg := range []string{"uno", "dos", "tres"} {
		if _, err := svc.Create(ctx, domain.CreateNotificationRequest{
			Category: domain.CategoryPush,
			Message:  msg,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	rows, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// Most recent first, the same ordering the pgx repository returns.
	for i := 1; i < len(rows); i++ {
		if rows[i-1].CreatedAt.Before(rows[i].CreatedAt) {
			t.Fatalf("expected rows ordered newest first, got %q before %q",
				rows[i-1].Message, rows[i].Message)
		}
	}
}
