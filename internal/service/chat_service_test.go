package service_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/craftyourstyle/backend/internal/domain"
	"github.com/craftyourstyle/backend/internal/llm"
	"github.com/craftyourstyle/backend/internal/ratelimiter"
	"github.com/craftyourstyle/backend/internal/repository"
	"github.com/craftyourstyle/backend/internal/service"
)

func newChatService(mock *llm.MockClient) (*service.ChatService, *repository.MockChatRepository) {
	repo := repository.NewMockChatRepository()
	svc := service.NewChatService(repo, mock, ratelimiter.New(100), 10, zap.NewNop(), nil)
	return svc, repo
}

func TestChatService_CreateSession_SeedsWelcome(t *testing.T) {
	svc, repo := newChatService(&llm.MockClient{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Status != domain.SessionActive {
		t.Fatalf("expected status activa, got %s", session.Status)
	}

	msgs, _ := repo.MessagesBySession(ctx, session.ID, 10)
	if len(msgs) != 1 {
		t.Fatalf("expected a welcome message, got %d messages", len(msgs))
	}
	if msgs[0].Author != domain.AuthorAgent {
		t.Fatalf("expected welcome from agente, got %s", msgs[0].Author)
	}
}

func TestChatService_ActiveSession(t *testing.T) {
	svc, _ := newChatService(&llm.MockClient{})
	ctx := context.Background()

	created, _ := svc.CreateSession(ctx, "user-1")

	got, err := svc.ActiveSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected session %s, got %s", created.ID, got.ID)
	}

	if _, err := svc.ActiveSession(ctx, "user-2"); err != domain.ErrNoActiveSession {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestChatService_CloseSession(t *testing.T) {
	svc, _ := newChatService(&llm.MockClient{})
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "user-1")

	if err := svc.CloseSession(ctx, session.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Closing twice is a conflict, not a silent no-op.
	if err := svc.CloseSession(ctx, session.ID); err != domain.ErrSessionClosed {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}

	if err := svc.CloseSession(ctx, "nonexistent"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestChatService_SendMessage(t *testing.T) {
	mock := &llm.MockClient{Reply: "¡Gran elección! Una camiseta negra combina con todo."}
	svc, repo := newChatService(mock)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "user-1")

	userMsg, agentMsg, err := svc.SendMessage(ctx, session.ID, "Quiero una camiseta negra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userMsg.Author != domain.AuthorUser || agentMsg.Author != domain.AuthorAgent {
		t.Fatal("expected one user message and one agent reply")
	}
	if agentMsg.Content != mock.Reply {
		t.Fatalf("expected reply %q, got %q", mock.Reply, agentMsg.Content)
	}
	if len(mock.Calls) != 1 || mock.Calls[0] != "Quiero una camiseta negra" {
		t.Fatalf("expected the user text forwarded to the LLM, got %v", mock.Calls)
	}

	// Welcome + user + agent.
	msgs, _ := repo.MessagesBySession(ctx, session.ID, 10)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 persisted messages, got %d", len(msgs))
	}
}

func TestChatService_SendMessage_HistoryExcludesCurrentTurn(t *testing.T) {
	mock := &llm.MockClient{Reply: "Claro, te muestro opciones."}
	svc, _ := newChatService(mock)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "user-1")

	if _, _, err := svc.SendMessage(ctx, session.ID, "Quiero una camiseta negra"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.SendMessage(ctx, session.ID, "¿La tienes en talla M?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.Histories) != 2 {
		t.Fatalf("expected 2 recorded histories, got %d", len(mock.Histories))
	}

	// First turn: only the welcome message as context.
	first := mock.Histories[0]
	if len(first) != 1 || first[0].Author != domain.AuthorAgent {
		t.Fatalf("expected the welcome message alone, got %d messages", len(first))
	}

	// Second turn: oldest first, ending with the prior agent reply. The
	// in-flight user message is the prompt, never part of the context.
	second := mock.Histories[1]
	if len(second) != 3 {
		t.Fatalf("expected welcome + first exchange, got %d messages", len(second))
	}
	last := second[len(second)-1]
	if last.Author != domain.AuthorAgent || last.Content != mock.Reply {
		t.Fatalf("expected history to end with the agent reply, got %s %q", last.Author, last.Content)
	}
	if second[0].CreatedAt.After(last.CreatedAt) {
		t.Fatal("expected history ordered oldest first")
	}
}

func TestChatService_SendMessage_ExtractsImageURLs(t *testing.T) {
	mock := &llm.MockClient{Reply: "Aquí está tu diseño: https://res.cloudinary.com/cys/image/upload/d1.png ¿Te gusta?"}
	svc, _ := newChatService(mock)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "user-1")
	_, agentMsg, err := svc.SendMessage(ctx, session.ID, "Muéstrame el diseño")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(agentMsg.ImageURLs) != 1 {
		t.Fatalf("expected 1 image URL, got %v", agentMsg.ImageURLs)
	}
}

func TestChatService_SendMessage_ClosedSession(t *testing.T) {
	svc, _ := newChatService(&llm.MockClient{Reply: "hola"})
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "user-1")
	_ = svc.CloseSession(ctx, session.ID)

	if _, _, err := svc.SendMessage(ctx, session.ID, "hola"); err != domain.ErrSessionClosed {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestChatService_SendMessage_EmptyText(t *testing.T) {
	svc, _ := newChatService(&llm.MockClient{})
	if _, _, err := svc.SendMessage(context.Background(), "any", ""); err != domain.ErrEmptyChatMessage {
		t.Fatalf("expected ErrEmptyChatMessage, got %v", err)
	}
}

func TestChatService_SendMessage_LLMFailure(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("model overloaded")}
	svc, repo := newChatService(mock)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "user-1")
	if _, _, err := svc.SendMessage(ctx, session.ID, "hola"); err == nil {
		t.Fatal("expected an error when the LLM fails")
	}

	// The user message is persisted even when the reply fails; no agent row.
	msgs, _ := repo.MessagesBySession(ctx, session.ID, 10)
	if len(msgs) != 2 {
		t.Fatalf("expected welcome + user message, got %d", len(msgs))
	}
}
