package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/craftyourstyle/backend/internal/domain"
	"github.com/craftyourstyle/backend/internal/llm"
	"github.com/craftyourstyle/backend/internal/ratelimiter"
	"github.com/craftyourstyle/backend/internal/repository"
)

const welcomeMessage = "¡Hola! Soy tu asistente de moda de CraftYourStyle. ¿Qué diseño tienes en mente hoy?"

// ChatService coordinates sessions, message history, and the LLM for the
// fashion agent. All business rules (session lifecycle, history window,
// per-user rate limiting) live here.
type ChatService struct {
	repo         repository.ChatRepository
	llm          llm.Client
	limiter      *ratelimiter.UserLimiters
	historyLimit int
	logger       *zap.Logger

	// Metric hook injected by main (nil = no-op).
	onMessage func(latency time.Duration)
}

func NewChatService(
	repo repository.ChatRepository,
	client llm.Client,
	limiter *ratelimiter.UserLimiters,
	historyLimit int,
	logger *zap.Logger,
	onMessage func(latency time.Duration),
) *ChatService {
	if onMessage == nil {
		onMessage = func(time.Duration) {}
	}
	return &ChatService{
		repo:         repo,
		llm:          client,
		limiter:      limiter,
		historyLimit: historyLimit,
		logger:       logger,
		onMessage:    onMessage,
	}
}

// CreateSession opens a session and seeds it with the agent's welcome message.
func (s *ChatService) CreateSession(ctx context.Context, userID string) (*domain.ChatSession, error) {
	session := domain.NewChatSession(userID)
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	welcome := domain.NewChatMessage(session.ID, domain.AuthorAgent, welcomeMessage, nil)
	if err := s.repo.AppendMessage(ctx, welcome); err != nil {
		return nil, fmt.Errorf("append welcome message: %w", err)
	}

	s.logger.Info("chat session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
	)
	return session, nil
}

func (s *ChatService) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	return s.repo.GetSession(ctx, id)
}

func (s *ChatService) ActiveSession(ctx context.Context, userID string) (*domain.ChatSession, error) {
	return s.repo.ActiveSessionByUser(ctx, userID)
}

// CloseSession finalises a session. Closing an already-closed session fails
// with ErrSessionClosed.
func (s *ChatService) CloseSession(ctx context.Context, id string) error {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if session.IsClosed() {
		return domain.ErrSessionClosed
	}
	return s.repo.CloseSession(ctx, id, time.Now().UTC())
}

// History returns the most recent messages of a session, newest first.
func (s *ChatService) History(ctx context.Context, sessionID string, limit int) ([]*domain.ChatMessage, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = s.historyLimit
	}
	return s.repo.MessagesBySession(ctx, sessionID, limit)
}

// SendMessage persists the user's message, asks the LLM for a reply with the
// recent history as context, and persists the agent's answer. Image URLs the
// model embeds in its reply are extracted onto the agent message.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, text string) (*domain.ChatMessage, *domain.ChatMessage, error) {
	if text == "" {
		return nil, nil, domain.ErrEmptyChatMessage
	}

	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.IsClosed() {
		return nil, nil, domain.ErrSessionClosed
	}

	if err := s.limiter.Wait(ctx, session.UserID); err != nil {
		return nil, nil, err
	}

	userMsg := domain.NewChatMessage(sessionID, domain.AuthorUser, text, nil)
	if err := s.repo.AppendMessage(ctx, userMsg); err != nil {
		return nil, nil, fmt.Errorf("append user message: %w", err)
	}

	history, err := s.repo.MessagesBySession(ctx, sessionID, s.historyLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("load history: %w", err)
	}
	reverse(history) // repo returns newest first; the model wants oldest first
	if n := len(history); n > 0 && history[n-1].ID == userMsg.ID {
		// The in-flight message goes to the model as the prompt, not as context.
		history = history[:n-1]
	}

	start := time.Now()
	reply, err := s.llm.GenerateReply(ctx, text, history)
	if err != nil {
		s.logger.Error("llm reply failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return nil, nil, fmt.Errorf("generate reply: %w", err)
	}
	s.onMessage(time.Since(start))

	agentMsg := domain.NewChatMessage(sessionID, domain.AuthorAgent, reply, llm.ExtractImageURLs(reply))
	if err := s.repo.AppendMessage(ctx, agentMsg); err != nil {
		return nil, nil, fmt.Errorf("append agent message: %w", err)
	}

	return userMsg, agentMsg, nil
}

func reverse(msgs []*domain.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
