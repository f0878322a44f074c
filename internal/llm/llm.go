// Package llm wraps the hosted model API behind a narrow interface.
// The conversational intelligence is entirely the provider's; this package
// only moves text across the wire.
package llm

import (
	"context"

	"github.com/craftyourstyle/backend/internal/domain"
)

// Client generates the agent's reply to a user message given the recent
// conversation history (oldest first).
type Client interface {
	GenerateReply(ctx context.Context, userMessage string, history []*domain.ChatMessage) (string, error)
}
