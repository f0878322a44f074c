package llm

import (
	"context"

	"github.com/craftyourstyle/backend/internal/domain"
)

// MockClient is the test double for Client. It records calls and returns a
// canned reply or error.
type MockClient struct {
	Reply string
	Err   error

	Calls     []string                // user messages, in call order
	Histories [][]*domain.ChatMessage // context handed in with each call
}

func (m *MockClient) GenerateReply(_ context.Context, userMessage string, history []*domain.ChatMessage) (string, error) {
	m.Calls = append(m.Calls, userMessage)
	m.Histories = append(m.Histories, history)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}
