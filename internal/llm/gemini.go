package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/craftyourstyle/backend/internal/domain"
)

// GeminiClient implements Client on top of the Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY must be set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{client: client, modelName: modelName}, nil
}

// GenerateReply implements Client. The history is replayed as alternating
// user/model turns; the fashion-agent identity goes in as the system instruction.
func (g *GeminiClient) GenerateReply(
	ctx context.Context,
	userMessage string,
	history []*domain.ChatMessage,
) (string, error) {
	var contents []*genai.Content
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Author == domain.AuthorAgent {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(userMessage, genai.RoleUser))

	temp := float32(0.7)
	topP := float32(0.9)
	outputTokens := int32(2048)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(fashionAgentSystemPrompt, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}

	return text, nil
}
