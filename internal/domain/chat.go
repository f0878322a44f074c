package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus tracks the lifecycle of a chat session.
type SessionStatus string

const (
	SessionActive SessionStatus = "activa"
	SessionClosed SessionStatus = "finalizada"
)

// ChatSession is one conversation between a user and the fashion agent.
// A user has at most one active session at a time.
type ChatSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"id_user"`
	Status    SessionStatus `json:"estado"`
	StartedAt time.Time     `json:"fecha_inicio"`
	EndedAt   *time.Time    `json:"fecha_fin,omitempty"`
}

func (s *ChatSession) IsClosed() bool {
	return s.Status == SessionClosed
}

// MessageAuthor distinguishes user messages from agent replies.
type MessageAuthor string

const (
	AuthorUser  MessageAuthor = "usuario"
	AuthorAgent MessageAuthor = "agente"
)

// ChatMessage is a single entry in a session timeline.
// ImageURLs holds image links detected in agent replies.
type ChatMessage struct {
	ID        string        `json:"id"`
	SessionID string        `json:"sesion_id"`
	Author    MessageAuthor `json:"tipo"`
	Content   string        `json:"contenido"`
	ImageURLs []string      `json:"imagenes,omitempty"`
	CreatedAt time.Time     `json:"timestamp"`
}

// NewChatSession opens a fresh active session for the user.
func NewChatSession(userID string) *ChatSession {
	return &ChatSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    SessionActive,
		StartedAt: time.Now().UTC(),
	}
}

// NewChatMessage builds a message with a fresh ID and timestamp.
func NewChatMessage(sessionID string, author MessageAuthor, content string, imageURLs []string) *ChatMessage {
	return &ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Author:    author,
		Content:   content,
		ImageURLs: imageURLs,
		CreatedAt: time.Now().UTC(),
	}
}
