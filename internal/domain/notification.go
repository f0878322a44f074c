package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is the delivery category of a notification.
// These string values are a compatibility surface shared with the other
// CraftYourStyle services; do not rename them.
type Category string

const (
	CategoryTextMessage Category = "mensaje_texto"
	CategoryEmail       Category = "correo_electronico"
	CategoryPush        Category = "push"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryTextMessage, CategoryEmail, CategoryPush:
		return true
	}
	return false
}

// MaxMessageLength is the maximum stored message length in runes.
// Longer messages are truncated, never rejected.
const MaxMessageLength = 250

// Notification is the core persisted entity. Records are created once and
// never mutated or deleted afterwards.
type Notification struct {
	ID        string    `json:"id"`
	Category  Category  `json:"tipo_de_notificacion"`
	Message   string    `json:"mensaje"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification builds a notification with a fresh ID, truncating the
// message to MaxMessageLength.
func NewNotification(category Category, message string) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		Category:  category,
		Message:   TruncateMessage(message),
		CreatedAt: time.Now().UTC(),
	}
}

// TruncateMessage cuts a message down to MaxMessageLength runes.
// Counting runes (not bytes) matches the varchar(250) column semantics.
func TruncateMessage(s string) string {
	r := []rune(s)
	if len(r) <= MaxMessageLength {
		return s
	}
	return string(r[:MaxMessageLength])
}

// CreateNotificationRequest is the inbound payload for the HTTP boundary.
// Field names mirror the public API contract of the original service.
type CreateNotificationRequest struct {
	Category Category `json:"tipo_de_notificacion"`
	Message  string   `json:"mensaje"`
}

func (r *CreateNotificationRequest) Validate() error {
	if !r.Category.IsValid() {
		return ErrInvalidCategory
	}
	if r.Message == "" {
		return ErrEmptyMessage
	}
	return nil
}
