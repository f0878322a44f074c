package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCategory_IsValid(t *testing.T) {
	valid := []Category{CategoryTextMessage, CategoryEmail, CategoryPush}
	for _, c := range valid {
		if !c.IsValid() {
			t.Fatalf("expected %s to be valid", c)
		}
	}
	if Category("fax").IsValid() {
		t.Fatal("expected fax to be invalid")
	}
	if Category("").IsValid() {
		t.Fatal("expected empty category to be invalid")
	}
}

func TestTruncateMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"short stays intact", "hola", 4},
		{"exactly at the bound", strings.Repeat("x", MaxMessageLength), MaxMessageLength},
		{"over the bound", strings.Repeat("x", MaxMessageLength+100), MaxMessageLength},
		{"multibyte runes counted as one", strings.Repeat("ñ", MaxMessageLength+1), MaxMessageLength},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateMessage(tc.input)
			if n := utf8.RuneCountInString(got); n != tc.expected {
				t.Fatalf("expected %d runes, got %d", tc.expected, n)
			}
		})
	}
}

func TestNewNotification_TruncatesAndAssignsID(t *testing.T) {
	n := NewNotification(CategoryEmail, strings.Repeat("a", 300))
	if n.ID == "" {
		t.Fatal("expected a non-empty ID")
	}
	if got := utf8.RuneCountInString(n.Message); got != MaxMessageLength {
		t.Fatalf("expected message truncated to %d runes, got %d", MaxMessageLength, got)
	}
}

func TestCreateNotificationRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		req         CreateNotificationRequest
		expectedErr error
	}{
		{"valid", CreateNotificationRequest{Category: CategoryPush, Message: "hola"}, nil},
		{"invalid category", CreateNotificationRequest{Category: "fax", Message: "hola"}, ErrInvalidCategory},
		{"empty message", CreateNotificationRequest{Category: CategoryPush, Message: ""}, ErrEmptyMessage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.req.Validate(); err != tc.expectedErr {
				t.Fatalf("expected %v, got %v", tc.expectedErr, err)
			}
		})
	}
}
