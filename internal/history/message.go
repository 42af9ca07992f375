package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/comigor/xylogen-go/internal/llm"
)

const (
	// MinMessages is the smallest conversation worth keeping.
	MinMessages = 2
	// MaxTitleLength bounds Session.Title in characters.
	MaxTitleLength = 50

	defaultTitle = "New Chat"
)

// Message is one entry of a conversation. It is immutable once stored.
type Message struct {
	ID               string         `json:"id"`
	Content          string         `json:"content"`
	Role             string         `json:"role"`
	CreatedAt        time.Time      `json:"createdAt"`
	IsVoice          bool           `json:"isVoice,omitempty"`
	HasImage         bool           `json:"hasImage,omitempty"`
	IsError          bool           `json:"isError,omitempty"`
	Citations        []llm.Citation `json:"citations,omitempty"`
	RelatedQuestions []string       `json:"relatedQuestions,omitempty"`
}

// Session is one saved conversation.
type Session struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	Messages     []Message `json:"messages"`
	MessageCount int       `json:"messageCount"`
}

// Title derives a session title from the first user message.
func Title(messages []Message) string {
	for _, m := range messages {
		if m.Role != llm.RoleUser {
			continue
		}
		text := strings.Join(strings.Fields(m.Content), " ")
		if text == "" {
			continue
		}
		if r := []rune(text); len(r) > MaxTitleLength {
			return string(r[:MaxTitleLength-3]) + "..."
		}
		return text
	}
	return defaultTitle
}

// normalize fills generated fields. ok is false when the session is too
// short to store.
func normalize(s Session, now time.Time) (Session, bool, error) {
	if len(s.Messages) < MinMessages {
		return s, false, nil
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}

	msgs := make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			return s, false, fmt.Errorf("message %d: %w %q", i, ErrInvalidRole, m.Role)
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = s.CreatedAt
		}
		msgs[i] = m
	}
	s.Messages = msgs
	s.MessageCount = len(msgs)
	s.Title = Title(msgs)
	return s, true, nil
}
