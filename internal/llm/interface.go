package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/comigor/xylogen-go/internal/config"
	"github.com/comigor/xylogen-go/internal/provider"
)

// Client is minimal subset of openai.Client used by the completers; it is easy to mock in tests.
type Client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Completer turns a prompt plus prior turns into a single completion.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// Roles accepted in Turn.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one prior message of the conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the provider-neutral payload.
type Request struct {
	System    string
	Prompt    string
	History   []Turn
	MaxTokens int
}

// Citation is a source reference returned by search-backed providers.
type Citation struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Completion is the normalized provider output.
type Completion struct {
	Content          string
	Citations        []Citation
	RelatedQuestions []string
	Model            string
}

// Provider adapts a Completer into a fallback sequence entry. A nil
// completion without error is reported as provider.ErrEmptyResult.
func Provider(name, label, env string, cfg config.ProviderConfig, c Completer) provider.Provider[Request, *Completion] {
	return provider.Provider[Request, *Completion]{
		Name:       name,
		Label:      label,
		Env:        env,
		Configured: cfg.Configured(),
		Invoke: func(ctx context.Context, req Request) (*Completion, error) {
			out, err := c.Complete(ctx, req)
			if err == nil && out == nil {
				return nil, provider.ErrEmptyResult
			}
			return out, err
		},
	}
}

// Sequencer is a fallback chain over completers.
type Sequencer = provider.Sequencer[Request, *Completion]
