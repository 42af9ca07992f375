package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/comigor/xylogen-go/internal/provider"
)

// OpenAICompleter talks to any OpenAI-compatible chat completions API (OpenAI, Groq).
type OpenAICompleter struct {
	client Client
	model  string
}

// NewOpenAICompleter wraps client for model.
func NewOpenAICompleter(client Client, model string) *OpenAICompleter {
	return &OpenAICompleter{client: client, model: model}
}

// Complete implements Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, req Request) (*Completion, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  openAIMessages(req),
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response: %w", provider.ErrEmptyResult)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, provider.ErrEmptyResult
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}
	return &Completion{Content: content, Model: model}, nil
}

func openAIMessages(req Request) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, t := range req.History {
		role := openai.ChatMessageRoleUser
		if t.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}
	return append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})
}
