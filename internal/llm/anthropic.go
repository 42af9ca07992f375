package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/comigor/xylogen-go/internal/config"
	"github.com/comigor/xylogen-go/internal/provider"
)

const defaultAnthropicMaxTokens = 1024

// MessagesAPI is the subset of anthropic.MessageService the completer uses.
type MessagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicCompleter talks to the Anthropic Messages API.
type AnthropicCompleter struct {
	messages MessagesAPI
	model    anthropic.Model
}

// NewAnthropicCompleter builds a completer from provider settings.
func NewAnthropicCompleter(cfg config.ProviderConfig) *AnthropicCompleter {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicCompleter{messages: &client.Messages, model: anthropic.Model(cfg.Model)}
}

// Complete implements Completer.
func (c *AnthropicCompleter) Complete(ctx context.Context, req Request) (*Completion, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  anthropicMessages(req),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := c.messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return nil, fmt.Errorf("no text blocks in response: %w", provider.ErrEmptyResult)
	}

	return &Completion{Content: content, Model: string(resp.Model)}, nil
}

func anthropicMessages(req Request) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(req.History)+1)
	for _, t := range req.History {
		if t.Role == RoleAssistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
			continue
		}
		msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
	}
	return append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)))
}
