package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/comigor/xylogen-go/internal/chat"
	"github.com/comigor/xylogen-go/internal/llm"
	"github.com/comigor/xylogen-go/internal/logger"
)

// Responder answers a chat request.
type Responder interface {
	Respond(ctx context.Context, req chat.Request) chat.Response
}

// AskTool sends a question through the chat fallback chain.
type AskTool struct {
	chat Responder
}

// NewAskTool creates a new AskTool
func NewAskTool(r Responder) *AskTool {
	return &AskTool{chat: r}
}

// Name returns the name of the tool
func (t *AskTool) Name() string { return "ask" }

// Description returns the description of the tool
func (t *AskTool) Description() string {
	return "Ask the XyloGen assistant a question. Answers come from the first available AI provider and may include web sources."
}

// Schema returns the arguments schema
func (t *AskTool) Schema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "message": {"type": "string", "description": "The question to ask."},
    "history": {
      "type": "array",
      "description": "Earlier turns of the conversation, oldest first.",
      "items": {
        "type": "object",
        "properties": {
          "role": {"type": "string", "enum": ["user", "assistant"]},
          "content": {"type": "string"}
        },
        "required": ["role", "content"]
      }
    }
  },
  "required": ["message"]
}`)
}

// Run runs the tool
func (t *AskTool) Run(ctx context.Context, args string) (string, error) {
	logger.L.Info("ask tool invoked", "args", args)

	var toolArgs struct {
		Message string     `json:"message"`
		History []llm.Turn `json:"history"`
	}
	if err := decodeArgs(args, &toolArgs); err != nil {
		return "", err
	}
	if strings.TrimSpace(toolArgs.Message) == "" {
		return "", errors.New("message is required")
	}

	resp := t.chat.Respond(ctx, chat.Request{Message: toolArgs.Message, Messages: toolArgs.History})

	var b strings.Builder
	b.WriteString(resp.Content)
	if len(resp.Citations) > 0 {
		b.WriteString("\n\nSources:")
		for _, c := range resp.Citations {
			if c.Title != "" {
				fmt.Fprintf(&b, "\n- %s (%s)", c.Title, c.URL)
			} else {
				fmt.Fprintf(&b, "\n- %s", c.URL)
			}
		}
	}
	if len(resp.RelatedQuestions) > 0 {
		b.WriteString("\n\nRelated questions:")
		for _, q := range resp.RelatedQuestions {
			fmt.Fprintf(&b, "\n- %s", q)
		}
	}
	fmt.Fprintf(&b, "\n\n[provider: %s, status: %s]", resp.Provider, resp.Status)
	return b.String(), nil
}
