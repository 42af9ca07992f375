package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/comigor/xylogen-go/internal/images"
	"github.com/comigor/xylogen-go/internal/logger"
)

// ImageTool returns a themed placeholder image for a prompt.
type ImageTool struct{}

// NewImageTool creates a new ImageTool
func NewImageTool() *ImageTool { return &ImageTool{} }

// Name returns the name of the tool
func (t *ImageTool) Name() string { return "generate_image" }

// Description returns the description of the tool
func (t *ImageTool) Description() string {
	return "Generate an image URL for a text prompt. The same prompt always yields the same image."
}

// Schema returns the arguments schema
func (t *ImageTool) Schema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "prompt": {"type": "string", "description": "What the image should show."}
  },
  "required": ["prompt"]
}`)
}

// Run runs the tool
func (t *ImageTool) Run(_ context.Context, args string) (string, error) {
	logger.L.Info("generate_image tool invoked", "args", args)

	var toolArgs struct {
		Prompt string `json:"prompt"`
	}
	if err := decodeArgs(args, &toolArgs); err != nil {
		return "", err
	}
	if strings.TrimSpace(toolArgs.Prompt) == "" {
		return "", errors.New("prompt is required")
	}

	out, err := json.Marshal(images.Generate(images.Request{Prompt: toolArgs.Prompt}))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
