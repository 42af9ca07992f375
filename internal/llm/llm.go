package llm

import (
	"github.com/comigor/xylogen-go/internal/config"
	"github.com/sashabaranov/go-openai"
)

// NewClient creates a new OpenAI-compatible client
func NewClient(cfg config.ProviderConfig) *openai.Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return openai.NewClientWithConfig(config)
}
