package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Credential environment variables. Presence of a value enables the provider.
const (
	EnvPerplexityKey = "PERPLEXITY_API_KEY"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvAnthropicKey  = "ANTHROPIC_API_KEY"
	EnvGroqKey       = "GROQ_API_KEY"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	News      NewsConfig      `mapstructure:"news"`
	Images    ImagesConfig    `mapstructure:"images"`
	History   HistoryConfig   `mapstructure:"history"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// ProviderConfig holds the settings of one upstream text-generation provider
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// Configured reports whether a credential is present.
func (p ProviderConfig) Configured() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// ProvidersConfig holds every provider in fallback order plus shared limits
type ProvidersConfig struct {
	Perplexity ProviderConfig `mapstructure:"perplexity"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	Groq       ProviderConfig `mapstructure:"groq"`

	// Timeout bounds a single provider attempt.
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int           `mapstructure:"max_tokens"`
}

// NewsConfig holds the tuning constants of the news parser and catalog
type NewsConfig struct {
	MaxArticles          int `mapstructure:"max_articles"`
	MinDescriptionLength int `mapstructure:"min_description_length"`
	RefreshEntries       int `mapstructure:"refresh_entries"`
}

// ImagesConfig holds the image download proxy settings
type ImagesConfig struct {
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// HistoryConfig holds the chat session store settings
type HistoryConfig struct {
	DBPath      string `mapstructure:"db_path"`
	MaxSessions int    `mapstructure:"max_sessions"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

var credentialEnv = map[string]string{
	"providers.perplexity.api_key": EnvPerplexityKey,
	"providers.openai.api_key":     EnvOpenAIKey,
	"providers.anthropic.api_key":  EnvAnthropicKey,
	"providers.groq.api_key":       EnvGroqKey,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("providers.perplexity.api_key", "")
	v.SetDefault("providers.perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("providers.perplexity.model", "sonar")
	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("providers.openai.model", "gpt-4o-mini")
	v.SetDefault("providers.anthropic.api_key", "")
	v.SetDefault("providers.anthropic.base_url", "")
	v.SetDefault("providers.anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("providers.groq.api_key", "")
	v.SetDefault("providers.groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("providers.groq.model", "llama-3.1-8b-instant")
	v.SetDefault("providers.timeout", "12s")
	v.SetDefault("providers.max_tokens", 1024)

	v.SetDefault("news.max_articles", 20)
	v.SetDefault("news.min_description_length", 20)
	v.SetDefault("news.refresh_entries", 3)

	v.SetDefault("images.download_timeout", "15s")
	v.SetDefault("images.max_upload_bytes", 10<<20)

	v.SetDefault("history.db_path", "xylogen.db")
	v.SetDefault("history.max_sessions", 100)

	v.SetDefault("log.level", "info")
}

// Load reads config.yaml from the working directory (or the file named by
// CONFIG_PATH), then applies XYLOGEN_* and provider credential env vars.
// A missing config.yaml is not an error; a missing CONFIG_PATH file is.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := os.Getenv("CONFIG_PATH")
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("XYLOGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range credentialEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Providers.Timeout <= 0 {
		return errors.New("providers.timeout must be positive")
	}
	if c.News.MaxArticles < 1 {
		return errors.New("news.max_articles must be at least 1")
	}
	if c.News.MinDescriptionLength < 0 {
		return errors.New("news.min_description_length must be non-negative")
	}
	if c.News.RefreshEntries < 0 {
		return errors.New("news.refresh_entries must be non-negative")
	}
	if c.History.MaxSessions < 1 {
		return errors.New("history.max_sessions must be at least 1")
	}
	return nil
}
