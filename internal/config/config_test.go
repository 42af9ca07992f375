package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  port: "9090"
  allowed_origins: ["https://xylogen.example"]
providers:
  perplexity:
    api_key: pplx-from-file
  groq:
    model: llama-3.3-70b-versatile
  timeout: 5s
news:
  max_articles: 15
history:
  max_sessions: 42
`

func clearCredentials(t *testing.T) {
	for _, env := range []string{EnvPerplexityKey, EnvOpenAIKey, EnvAnthropicKey, EnvGroqKey, "CONFIG_PATH"} {
		t.Setenv(env, "")
	}
}

// TestLoad_File verifies that Load reads the file named by CONFIG_PATH on top of defaults.
func TestLoad_File(t *testing.T) {
	clearCredentials(t)

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	require.Equal(t, []string{"https://xylogen.example"}, cfg.Server.AllowedOrigins)
	require.Equal(t, "pplx-from-file", cfg.Providers.Perplexity.APIKey)
	require.True(t, cfg.Providers.Perplexity.Configured())
	require.False(t, cfg.Providers.OpenAI.Configured())
	require.Equal(t, "llama-3.3-70b-versatile", cfg.Providers.Groq.Model)
	require.Equal(t, "https://api.groq.com/openai/v1", cfg.Providers.Groq.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Providers.Timeout)
	require.Equal(t, 15, cfg.News.MaxArticles)
	require.Equal(t, 20, cfg.News.MinDescriptionLength)
	require.Equal(t, 42, cfg.History.MaxSessions)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearCredentials(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 12*time.Second, cfg.Providers.Timeout)
	require.Equal(t, 20, cfg.News.MaxArticles)
	require.Equal(t, 3, cfg.News.RefreshEntries)
	require.Equal(t, 100, cfg.History.MaxSessions)
	require.False(t, cfg.Providers.Perplexity.Configured())
}

func TestLoad_CredentialEnvOverrides(t *testing.T) {
	clearCredentials(t)
	t.Chdir(t.TempDir())
	t.Setenv(EnvAnthropicKey, "sk-ant-test")
	t.Setenv("XYLOGEN_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	require.True(t, cfg.Providers.Anthropic.Configured())
	require.Equal(t, "sk-ant-test", cfg.Providers.Anthropic.APIKey)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearCredentials(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server:    ServerConfig{Port: "8080"},
		Providers: ProvidersConfig{Timeout: time.Second},
		News:      NewsConfig{MaxArticles: 20, MinDescriptionLength: 20},
		History:   HistoryConfig{MaxSessions: 100},
	}
	require.NoError(t, valid.Validate())

	noTimeout := valid
	noTimeout.Providers.Timeout = 0
	require.Error(t, noTimeout.Validate())

	noArticles := valid
	noArticles.News.MaxArticles = 0
	require.Error(t, noArticles.Validate())

	noSessions := valid
	noSessions.History.MaxSessions = 0
	require.Error(t, noSessions.Validate())
}
