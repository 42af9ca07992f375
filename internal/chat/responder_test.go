package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/comigor/xylogen-go/internal/config"
	"github.com/comigor/xylogen-go/internal/llm"
	"github.com/comigor/xylogen-go/internal/provider"
)

type fakeCompleter struct {
	calls int
	out   *llm.Completion
	err   error
	last  llm.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	f.calls++
	f.last = req
	return f.out, f.err
}

var on = config.ProviderConfig{APIKey: "set"}

func TestRespond_FirstProviderWins(t *testing.T) {
	pplx := &fakeCompleter{out: &llm.Completion{
		Content:          "The sky is blue because of Rayleigh scattering.",
		Citations:        []llm.Citation{{URL: "https://sky.example"}},
		RelatedQuestions: []string{"q1", "q2", "q3", "q4", "q5"},
	}}
	openai := &fakeCompleter{out: &llm.Completion{Content: "unused"}}

	r := NewResponder(provider.NewSequencer(time.Second,
		llm.Provider("perplexity", "Perplexity AI", config.EnvPerplexityKey, on, pplx),
		llm.Provider("openai", "OpenAI GPT", config.EnvOpenAIKey, on, openai),
	), 256)

	history := []llm.Turn{{Role: llm.RoleUser, Content: "hi"}, {Role: llm.RoleAssistant, Content: "hello"}}
	resp := r.Respond(context.Background(), Request{Message: "Why is the sky blue?", Messages: history})

	require.Equal(t, provider.StatusSuccess, resp.Status)
	require.Equal(t, "Perplexity AI", resp.Provider)
	require.Equal(t, "The sky is blue because of Rayleigh scattering.", resp.Content)
	require.Equal(t, []llm.Citation{{URL: "https://sky.example"}}, resp.Citations)
	require.Equal(t, []string{"q1", "q2", "q3", "q4"}, resp.RelatedQuestions)
	require.Zero(t, openai.calls)

	require.Equal(t, "Why is the sky blue?", pplx.last.Prompt)
	require.Equal(t, history, pplx.last.History)
	require.Equal(t, 256, pplx.last.MaxTokens)
}

func TestRespond_FallsBackAndDerivesQuestions(t *testing.T) {
	pplx := &fakeCompleter{err: errors.New("502 bad gateway")}
	openai := &fakeCompleter{out: &llm.Completion{Content: "Go is a programming language."}}
	groq := &fakeCompleter{}

	r := NewResponder(provider.NewSequencer(time.Second,
		llm.Provider("perplexity", "Perplexity AI", config.EnvPerplexityKey, on, pplx),
		llm.Provider("openai", "OpenAI GPT", config.EnvOpenAIKey, on, openai),
		llm.Provider("groq", "Groq Llama", config.EnvGroqKey, on, groq),
	), 0)

	resp := r.Respond(context.Background(), Request{Message: "What is Go?"})

	require.Equal(t, provider.StatusSuccess, resp.Status)
	require.Equal(t, "OpenAI GPT", resp.Provider)
	require.Equal(t, 1, pplx.calls)
	require.Equal(t, 1, openai.calls)
	require.Len(t, resp.RelatedQuestions, MaxRelatedQuestions)
	require.Contains(t, resp.RelatedQuestions[0], "Go")
	require.NotNil(t, resp.Citations)
	require.Empty(t, resp.Citations)
	require.Zero(t, groq.calls)
}

func TestRespond_NoKeys(t *testing.T) {
	r := New(config.ProvidersConfig{Timeout: time.Second})

	resp := r.Respond(context.Background(), Request{Message: "hello"})

	require.Equal(t, provider.StatusNoKeys, resp.Status)
	require.Equal(t, "none", resp.Provider)
	for _, env := range []string{config.EnvPerplexityKey, config.EnvOpenAIKey, config.EnvAnthropicKey, config.EnvGroqKey} {
		require.Contains(t, resp.Content, env)
	}
	require.Contains(t, resp.Content, "Detected: none.")
	require.Empty(t, resp.RelatedQuestions)
}

func TestRespond_AllFailed(t *testing.T) {
	off := config.ProviderConfig{}
	a := &fakeCompleter{err: errors.New("timeout")}
	b := &fakeCompleter{}

	r := NewResponder(provider.NewSequencer(time.Second,
		llm.Provider("perplexity", "Perplexity AI", config.EnvPerplexityKey, on, a),
		llm.Provider("openai", "OpenAI GPT", config.EnvOpenAIKey, off, b),
	), 0)

	resp := r.Respond(context.Background(), Request{Message: ""})

	require.Equal(t, provider.StatusError, resp.Status)
	require.Contains(t, resp.Content, "Detected: PERPLEXITY_API_KEY.")
	require.NotContains(t, resp.Content, config.EnvOpenAIKey)
	require.Zero(t, b.calls)
	require.Equal(t, 1, a.calls)
}

func TestRelatedQuestions(t *testing.T) {
	require.Empty(t, RelatedQuestions("   "))
	require.Empty(t, RelatedQuestions("?"))

	qs := RelatedQuestions("Can you explain quantum computing?")
	require.Len(t, qs, 4)
	require.Equal(t, "Can you explain quantum computing in more detail?", qs[0])

	code := RelatedQuestions("how to fix this python error")
	require.Equal(t, "Can you show an example of fix this python error?", code[0])

	long := RelatedQuestions("tell me about the extraordinarily long and winding history of the Byzantine empire and its neighbours")
	require.Contains(t, long[0], "…")
}
