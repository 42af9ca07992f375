package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/comigor/xylogen-go/internal/config"
	"github.com/comigor/xylogen-go/internal/provider"
)

type mockLLM struct {
	resp openai.ChatCompletionResponse
	err  error
	last openai.ChatCompletionRequest
}

func (m *mockLLM) CreateChatCompletion(ctx context.Context, r openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.last = r
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	return m.resp, nil
}

var sampleRequest = Request{
	System: "be brief",
	Prompt: "and now?",
	History: []Turn{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi there"},
	},
	MaxTokens: 64,
}

func TestOpenAICompleter_ForwardsHistory(t *testing.T) {
	m := &mockLLM{resp: openai.ChatCompletionResponse{
		Model:   "gpt-4o-mini-2024",
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "  answer  "}}},
	}}

	got, err := NewOpenAICompleter(m, "gpt-4o-mini").Complete(context.Background(), sampleRequest)
	require.NoError(t, err)
	require.Equal(t, "answer", got.Content)
	require.Equal(t, "gpt-4o-mini-2024", got.Model)

	require.Equal(t, "gpt-4o-mini", m.last.Model)
	require.Equal(t, 64, m.last.MaxTokens)
	require.Len(t, m.last.Messages, 4)
	require.Equal(t, openai.ChatMessageRoleSystem, m.last.Messages[0].Role)
	require.Equal(t, openai.ChatMessageRoleAssistant, m.last.Messages[2].Role)
	require.Equal(t, "and now?", m.last.Messages[3].Content)
}

func TestOpenAICompleter_Errors(t *testing.T) {
	_, err := NewOpenAICompleter(&mockLLM{err: context.DeadlineExceeded}, "m").Complete(context.Background(), sampleRequest)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = NewOpenAICompleter(&mockLLM{}, "m").Complete(context.Background(), sampleRequest)
	require.ErrorIs(t, err, provider.ErrEmptyResult)

	blank := &mockLLM{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: " \n"}}},
	}}
	_, err = NewOpenAICompleter(blank, "m").Complete(context.Background(), sampleRequest)
	require.ErrorIs(t, err, provider.ErrEmptyResult)
}

type mockMessages struct {
	resp *anthropic.Message
	err  error
	last anthropic.MessageNewParams
}

func (m *mockMessages) New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	m.last = body
	return m.resp, m.err
}

func TestAnthropicCompleter(t *testing.T) {
	m := &mockMessages{resp: &anthropic.Message{
		Model: anthropic.Model("claude-test"),
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "Part one. "},
			{Type: "text", Text: "Part two."},
		},
	}}
	c := &AnthropicCompleter{messages: m, model: anthropic.Model("claude-test")}

	got, err := c.Complete(context.Background(), sampleRequest)
	require.NoError(t, err)
	require.Equal(t, "Part one. Part two.", got.Content)
	require.Equal(t, "claude-test", got.Model)

	require.Equal(t, int64(64), m.last.MaxTokens)
	require.Len(t, m.last.Messages, 3)
	require.Equal(t, anthropic.MessageParamRoleAssistant, m.last.Messages[1].Role)
	require.Len(t, m.last.System, 1)
	require.Equal(t, "be brief", m.last.System[0].Text)
}

func TestAnthropicCompleter_Errors(t *testing.T) {
	c := &AnthropicCompleter{messages: &mockMessages{err: errors.New("overloaded")}}
	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	require.ErrorContains(t, err, "overloaded")

	c = &AnthropicCompleter{messages: &mockMessages{resp: &anthropic.Message{}}}
	_, err = c.Complete(context.Background(), Request{Prompt: "x"})
	require.ErrorIs(t, err, provider.ErrEmptyResult)
	require.Equal(t, int64(defaultAnthropicMaxTokens), c.messages.(*mockMessages).last.MaxTokens)
}

func TestPerplexityCompleter(t *testing.T) {
	var got pplxRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer pplx-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "sonar",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Quake news."}},
			},
			"citations": []string{"https://a.example/1", "https://b.example/2"},
			"search_results": []map[string]any{
				{"title": "B title", "url": "https://b.example/2", "snippet": "b snippet"},
			},
			"related_questions": []string{"What caused it?"},
		})
	}))
	defer srv.Close()

	c := NewPerplexityCompleter(config.ProviderConfig{APIKey: "pplx-key", BaseURL: srv.URL + "/", Model: "sonar"})
	out, err := c.Complete(context.Background(), sampleRequest)
	require.NoError(t, err)

	require.Equal(t, "Quake news.", out.Content)
	require.Equal(t, []Citation{
		{URL: "https://a.example/1"},
		{URL: "https://b.example/2", Title: "B title", Snippet: "b snippet"},
	}, out.Citations)
	require.Equal(t, []string{"What caused it?"}, out.RelatedQuestions)

	require.Equal(t, "sonar", got.Model)
	require.True(t, got.ReturnRelatedQuestions)
	require.Len(t, got.Messages, 4)
	require.Equal(t, "system", got.Messages[0].Role)
}

func TestPerplexityCompleter_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewPerplexityCompleter(config.ProviderConfig{APIKey: "bad", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	require.ErrorContains(t, err, "401")
}

func TestPerplexityCompleter_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway</html>"))
	}))
	defer srv.Close()

	c := NewPerplexityCompleter(config.ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	require.ErrorContains(t, err, "decode")
}

func TestPerplexityCitations_SearchResultsOnly(t *testing.T) {
	var r pplxResponse
	require.NoError(t, json.Unmarshal([]byte(`{"search_results":[{"title":"T","url":"https://t.example","snippet":"s"}]}`), &r))
	require.Equal(t, []Citation{{URL: "https://t.example", Title: "T", Snippet: "s"}}, r.citations())
}
