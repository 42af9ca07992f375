package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/comigor/xylogen-go/internal/config"
	"github.com/comigor/xylogen-go/internal/provider"
)

// PerplexityCompleter calls Perplexity's chat completions endpoint directly,
// because its citations and related questions are not part of the OpenAI schema.
type PerplexityCompleter struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewPerplexityCompleter builds a completer from provider settings.
func NewPerplexityCompleter(cfg config.ProviderConfig) *PerplexityCompleter {
	return &PerplexityCompleter{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{},
	}
}

// Complete implements Completer.
func (c *PerplexityCompleter) Complete(ctx context.Context, req Request) (*Completion, error) {
	payload := pplxRequest{
		Model:                  c.model,
		MaxTokens:              req.MaxTokens,
		ReturnRelatedQuestions: true,
	}
	if req.System != "" {
		payload.Messages = append(payload.Messages, pplxMessage{Role: "system", Content: req.System})
	}
	for _, t := range req.History {
		payload.Messages = append(payload.Messages, pplxMessage{Role: t.Role, Content: t.Content})
	}
	payload.Messages = append(payload.Messages, pplxMessage{Role: RoleUser, Content: req.Prompt})

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("perplexity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("perplexity: unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var raw pplxResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("perplexity decode: %w", err)
	}

	if len(raw.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response: %w", provider.ErrEmptyResult)
	}
	content := strings.TrimSpace(raw.Choices[0].Message.Content)
	if content == "" {
		return nil, provider.ErrEmptyResult
	}

	return &Completion{
		Content:          content,
		Citations:        raw.citations(),
		RelatedQuestions: raw.RelatedQuestions,
		Model:            raw.Model,
	}, nil
}

type pplxMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type pplxRequest struct {
	Model                  string        `json:"model"`
	Messages               []pplxMessage `json:"messages"`
	MaxTokens              int           `json:"max_tokens,omitempty"`
	ReturnRelatedQuestions bool          `json:"return_related_questions"`
}

type pplxResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message pplxMessage `json:"message"`
	} `json:"choices"`
	Citations     []string `json:"citations"`
	SearchResults []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"search_results"`
	RelatedQuestions []string `json:"related_questions"`
}

// citations keeps the order of the citations array and enriches entries
// with search_results metadata when the URLs match.
func (r pplxResponse) citations() []Citation {
	if len(r.Citations) == 0 {
		out := make([]Citation, 0, len(r.SearchResults))
		for _, s := range r.SearchResults {
			out = append(out, Citation{URL: s.URL, Title: s.Title, Snippet: s.Snippet})
		}
		return out
	}

	out := make([]Citation, 0, len(r.Citations))
	for _, u := range r.Citations {
		c := Citation{URL: u}
		for _, s := range r.SearchResults {
			if s.URL == u {
				c.Title = s.Title
				c.Snippet = s.Snippet
				break
			}
		}
		out = append(out, c)
	}
	return out
}
