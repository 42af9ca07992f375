// Package chat answers user messages through the provider fallback sequence.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/comigor/xylogen-go/internal/config"
	"github.com/comigor/xylogen-go/internal/llm"
	"github.com/comigor/xylogen-go/internal/metrics"
	"github.com/comigor/xylogen-go/internal/provider"
)

// MaxRelatedQuestions caps Response.RelatedQuestions.
const MaxRelatedQuestions = 4

const systemPrompt = `You are XyloGen, a helpful, knowledgeable assistant. Answer accurately and concisely, use Markdown where it helps readability, and say so when you are unsure.`

// Request is the chat payload.
type Request struct {
	Message  string     `json:"message"`
	Messages []llm.Turn `json:"messages"`
}

// Response is produced once per request.
type Response struct {
	Content          string          `json:"content"`
	RelatedQuestions []string        `json:"related_questions"`
	Citations        []llm.Citation  `json:"citations"`
	Provider         string          `json:"provider"`
	Status           provider.Status `json:"status"`
}

// Responder answers chat requests.
type Responder struct {
	seq       *llm.Sequencer
	maxTokens int
}

// NewResponder wraps an existing sequencer.
func NewResponder(seq *llm.Sequencer, maxTokens int) *Responder {
	return &Responder{seq: seq, maxTokens: maxTokens}
}

// New builds the production chain Perplexity → OpenAI → Anthropic → Groq.
func New(cfg config.ProvidersConfig) *Responder {
	return NewResponder(NewSequencer(cfg), cfg.MaxTokens)
}

// NewSequencer builds the chat provider chain from configuration.
func NewSequencer(cfg config.ProvidersConfig) *llm.Sequencer {
	return provider.NewSequencer(cfg.Timeout,
		llm.Provider("perplexity", "Perplexity AI", config.EnvPerplexityKey, cfg.Perplexity, llm.NewPerplexityCompleter(cfg.Perplexity)),
		llm.Provider("openai", "OpenAI GPT", config.EnvOpenAIKey, cfg.OpenAI, llm.NewOpenAICompleter(llm.NewClient(cfg.OpenAI), cfg.OpenAI.Model)),
		llm.Provider("anthropic", "Anthropic Claude", config.EnvAnthropicKey, cfg.Anthropic, llm.NewAnthropicCompleter(cfg.Anthropic)),
		llm.Provider("groq", "Groq Llama", config.EnvGroqKey, cfg.Groq, llm.NewOpenAICompleter(llm.NewClient(cfg.Groq), cfg.Groq.Model)),
	)
}

// Respond runs the fallback chain. It never returns an error: exhaustion
// becomes a static explanatory message.
func (r *Responder) Respond(ctx context.Context, req Request) Response {
	out := r.seq.Run(ctx, llm.Request{
		System:    systemPrompt,
		Prompt:    req.Message,
		History:   req.Messages,
		MaxTokens: r.maxTokens,
	})

	status := out.Status()
	metrics.Responses.WithLabelValues("chat", string(status)).Inc()

	if !out.OK {
		return Response{
			Content:          unavailableMessage(status, r.seq.Descriptors()),
			RelatedQuestions: []string{},
			Citations:        []llm.Citation{},
			Provider:         "none",
			Status:           status,
		}
	}

	related := out.Result.RelatedQuestions
	if len(related) == 0 {
		related = RelatedQuestions(req.Message)
	}
	if len(related) > MaxRelatedQuestions {
		related = related[:MaxRelatedQuestions]
	}

	citations := out.Result.Citations
	if citations == nil {
		citations = []llm.Citation{}
	}

	return Response{
		Content:          out.Result.Content,
		RelatedQuestions: related,
		Citations:        citations,
		Provider:         out.Label,
		Status:           status,
	}
}

// Probe checks connectivity of every configured chat provider.
func (r *Responder) Probe(ctx context.Context) []provider.ProbeResult {
	return r.seq.Probe(ctx, llm.Request{Prompt: "Reply with the single word: pong", MaxTokens: 8})
}

// Providers lists the chain for diagnostics.
func (r *Responder) Providers() []provider.Descriptor {
	return r.seq.Descriptors()
}

func unavailableMessage(status provider.Status, providers []provider.Descriptor) string {
	var all, detected []string
	for _, p := range providers {
		all = append(all, p.Env)
		if p.Configured {
			detected = append(detected, p.Env)
		}
	}

	detectedList := "none"
	if len(detected) > 0 {
		detectedList = strings.Join(detected, ", ")
	}

	if status == provider.StatusNoKeys {
		return fmt.Sprintf("I'm sorry, no AI provider is configured on this server yet, so I can't answer right now.\n\n"+
			"To enable responses, set at least one of these environment variables: %s.\n\nDetected: %s.",
			strings.Join(all, ", "), detectedList)
	}

	return fmt.Sprintf("I'm sorry, every configured AI provider failed to respond, so I can't answer right now. Please try again in a moment.\n\n"+
		"Detected: %s.", detectedList)
}
