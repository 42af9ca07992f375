package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/comigor/xylogen-go/internal/config"
	"github.com/comigor/xylogen-go/internal/llm"
	"github.com/comigor/xylogen-go/internal/logger"
	"github.com/comigor/xylogen-go/internal/metrics"
	"github.com/comigor/xylogen-go/internal/provider"
)

// Batch sources.
const (
	SourceLive     = "perplexity"
	SourceFallback = "fallback"
)

// Query is the discover request.
type Query struct {
	Category    string `json:"category"`
	LastFetch   int64  `json:"lastFetch"`
	RequestTime int64  `json:"requestTime"`
}

// Batch is the discover response.
type Batch struct {
	Articles    []Article       `json:"articles"`
	Category    Category        `json:"category"`
	Source      string          `json:"source"`
	Timestamp   string          `json:"timestamp"`
	RequestTime int64           `json:"requestTime"`
	IsRefresh   bool            `json:"isRefresh"`
	Status      provider.Status `json:"status"`
}

// Aggregator asks a search-backed provider for the day's headlines and
// falls back to the catalog when that yields nothing.
type Aggregator struct {
	seq            *llm.Sequencer
	parser         *Parser
	catalog        *Catalog
	refreshEntries int
	maxTokens      int
	now            func() time.Time
	log            *slog.Logger
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator wires the parts together.
func NewAggregator(seq *llm.Sequencer, parser *Parser, catalog *Catalog, refreshEntries, maxTokens int, opts ...Option) *Aggregator {
	a := &Aggregator{
		seq:            seq,
		parser:         parser,
		catalog:        catalog,
		refreshEntries: refreshEntries,
		maxTokens:      maxTokens,
		now:            time.Now,
		log:            logger.Component("news"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// New builds the production aggregator. News only uses Perplexity, since it
// is the one provider with live search.
func New(providers config.ProvidersConfig, cfg config.NewsConfig) (*Aggregator, error) {
	catalog, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	seq := provider.NewSequencer(providers.Timeout,
		llm.Provider("perplexity", "Perplexity AI", config.EnvPerplexityKey, providers.Perplexity, llm.NewPerplexityCompleter(providers.Perplexity)),
	)
	parser := NewParser(cfg.MaxArticles, cfg.MinDescriptionLength, nil)
	return NewAggregator(seq, parser, catalog, cfg.RefreshEntries, providers.MaxTokens), nil
}

// Discover returns one batch for q. It never fails: every problem ends in
// the catalog.
func (a *Aggregator) Discover(ctx context.Context, q Query) Batch {
	now := a.now()
	category := ParseCategory(q.Category)
	requestTime := q.RequestTime
	if requestTime <= 0 {
		requestTime = now.UnixMilli()
	}
	refresh := q.LastFetch > 0

	batch := Batch{
		Category:    category,
		Timestamp:   now.UTC().Format(time.RFC3339),
		RequestTime: requestTime,
		IsRefresh:   refresh,
	}

	if articles := a.live(ctx, category, requestTime); len(articles) > 0 {
		batch.Articles = articles
		batch.Source = SourceLive
		batch.Status = provider.StatusSuccess
	} else {
		extra := 0
		if refresh {
			extra = a.refreshEntries
		}
		batch.Articles = a.catalog.Articles(category, requestTime, extra)
		batch.Source = SourceFallback
		batch.Status = provider.StatusFallback
	}

	metrics.Responses.WithLabelValues("news", string(batch.Status)).Inc()
	a.log.Info("news batch", "category", category, "source", batch.Source, "articles", len(batch.Articles), "refresh", refresh)
	return batch
}

func (a *Aggregator) live(ctx context.Context, category Category, batchTs int64) []Article {
	out := a.seq.Run(ctx, llm.Request{
		System:    newsSystemPrompt,
		Prompt:    newsPrompt(category),
		MaxTokens: a.maxTokens,
	})
	if !out.OK {
		return nil
	}

	citations := make([]string, 0, len(out.Result.Citations))
	for _, c := range out.Result.Citations {
		citations = append(citations, c.URL)
	}

	articles, err := a.parser.Parse(out.Result.Content, citations, category, batchTs)
	if err != nil {
		a.log.Error("parse provider text", "error", err)
		return nil
	}
	if len(articles) == 0 {
		a.log.Warn("provider text yielded no articles", "category", category)
	}
	return articles
}

const newsSystemPrompt = `You are a news editor. List current headlines as a numbered list. For each item give the headline on the numbered line, then "Source: <outlet>", then "Time: <how long ago>", then a one or two sentence summary.`

func newsPrompt(category Category) string {
	if category == CategoryTop {
		return "What are the most important news stories right now?"
	}
	return fmt.Sprintf("What are the latest %s news stories right now?", string(category))
}
