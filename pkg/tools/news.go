package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/comigor/xylogen-go/internal/logger"
	"github.com/comigor/xylogen-go/internal/news"
)

// DefaultFeedLimit is how many articles the news tool retains per category.
const DefaultFeedLimit = 50

// Discoverer produces news batches.
type Discoverer interface {
	Discover(ctx context.Context, q news.Query) news.Batch
}

// NewsTool fetches headlines and keeps a merged feed per category, so
// repeated calls report only what is new.
type NewsTool struct {
	news  Discoverer
	limit int
	now   func() time.Time

	mu    sync.Mutex
	feeds map[news.Category]*feed
}

type feed struct {
	articles  []news.Article
	lastFetch int64
}

// NewNewsTool creates a new NewsTool
func NewNewsTool(d Discoverer, limit int) *NewsTool {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &NewsTool{news: d, limit: limit, now: time.Now, feeds: make(map[news.Category]*feed)}
}

// Name returns the name of the tool
func (t *NewsTool) Name() string { return "discover_news" }

// Description returns the description of the tool
func (t *NewsTool) Description() string {
	return "List current news headlines for a category. Repeated calls mark which headlines are new since the previous call."
}

// Schema returns the arguments schema
func (t *NewsTool) Schema() json.RawMessage {
	cats := make([]string, len(news.Categories))
	for i, c := range news.Categories {
		cats[i] = fmt.Sprintf("%q", c)
	}
	return json.RawMessage(fmt.Sprintf(`{
  "type": "object",
  "properties": {
    "category": {"type": "string", "enum": [%s], "description": "News category, defaults to top."},
    "limit": {"type": "integer", "minimum": 1, "description": "Maximum headlines to list."}
  }
}`, strings.Join(cats, ", ")))
}

// Run runs the tool
func (t *NewsTool) Run(ctx context.Context, args string) (string, error) {
	logger.L.Info("discover_news tool invoked", "args", args)

	var toolArgs struct {
		Category string `json:"category"`
		Limit    int    `json:"limit"`
	}
	if err := decodeArgs(args, &toolArgs); err != nil {
		return "", err
	}
	category := news.ParseCategory(toolArgs.Category)

	t.mu.Lock()
	f, ok := t.feeds[category]
	if !ok {
		f = &feed{}
		t.feeds[category] = f
	}
	lastFetch := f.lastFetch
	t.mu.Unlock()

	now := t.now().UnixMilli()
	batch := t.news.Discover(ctx, news.Query{Category: string(category), LastFetch: lastFetch, RequestTime: now})

	t.mu.Lock()
	merged, fresh := news.Merge(f.articles, batch.Articles, t.limit)
	f.articles = merged
	f.lastFetch = now
	t.mu.Unlock()

	newIDs := make(map[string]struct{}, fresh)
	for _, a := range merged[:fresh] {
		newIDs[a.ID] = struct{}{}
	}

	show := merged
	if toolArgs.Limit > 0 && len(show) > toolArgs.Limit {
		show = show[:toolArgs.Limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s news (%s, %d new):", category.Title(), batch.Source, fresh)
	for i, a := range show {
		marker := ""
		if _, ok := newIDs[a.ID]; ok {
			marker = " [new]"
		}
		fmt.Fprintf(&b, "\n%d. %s%s\n   %s · %s", i+1, a.Title, marker, a.Source, a.PublishedAt)
		if a.URL != "" && a.URL != "#" {
			fmt.Fprintf(&b, "\n   %s", a.URL)
		}
	}
	return b.String(), nil
}
