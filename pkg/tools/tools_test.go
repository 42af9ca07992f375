package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comigor/xylogen-go/internal/chat"
	"github.com/comigor/xylogen-go/internal/images"
	"github.com/comigor/xylogen-go/internal/llm"
	"github.com/comigor/xylogen-go/internal/news"
	"github.com/comigor/xylogen-go/internal/provider"
)

type fakeResponder struct{ last chat.Request }

func (f *fakeResponder) Respond(_ context.Context, req chat.Request) chat.Response {
	f.last = req
	return chat.Response{
		Content:          "Go is a language.",
		Citations:        []llm.Citation{{URL: "https://go.dev", Title: "The Go Programming Language"}, {URL: "https://pkg.go.dev"}},
		RelatedQuestions: []string{"Who made Go?"},
		Provider:         "Perplexity AI",
		Status:           provider.StatusSuccess,
	}
}

// fakeDiscoverer returns two articles per call, one repeated from the
// previous call.
type fakeDiscoverer struct {
	calls   int
	queries []news.Query
}

func (f *fakeDiscoverer) Discover(_ context.Context, q news.Query) news.Batch {
	f.calls++
	f.queries = append(f.queries, q)
	mk := func(n int) news.Article {
		return news.Article{
			ID:            fmt.Sprintf("a-%d", n),
			Title:         fmt.Sprintf("Story %d", n),
			Source:        "Reuters",
			PublishedAt:   "1 hour ago",
			URL:           "#",
			SortTimestamp: int64(n),
		}
	}
	return news.Batch{Articles: []news.Article{mk(f.calls + 1), mk(f.calls)}, Source: news.SourceFallback}
}

func TestToolManager(t *testing.T) {
	m := NewToolManager(NewImageTool(), NewAskTool(&fakeResponder{}))

	names := []string{}
	for _, tool := range m.List() {
		names = append(names, tool.Name())
		assert.True(t, json.Valid(tool.Schema()), tool.Name())
	}
	assert.Equal(t, []string{"ask", "generate_image"}, names)

	_, err := m.GetTool("missing")
	assert.ErrorContains(t, err, "tool not found: missing")

	_, err = m.Call(context.Background(), "missing", "{}")
	assert.Error(t, err)
}

func TestAskTool(t *testing.T) {
	r := &fakeResponder{}
	tool := NewAskTool(r)

	out, err := tool.Run(context.Background(), `{"message":"What is Go?","history":[{"role":"user","content":"hi"}]}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Go is a language.")
	assert.Contains(t, out, "- The Go Programming Language (https://go.dev)")
	assert.Contains(t, out, "- https://pkg.go.dev")
	assert.Contains(t, out, "- Who made Go?")
	assert.Contains(t, out, "[provider: Perplexity AI, status: success]")
	assert.Equal(t, "What is Go?", r.last.Message)
	assert.Len(t, r.last.Messages, 1)

	_, err = tool.Run(context.Background(), `{}`)
	assert.ErrorContains(t, err, "message is required")

	_, err = tool.Run(context.Background(), `not json`)
	assert.Error(t, err)
}

func TestNewsTool_MarksNewHeadlines(t *testing.T) {
	d := &fakeDiscoverer{}
	tool := NewNewsTool(d, 10)
	tool.now = func() time.Time { return time.UnixMilli(5000) }

	out, err := tool.Run(context.Background(), `{"category":"tech"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Technology news (fallback, 2 new):")
	assert.Contains(t, out, "1. Story 2 [new]")
	assert.NotContains(t, out, "\n   #")

	out, err = tool.Run(context.Background(), `{"category":"technology","limit":2}`)
	require.NoError(t, err)
	assert.Contains(t, out, "1 new")
	assert.Contains(t, out, "1. Story 3 [new]")
	assert.Contains(t, out, "2. Story 2\n")
	assert.NotContains(t, out, "Story 1")

	require.Len(t, d.queries, 2)
	assert.Equal(t, "technology", d.queries[0].Category)
	assert.Zero(t, d.queries[0].LastFetch)
	assert.Equal(t, int64(5000), d.queries[1].LastFetch)
}

func TestImageTool(t *testing.T) {
	out, err := NewImageTool().Run(context.Background(), `{"prompt":"a cat playing in space"}`)
	require.NoError(t, err)

	var res images.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "space", res.Theme)
	assert.Equal(t, "https://picsum.photos/seed/space-1522019482/1024/1024", res.ImageURL)

	_, err = NewImageTool().Run(context.Background(), `{"prompt":" "}`)
	assert.Error(t, err)
}

func TestMCPHandler(t *testing.T) {
	h := mcpHandler(NewImageTool())

	req := mcp.CallToolRequest{}
	req.Params.Name = "generate_image"
	req.Params.Arguments = map[string]any{"prompt": "ocean waves"}

	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"theme":"ocean"`)

	req.Params.Arguments = map[string]any{}
	res, err = h(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)

	assert.NotNil(t, NewMCPServer(NewToolManager(NewImageTool()), "test"))
}
