package news

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// CatalogEntry is one hand-authored fallback article.
type CatalogEntry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Source      string `yaml:"source"`
	URL         string `yaml:"url"`
	ImageURL    string `yaml:"image_url"`
	PublishedAt string `yaml:"published_at"`
}

// Catalog serves static articles when no live provider is usable.
type Catalog struct {
	entries map[Category][]CatalogEntry
}

// DefaultCatalog decodes the embedded fixture.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes a YAML document keyed by category.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw map[string][]CatalogEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{entries: make(map[Category][]CatalogEntry, len(raw))}
	for key, entries := range raw {
		cat := ParseCategory(key)
		if string(cat) != key {
			return nil, fmt.Errorf("decode catalog: unknown category %q", key)
		}
		c.entries[cat] = entries
	}
	return c, nil
}

// Len returns the number of entries for category.
func (c *Catalog) Len(category Category) int {
	return len(c.entries[category])
}

// Articles returns the catalog for category. When refresh entries are
// requested they are prepended as synthetic "live" items.
func (c *Catalog) Articles(category Category, batchTs int64, refreshEntries int) []Article {
	entries := c.entries[category]
	if len(entries) == 0 {
		entries = c.entries[CategoryTop]
	}

	all := make([]CatalogEntry, 0, refreshEntries+len(entries))
	all = append(all, liveEntries(category, refreshEntries)...)
	all = append(all, entries...)

	articles := make([]Article, 0, len(all))
	for i, e := range all {
		img := e.ImageURL
		if img == "" {
			img = PlaceholderImage(e.Title)
		}
		link := e.URL
		if link == "" {
			link = "#"
		}
		articles = append(articles, Article{
			ID:            ArticleID(batchTs, i),
			Title:         e.Title,
			Description:   e.Description,
			ImageURL:      img,
			Source:        e.Source,
			URL:           link,
			PublishedAt:   e.PublishedAt,
			Category:      category,
			SortTimestamp: SortTimestamp(batchTs, i),
		})
	}
	return articles
}

var liveTemplates = []struct {
	title, description, published string
}{
	{"Breaking: new developments in %s", "Stories are still developing. Check back shortly for confirmed details.", "Just now"},
	{"Live updates: %s stories to watch right now", "A rolling roundup of the headlines moving in the last hour.", "2 minutes ago"},
	{"Just in: fresh %s headlines", "The latest reports as they reach our newsroom.", "5 minutes ago"},
}

func liveEntries(category Category, n int) []CatalogEntry {
	out := make([]CatalogEntry, 0, n)
	for i := 0; i < n; i++ {
		t := liveTemplates[i%len(liveTemplates)]
		out = append(out, CatalogEntry{
			Title:       fmt.Sprintf(t.title, category.Title()),
			Description: t.description,
			Source:      "XyloGen Live",
			PublishedAt: t.published,
		})
	}
	return out
}
