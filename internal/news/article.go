// Package news turns provider prose into article records and falls back to
// a curated catalog when no live source is usable.
package news

import (
	"fmt"
	"net/url"
	"strings"
)

// Category is one of the fixed discovery panels.
type Category string

const (
	CategoryTop           Category = "top"
	CategoryTechnology    Category = "technology"
	CategoryBusiness      Category = "business"
	CategoryScience       Category = "science"
	CategoryHealth        Category = "health"
	CategoryEntertainment Category = "entertainment"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTop,
	CategoryTechnology,
	CategoryBusiness,
	CategoryScience,
	CategoryHealth,
	CategoryEntertainment,
}

var categoryAliases = map[string]Category{
	"":        CategoryTop,
	"general": CategoryTop,
	"world":   CategoryTop,
	"tech":    CategoryTechnology,
	"finance": CategoryBusiness,
}

// ParseCategory normalizes s. Unknown labels map to CategoryTop.
func ParseCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	if c, ok := categoryAliases[s]; ok {
		return c
	}
	return CategoryTop
}

// Title returns the human label, e.g. "Technology".
func (c Category) Title() string {
	if c == CategoryTop {
		return "Top Stories"
	}
	s := string(c)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Article is one news item. PublishedAt is a relative label, not a timestamp.
type Article struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"imageUrl"`
	Source        string   `json:"source"`
	URL           string   `json:"url"`
	PublishedAt   string   `json:"publishedAt"`
	Category      Category `json:"category"`
	SortTimestamp int64    `json:"timestamp"`
}

// ArticleID is unique within a batch only.
func ArticleID(batchTs int64, index int) string {
	return fmt.Sprintf("news-%d-%d", batchTs, index)
}

// SortTimestamp orders later items in a batch as older.
func SortTimestamp(batchTs int64, index int) int64 {
	return batchTs - int64(index)*1000
}

// PlaceholderImage is keyed by the URL-escaped title.
func PlaceholderImage(title string) string {
	return "https://placehold.co/800x450?text=" + url.QueryEscape(title)
}
