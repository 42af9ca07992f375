package news

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_CoversEveryCategory(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	for _, cat := range Categories {
		require.GreaterOrEqual(t, c.Len(cat), 10, "category %s", cat)
		for _, a := range c.Articles(cat, batchTs, 0) {
			assert.NotEmpty(t, a.Title)
			assert.NotEmpty(t, a.Description)
			assert.NotEmpty(t, a.Source)
			assert.NotEmpty(t, a.PublishedAt)
			assert.NotEmpty(t, a.ImageURL)
			assert.Equal(t, cat, a.Category)
		}
	}
}

func TestCatalog_RefreshPrependsLiveEntries(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	plain := c.Articles(CategoryScience, batchTs, 0)
	refreshed := c.Articles(CategoryScience, batchTs, 3)
	require.Len(t, refreshed, len(plain)+3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, "XyloGen Live", refreshed[i].Source)
		assert.Equal(t, "#", refreshed[i].URL)
		assert.Contains(t, refreshed[i].Title, "Science")
	}
	assert.Equal(t, "Just now", refreshed[0].PublishedAt)
	assert.Equal(t, plain[0].Title, refreshed[3].Title)

	for i, a := range refreshed {
		assert.Equal(t, fmt.Sprintf("news-%d-%d", batchTs, i), a.ID)
		assert.Equal(t, batchTs-int64(i)*1000, a.SortTimestamp)
	}
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(`
health:
  - title: Only entry
    description: Something happened.
    source: Somewhere
    published_at: 1 hour ago
`))
	require.NoError(t, err)
	require.Equal(t, 1, c.Len(CategoryHealth))

	a := c.Articles(CategoryHealth, batchTs, 0)[0]
	assert.Equal(t, "#", a.URL)
	assert.Equal(t, PlaceholderImage("Only entry"), a.ImageURL)

	// Categories without entries borrow the top list, which is empty here.
	assert.Empty(t, c.Articles(CategoryBusiness, batchTs, 0))

	_, err = ParseCatalog([]byte("sports:\n  - title: x\n"))
	require.ErrorContains(t, err, "unknown category")

	_, err = ParseCatalog([]byte("top: [unclosed"))
	require.Error(t, err)
}
