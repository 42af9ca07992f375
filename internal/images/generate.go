// Package images implements the image helpers behind the assistant's image
// panel: seeded placeholder generation, a download proxy and a heuristic
// analyser.
package images

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/comigor/xylogen-go/internal/provider"
)

const (
	imageSize   = 1024
	fallbackURL = "https://picsum.photos/seed/xylogen/1024/1024"
)

type theme struct {
	name     string
	keywords []string
}

// themes is matched in order; the first keyword hit wins.
var themes = []theme{
	{"space", []string{"space", "galaxy", "planet", "star", "astronaut", "cosmic", "nebula"}},
	{"ocean", []string{"ocean", "sea", "beach", "wave", "underwater"}},
	{"forest", []string{"forest", "tree", "jungle", "woods"}},
	{"mountain", []string{"mountain", "peak", "hill", "valley"}},
	{"city", []string{"city", "urban", "street", "skyline", "building"}},
	{"cat", []string{"cat", "kitten", "feline"}},
	{"dog", []string{"dog", "puppy", "canine"}},
	{"food", []string{"food", "pizza", "cake", "fruit", "meal"}},
	{"abstract", []string{"abstract", "pattern", "geometric"}},
	{"portrait", []string{"portrait", "person", "face", "selfie"}},
}

const defaultTheme = "art"

// Request is the generation payload.
type Request struct {
	Prompt  string `json:"prompt"`
	ImageID string `json:"imageId"`
}

// Result describes the generated image.
type Result struct {
	ImageURL string          `json:"imageUrl"`
	ImageID  string          `json:"imageId"`
	Prompt   string          `json:"prompt"`
	Theme    string          `json:"theme"`
	Seed     int64           `json:"seed"`
	Status   provider.Status `json:"status"`
}

// Generate picks a themed placeholder image seeded by the prompt, so the
// same prompt always maps to the same picture. It never fails.
func Generate(req Request) Result {
	id := req.ImageID
	if id == "" {
		id = uuid.NewString()
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return Result{ImageURL: fallbackURL, ImageID: id, Theme: defaultTheme, Status: provider.StatusFallback}
	}

	name := Theme(prompt)
	seed := Hash(prompt)
	return Result{
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s-%d/%d/%d", name, seed, imageSize, imageSize),
		ImageID:  id,
		Prompt:   prompt,
		Theme:    name,
		Seed:     seed,
		Status:   provider.StatusSuccess,
	}
}

// Theme classifies prompt against the theme table.
func Theme(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, t := range themes {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.name
			}
		}
	}
	return defaultTheme
}

// Hash is the 31-multiplier string hash over UTF-16 code units, wrapped
// to 32 bits, returned as an absolute value.
func Hash(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
