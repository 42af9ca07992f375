package images

import (
	"fmt"
	"strings"
)

// Analysis is the canned description returned for an uploaded image.
type Analysis struct {
	Analysis string   `json:"analysis"`
	Kind     string   `json:"kind"`
	Tags     []string `json:"tags"`
	Filename string   `json:"filename"`
	Size     int64    `json:"size"`
}

type analysisRule struct {
	kind     string
	keywords []string
	tags     []string
	text     string
}

// analysisRules is matched in order against the filename and message.
var analysisRules = []analysisRule{
	{
		kind:     "screenshot",
		keywords: []string{"screenshot", "screen", "capture"},
		tags:     []string{"interface", "layout", "typography"},
		text: "This looks like a user-interface screenshot. The layout follows a clear visual hierarchy with " +
			"grouped controls and consistent spacing. Check contrast on secondary text and make sure interactive " +
			"elements have generous touch targets.",
	},
	{
		kind:     "chart",
		keywords: []string{"chart", "graph", "plot", "dashboard", "metrics"},
		tags:     []string{"data", "visualization", "trend"},
		text: "This appears to be a data visualization. Look at the axis ranges and units first, then compare the " +
			"overall trend against outliers. Labelled series and a visible legend make the chart easier to read.",
	},
	{
		kind:     "diagram",
		keywords: []string{"diagram", "architecture", "flowchart", "schema", "uml"},
		tags:     []string{"architecture", "components", "flow"},
		text: "This appears to be a technical diagram. The components and connectors describe how data moves " +
			"through the system. Confirm that every arrow has a direction and that external dependencies are marked.",
	},
	{
		kind:     "code",
		keywords: []string{"code", "terminal", "console", "error", "stack"},
		tags:     []string{"source code", "debugging"},
		text: "This looks like code or terminal output. Read the first error line and the innermost stack frame " +
			"that belongs to your own code, since that is usually where the fix goes.",
	},
}

var photoRule = analysisRule{
	kind: "photo",
	tags: []string{"photo", "composition", "lighting"},
	text: "This appears to be a photograph. Composition and lighting set the mood of the " +
		"image. Image details cannot be inspected beyond the file metadata.",
}

// Analyze returns a keyword-triggered description of an upload. It does not
// inspect pixels.
func Analyze(filename, message string, size int64) Analysis {
	haystack := strings.ToLower(filename + " " + message)

	rule := photoRule
	for _, r := range analysisRules {
		if containsAny(haystack, r.keywords) {
			rule = r
			break
		}
	}

	text := rule.text
	if m := strings.TrimSpace(message); m != "" {
		text = fmt.Sprintf("%s\n\nRegarding your question (%q): the points above are the best guidance available without running image recognition.", text, m)
	}

	return Analysis{
		Analysis: text,
		Kind:     rule.kind,
		Tags:     rule.tags,
		Filename: filename,
		Size:     size,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
