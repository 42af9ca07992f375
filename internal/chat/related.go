package chat

import (
	"fmt"
	"regexp"
	"strings"
)

const maxTopicRunes = 60

var (
	leadingFiller = regexp.MustCompile(`(?i)^(please\s+|can you\s+|could you\s+|tell me\s+|explain\s+|what is\s+|what are\s+|what's\s+|who is\s+|how do i\s+|how does\s+|how to\s+|why is\s+|why do\s+|about\s+)+`)
	trailingPunct = regexp.MustCompile(`[\s?.!]+$`)
)

// RelatedQuestions derives up to MaxRelatedQuestions follow-up questions
// from the user's message when the provider did not supply any.
func RelatedQuestions(message string) []string {
	topic := strings.TrimSpace(message)
	topic = trailingPunct.ReplaceAllString(topic, "")
	topic = strings.TrimSpace(leadingFiller.ReplaceAllString(topic, ""))
	if topic == "" {
		return []string{}
	}

	if r := []rune(topic); len(r) > maxTopicRunes {
		topic = strings.TrimSpace(string(r[:maxTopicRunes])) + "…"
	}

	lower := strings.ToLower(message)
	var templates []string
	switch {
	case strings.Contains(lower, "code") || strings.Contains(lower, "program") || strings.Contains(lower, "function") || strings.Contains(lower, "error"):
		templates = []string{
			"Can you show an example of %s?",
			"What are common mistakes with %s?",
			"How can I test %s?",
			"What are alternatives to %s?",
		}
	case strings.Contains(lower, "news") || strings.Contains(lower, "latest") || strings.Contains(lower, "today"):
		templates = []string{
			"What is the background of %s?",
			"Who is affected by %s?",
			"What happens next with %s?",
			"How are experts reacting to %s?",
		}
	default:
		templates = []string{
			"Can you explain %s in more detail?",
			"What are the latest developments in %s?",
			"What are the pros and cons of %s?",
			"How does %s compare to alternatives?",
		}
	}

	out := make([]string, 0, MaxRelatedQuestions)
	for _, t := range templates {
		out = append(out, fmt.Sprintf(t, topic))
		if len(out) == MaxRelatedQuestions {
			break
		}
	}
	return out
}
