package news

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/qmuntal/stateless"
)

// Parser defaults.
const (
	DefaultMaxArticles          = 20
	DefaultMinDescriptionLength = 20
)

const defaultDescription = "Open the story for the full report."

var (
	sourcePool = []string{
		"Reuters", "Associated Press", "BBC News", "Bloomberg",
		"The Guardian", "Al Jazeera", "NPR", "Financial Times",
	}
	publishedPool = []string{
		"Just now", "5 minutes ago", "15 minutes ago", "30 minutes ago",
		"1 hour ago", "2 hours ago", "3 hours ago", "5 hours ago",
	}
)

// Scan states.
const (
	stateNoEntry        = "NoEntry"
	stateEntryOpen      = "EntryOpen"
	stateEntryDescribed = "EntryDescribed"
	stateDone           = "Done"
)

// Line triggers.
const (
	triggerHeading      = "Heading"
	triggerBlankHeading = "BlankHeading"
	triggerSource       = "Source"
	triggerTime         = "Time"
	triggerText         = "Text"
	triggerEnd          = "EndOfInput"
)

var (
	numberedLine = regexp.MustCompile(`^\d+\.`)
	numberPrefix = regexp.MustCompile(`^\d+\.\s*`)
	// Labels drop everything up to and including the marker:
	// "Reported by - Source: Reuters" yields "Reuters".
	sourceLabel  = regexp.MustCompile(`(?i)^.*?source:\s*`)
	timeLabel    = regexp.MustCompile(`(?i)^.*?time:\s*`)
)

// Parser extracts articles from free-form provider text. It is a
// best-effort heuristic: text without numbered, bold or "breaking:"
// markers yields no articles.
type Parser struct {
	maxArticles    int
	minDescription int
	rng            *rand.Rand
}

// NewParser returns a parser. A nil rng uses the global source.
func NewParser(maxArticles, minDescriptionLength int, rng *rand.Rand) *Parser {
	if maxArticles <= 0 {
		maxArticles = DefaultMaxArticles
	}
	if minDescriptionLength < 0 {
		minDescriptionLength = DefaultMinDescriptionLength
	}
	return &Parser{maxArticles: maxArticles, minDescription: minDescriptionLength, rng: rng}
}

type draft struct {
	title       string
	description string
	source      string
	published   string
}

// scan holds the per-call state driven by the FSM.
type scan struct {
	max     int
	current draft
	drafts  []draft
}

func (s *scan) flush() {
	if s.current.title != "" {
		s.drafts = append(s.drafts, s.current)
	}
	s.current = draft{}
}

func (s *scan) open(_ context.Context, args ...any) error {
	s.flush()
	s.current.title = args[0].(string)
	return nil
}

func (s *scan) discard(_ context.Context, _ ...any) error {
	s.flush()
	return nil
}

func (s *scan) setSource(_ context.Context, args ...any) error {
	s.current.source = args[0].(string)
	return nil
}

func (s *scan) setTime(_ context.Context, args ...any) error {
	s.current.published = args[0].(string)
	return nil
}

func (s *scan) describe(_ context.Context, args ...any) error {
	s.current.description = args[0].(string)
	return nil
}

func (s *scan) finish(_ context.Context, _ ...any) error {
	if s.current.title != "" && len(s.drafts) < s.max {
		s.drafts = append(s.drafts, s.current)
	}
	s.current = draft{}
	return nil
}

func (s *scan) machine() *stateless.StateMachine {
	sm := stateless.NewStateMachine(stateNoEntry)

	sm.Configure(stateNoEntry).
		OnEntryFrom(triggerBlankHeading, s.discard).
		Permit(triggerHeading, stateEntryOpen).
		Ignore(triggerBlankHeading).
		Ignore(triggerSource).
		Ignore(triggerTime).
		Ignore(triggerText).
		Permit(triggerEnd, stateDone)

	sm.Configure(stateEntryOpen).
		OnEntryFrom(triggerHeading, s.open).
		PermitReentry(triggerHeading).
		Permit(triggerBlankHeading, stateNoEntry).
		InternalTransition(triggerSource, s.setSource).
		InternalTransition(triggerTime, s.setTime).
		Permit(triggerText, stateEntryDescribed).
		Permit(triggerEnd, stateDone)

	sm.Configure(stateEntryDescribed).
		OnEntryFrom(triggerText, s.describe).
		Permit(triggerHeading, stateEntryOpen).
		Permit(triggerBlankHeading, stateNoEntry).
		InternalTransition(triggerSource, s.setSource).
		InternalTransition(triggerTime, s.setTime).
		Ignore(triggerText).
		Permit(triggerEnd, stateDone)

	sm.Configure(stateDone).
		OnEntry(s.finish)

	return sm
}

// classify maps a trimmed, non-empty line to a trigger and its argument.
// ok is false for lines that carry nothing.
func (p *Parser) classify(line string) (trigger string, arg string, ok bool) {
	lower := strings.ToLower(line)

	switch {
	case numberedLine.MatchString(line) || strings.Contains(line, "**") || strings.Contains(lower, "breaking:"):
		title := numberPrefix.ReplaceAllString(line, "")
		title = strings.TrimSpace(strings.ReplaceAll(title, "**", ""))
		if title == "" {
			return triggerBlankHeading, "", true
		}
		return triggerHeading, title, true
	case strings.Contains(lower, "source:"):
		return triggerSource, cleanLabel(sourceLabel.ReplaceAllString(line, "")), true
	case strings.Contains(lower, "time:"):
		return triggerTime, cleanLabel(timeLabel.ReplaceAllString(line, "")), true
	case strings.Contains(lower, "ago"):
		return triggerTime, cleanLabel(line), true
	case utf8.RuneCountInString(line) > p.minDescription:
		return triggerText, line, true
	default:
		return "", "", false
	}
}

func cleanLabel(s string) string {
	return strings.Trim(strings.TrimSpace(s), "-*_ ")
}

// Parse scans text line by line and returns at most maxArticles articles.
// citations are associated with articles by position, not by content.
func (p *Parser) Parse(text string, citations []string, category Category, batchTs int64) ([]Article, error) {
	s := &scan{max: p.maxArticles}
	sm := s.machine()

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		trigger, arg, ok := p.classify(line)
		if !ok {
			continue
		}
		if err := sm.Fire(trigger, arg); err != nil {
			return nil, fmt.Errorf("news parser: %w", err)
		}
	}
	if err := sm.Fire(triggerEnd); err != nil {
		return nil, fmt.Errorf("news parser: %w", err)
	}

	drafts := s.drafts
	if len(drafts) > p.maxArticles {
		drafts = drafts[:p.maxArticles]
	}

	articles := make([]Article, 0, len(drafts))
	for i, d := range drafts {
		articles = append(articles, p.finalize(d, i, citations, category, batchTs))
	}
	return articles, nil
}

func (p *Parser) finalize(d draft, i int, citations []string, category Category, batchTs int64) Article {
	a := Article{
		ID:            ArticleID(batchTs, i),
		Title:         d.title,
		Description:   d.description,
		ImageURL:      PlaceholderImage(d.title),
		Source:        d.source,
		URL:           "#",
		PublishedAt:   d.published,
		Category:      category,
		SortTimestamp: SortTimestamp(batchTs, i),
	}
	if a.Description == "" {
		a.Description = defaultDescription
	}
	if a.Source == "" {
		a.Source = p.pick(sourcePool)
	}
	if a.PublishedAt == "" {
		a.PublishedAt = p.pick(publishedPool)
	}
	if i < len(citations) && citations[i] != "" {
		a.URL = citations[i]
	}
	return a
}

func (p *Parser) pick(pool []string) string {
	if p.rng != nil {
		return pool[p.rng.IntN(len(pool))]
	}
	return pool[rand.IntN(len(pool))]
}
