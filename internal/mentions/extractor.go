// Package mentions locates candidate establishment names in discussion text
// and merges them across documents.
package mentions

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/AshZadePM/localreco/internal/domain"
)

const (
	minNameLen    = 3
	maxNameLen    = 99
	snippetRadius = 50
)

// venueKeywords is the fixed vocabulary of establishment-type words used by
// the keyword-adjacency pass. Longer phrases come first so the alternation
// prefers them over their single-word prefixes.
var venueKeywords = []string{
	"bar and grill", "burger joint", "food truck",
	"restaurant", "steakhouse", "pizzeria", "barbecue", "noodles",
	"kitchen", "bistro", "bakery", "coffee", "burger", "diner",
	"sushi", "grill", "ramen", "taco", "cafe", "bbq", "pho",
}

var (
	doubleQuoted = regexp.MustCompile(`"([^"]+)"`)
	singleQuoted = regexp.MustCompile(`'([^']+)'`)

	// A capitalized-word sequence: one or more words, each an uppercase
	// letter followed by lowercase letters.
	capitalizedSeq = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`)

	// Keyword (optionally followed by "called") then a capitalized sequence.
	keywordAdjacent = regexp.MustCompile(
		`\b(?i:` + strings.Join(venueKeywords, "|") + `)(?:\s+(?i:called))?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
)

var keywordSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(venueKeywords))
	for _, kw := range venueKeywords {
		set[kw] = struct{}{}
	}
	return set
}()

// extraction is the shared deduplication map for one document. Pass order
// matters: the first pass to claim a lowercased key owns the stored name and
// snippet, later hits on the same key only bump the occurrence count.
type extraction struct {
	kind  domain.SourceKind
	docID string
	text  string
	index map[string]int
	out   []domain.Mention
}

// Extract scans one text for candidate establishment names using three
// strategies and returns one mention per distinct name. Empty or degenerate
// text yields an empty result, never an error.
func Extract(text string, kind domain.SourceKind, docID string) []domain.Mention {
	if text == "" {
		return nil
	}

	ex := &extraction{
		kind:  kind,
		docID: docID,
		text:  text,
		index: make(map[string]int),
	}

	// Pass 1: quoted spans.
	for _, re := range []*regexp.Regexp{doubleQuoted, singleQuoted} {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			ex.add(text[loc[2]:loc[3]], loc[2])
		}
	}

	// Pass 2: venue keyword followed by a capitalized name.
	for _, loc := range keywordAdjacent.FindAllStringSubmatchIndex(text, -1) {
		ex.add(text[loc[2]:loc[3]], loc[2])
	}

	// Pass 3: bare capitalized sequences, only in food-adjacent text and
	// never the vocabulary words themselves.
	lower := strings.ToLower(text)
	if strings.Contains(lower, "restaurant") || strings.Contains(lower, "food") || strings.Contains(lower, "eat") {
		for _, loc := range capitalizedSeq.FindAllStringIndex(text, -1) {
			name := text[loc[0]:loc[1]]
			if utf8.RuneCountInString(name) <= 3 {
				continue
			}
			if _, isKeyword := keywordSet[strings.ToLower(name)]; isKeyword {
				continue
			}
			ex.add(name, loc[0])
		}
	}

	return ex.out
}

func (ex *extraction) add(name string, offset int) {
	name = strings.TrimSpace(name)
	length := utf8.RuneCountInString(name)
	if length < minNameLen || length > maxNameLen {
		return
	}

	key := strings.ToLower(name)
	if i, exists := ex.index[key]; exists {
		ex.out[i].Occurrences++
		return
	}

	ex.index[key] = len(ex.out)
	ex.out = append(ex.out, domain.Mention{
		Name:        name,
		Kind:        ex.kind,
		DocumentID:  ex.docID,
		Snippet:     snippet(ex.text, offset, len(name)),
		Occurrences: 1,
	})
}

func snippet(text string, offset, matchLen int) string {
	start := offset - snippetRadius
	if start < 0 {
		start = 0
	}
	// Byte arithmetic can land mid-rune near multibyte text; advance to the
	// next rune start so the slice stays valid UTF-8.
	for start < len(text) && !utf8.RuneStart(text[start]) {
		start++
	}
	end := offset + matchLen + snippetRadius
	if end > len(text) {
		end = len(text)
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	return text[start:end]
}
