// ABOUTME: Pluggable relevance scoring for rendered memory turns
// ABOUTME: Stores supply no ranking, so scoring is optional and defaults to the store value
package memory

import (
	"strings"
	"unicode"

	"github.com/harper/triprouter/internal/models"
)

// RelevanceScorer rates how relevant a stored turn is to the current query
type RelevanceScorer interface {
	Score(query string, turn models.ConversationTurn) float64
}

// ConstantScorer gives every turn the same score
type ConstantScorer float64

// Score returns the constant
func (c ConstantScorer) Score(string, models.ConversationTurn) float64 {
	return float64(c)
}

// KeywordOverlapScorer scores a turn by the share of query keywords it contains
type KeywordOverlapScorer struct {
	// MinKeywordLen drops short words such as articles; 0 means 3
	MinKeywordLen int
}

// Score returns matched query keywords divided by total query keywords.
// A query with no keywords scores 0.
func (s KeywordOverlapScorer) Score(query string, turn models.ConversationTurn) float64 {
	minLen := s.MinKeywordLen
	if minLen <= 0 {
		minLen = 3
	}

	queryKeywords := keywords(query, minLen)
	if len(queryKeywords) == 0 {
		return 0
	}

	turnKeywords := make(map[string]struct{})
	for _, k := range keywords(UnwrapContent(turn.Content), minLen) {
		turnKeywords[k] = struct{}{}
	}

	matchCount := 0
	for _, k := range queryKeywords {
		if _, ok := turnKeywords[k]; ok {
			matchCount++
		}
	}
	return float64(matchCount) / float64(len(queryKeywords))
}

// keywords lowercases text and returns its distinct words of at least minLen runes
func keywords(text string, minLen int) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < minLen {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
