// ABOUTME: Trivial utterance patterns matched before any model call
// ABOUTME: Patterns are anchored and case-insensitive
package router

import (
	"regexp"
	"strings"
)

// MaxTrivialTokens is the longest utterance, in whitespace-separated tokens,
// that the pattern matcher will consider.
const MaxTrivialTokens = 3

// DefaultTrivialPatterns cover bare greetings, thanks, confirmations and
// reaction emoji, in Portuguese and English.
var DefaultTrivialPatterns = []string{
	`^(oi|olá|ola|hey|hi|hello|bom dia|boa tarde|boa noite)[\s!?.,]*$`,
	`^(obrigad[oa]|muito obrigad[oa]|thanks|thank you|thx|valeu|vlw)[\s!?.,]*$`,
	`^(ok|okay|certo|tudo bem|beleza|sim|não|nao|yes|no|blz)[\s!?.,]*$`,
	`^(?:(?:👍|👋|😊|🙂|😀|😂|❤\x{FE0F}?|🙏|👏|🙌|🎉|✅|😍)\s*)+$`,
}

// PatternMatcher detects trivially classifiable short utterances without any
// external call. It is immutable after construction and safe for concurrent use.
type PatternMatcher struct {
	patterns []*regexp.Regexp
}

// NewPatternMatcher compiles the given expressions case-insensitively
func NewPatternMatcher(exprs []string) (*PatternMatcher, error) {
	m := &PatternMatcher{patterns: make([]*regexp.Regexp, 0, len(exprs))}
	for _, expr := range exprs {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, err
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

// DefaultPatternMatcher returns a matcher over DefaultTrivialPatterns
func DefaultPatternMatcher() *PatternMatcher {
	m, err := NewPatternMatcher(DefaultTrivialPatterns)
	if err != nil {
		panic("router: invalid default trivial pattern: " + err.Error())
	}
	return m
}

// IsTrivial reports whether text is a short greeting, acknowledgement,
// confirmation or reaction.
func (m *PatternMatcher) IsTrivial(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" || len(strings.Fields(normalized)) > MaxTrivialTokens {
		return false
	}
	for _, re := range m.patterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}
