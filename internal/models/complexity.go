// ABOUTME: Query complexity labels and the classification result type
// ABOUTME: Parses classifier replies into labels with an explicit fallback variant
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLabel is returned when a reply does not name one of the five labels
var ErrUnknownLabel = errors.New("unknown complexity label")

// QueryComplexity is the routing key assigned to a single utterance
type QueryComplexity string

const (
	// Trivial covers greetings, thanks and bare confirmations
	Trivial QueryComplexity = "TRIVIAL"

	// Informative covers questions about information already collected
	Informative QueryComplexity = "INFORMATIVE"

	// Complex covers planning and requests that need new information
	Complex QueryComplexity = "COMPLEX"

	// Vision is assigned whenever an attachment is present
	Vision QueryComplexity = "VISION"

	// Critical covers important documents and decisions
	Critical QueryComplexity = "CRITICAL"
)

// AllComplexities lists every label in declaration order
var AllComplexities = []QueryComplexity{Trivial, Informative, Complex, Vision, Critical}

// IsValid reports whether c is one of the five labels
func (c QueryComplexity) IsValid() bool {
	switch c {
	case Trivial, Informative, Complex, Vision, Critical:
		return true
	}
	return false
}

// String returns the label word
func (c QueryComplexity) String() string {
	return string(c)
}

// ParseComplexity maps a bare label word to a QueryComplexity.
// The input is trimmed and uppercased; nothing else is extracted from it.
func ParseComplexity(s string) (QueryComplexity, error) {
	label := QueryComplexity(strings.ToUpper(strings.TrimSpace(s)))
	if !label.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
	}
	return label, nil
}

// ClassificationSource records which step produced a label
type ClassificationSource string

const (
	SourceAttachment ClassificationSource = "attachment"
	SourcePattern    ClassificationSource = "pattern"
	SourceModel      ClassificationSource = "model"
	SourceFallback   ClassificationSource = "fallback"
)

// FallbackComplexity is used whenever the classifier cannot produce a label.
// It is the cheaper of the two normal tiers.
const FallbackComplexity = Informative

// Classification is the outcome of classifying one utterance.
// Source is SourceFallback when Label was not produced by a real decision,
// in which case Reason carries the cause.
type Classification struct {
	Label  QueryComplexity      `json:"label"`
	Source ClassificationSource `json:"source"`
	Reason string               `json:"reason,omitempty"`
}

// IsFallback reports whether the classification is the fallback variant
func (c Classification) IsFallback() bool {
	return c.Source == SourceFallback
}

// Fallback builds the fallback variant with the given cause
func Fallback(reason string) Classification {
	return Classification{Label: FallbackComplexity, Source: SourceFallback, Reason: reason}
}

// ParseReply is the total parser for classifier replies: it never fails,
// returning either the parsed label or the fallback variant.
func ParseReply(reply string) Classification {
	label, err := ParseComplexity(reply)
	if err != nil {
		return Fallback(err.Error())
	}
	return Classification{Label: label, Source: SourceModel}
}
