// ABOUTME: ConversationTurn represents one message stored in session memory
// ABOUTME: Turns are produced by the memory store and only rendered by the router
package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a turn
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
	RoleTool      Role = "TOOL"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// ParseRole maps a case-insensitive role name to a Role
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// DefaultRelevance is the score reported when the store has no ranking
const DefaultRelevance = 1.0

// ConversationTurn is a single stored message
type ConversationTurn struct {
	TurnID         string     `json:"turn_id,omitempty"`
	Content        string     `json:"content"`
	Role           Role       `json:"role"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
	RelevanceScore float64    `json:"relevance_score"`
}

// Message is a (text, role) pair waiting to be appended to memory
type Message struct {
	Content string `json:"content"`
	Role    Role   `json:"role"`
}

// Validate checks the message role; empty content is allowed because an
// assistant reply may legitimately be blank
func (m Message) Validate() error {
	if !m.Role.IsValid() {
		return fmt.Errorf("unknown role %q", m.Role)
	}
	return nil
}

// InteractionMessages returns the user turn followed by the assistant turn
func InteractionMessages(userText, agentText string) []Message {
	return []Message{
		{Content: userText, Role: RoleUser},
		{Content: agentText, Role: RoleAssistant},
	}
}

// SessionKey partitions memory by actor and session
type SessionKey struct {
	ActorID   string `json:"actor_id"`
	SessionID string `json:"session_id"`
}

// Validate checks that both identifiers are present
func (k SessionKey) Validate() error {
	if strings.TrimSpace(k.ActorID) == "" {
		return errors.New("actor id cannot be empty")
	}
	if strings.TrimSpace(k.SessionID) == "" {
		return errors.New("session id cannot be empty")
	}
	return nil
}

// SummaryNamespace returns the namespace summaries are filed under.
// Each id is path-escaped so a '/' inside an id stays inside its segment.
func (k SessionKey) SummaryNamespace() string {
	return fmt.Sprintf("/summaries/%s/%s", url.PathEscape(k.ActorID), url.PathEscape(k.SessionID))
}

// NewTurnID generates a unique turn identifier
func NewTurnID(at time.Time) string {
	return fmt.Sprintf("turn_%s_%s", at.UTC().Format("20060102_150405"), uuid.New().String()[:8])
}
