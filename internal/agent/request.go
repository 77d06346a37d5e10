// ABOUTME: Request and response envelope of the travel assistant runtime
// ABOUTME: Identity and trip details come from the request body only
package agent

import (
	"errors"
	"strings"

	"github.com/harper/triprouter/internal/models"
)

// Identity defaults applied when the request leaves them empty
const (
	DefaultActorID   = "user"
	DefaultSessionID = "default"
)

// ErrEmptyPrompt is returned when a request has neither text nor an image
var ErrEmptyPrompt = errors.New("prompt is required")

// Request is one invocation of the assistant
type Request struct {
	Prompt      string              `json:"prompt"`
	HasImage    bool                `json:"has_image,omitempty"`
	ImageURL    string              `json:"image_url,omitempty"`
	ActorID     string              `json:"actor_id,omitempty"`
	SessionID   string              `json:"session_id,omitempty"`
	TripID      string              `json:"trip_id,omitempty"`
	TripContext *models.TripContext `json:"trip_context,omitempty"`
}

// HasAttachment reports whether the request carries an image
func (r *Request) HasAttachment() bool {
	return r.HasImage || strings.TrimSpace(r.ImageURL) != ""
}

// Normalize fills identity defaults and folds TripID into the trip context
func (r *Request) Normalize() {
	r.ActorID = strings.TrimSpace(r.ActorID)
	r.SessionID = strings.TrimSpace(r.SessionID)
	if r.ActorID == "" {
		r.ActorID = DefaultActorID
	}
	if r.SessionID == "" {
		r.SessionID = DefaultSessionID
	}

	switch {
	case r.TripContext == nil && r.TripID != "":
		r.TripContext = &models.TripContext{TripID: r.TripID}
	case r.TripContext != nil && r.TripID == "":
		r.TripID = r.TripContext.TripID
	}
}

// Validate rejects requests with nothing to answer
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" && !r.HasAttachment() {
		return ErrEmptyPrompt
	}
	return nil
}

// SessionKey returns the memory partition for this request
func (r *Request) SessionKey() models.SessionKey {
	return models.SessionKey{ActorID: r.ActorID, SessionID: r.SessionID}
}

// Metadata is echoed back with every response
type Metadata struct {
	Timestamp string                `json:"timestamp"`
	SessionID string                `json:"session_id"`
	ActorID   string                `json:"actor_id"`
	TripID    *string               `json:"trip_id"`
	Routing   models.RoutingSummary `json:"routing"`
}

// Response is the outward envelope
type Response struct {
	Response string   `json:"response"`
	Metadata Metadata `json:"metadata"`
}
