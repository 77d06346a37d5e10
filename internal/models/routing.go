// ABOUTME: Routing decision and trip context types
// ABOUTME: A RoutingDecision is built fresh per request and never mutated after return
package models

import "strings"

// RoutingDecision is everything the caller needs to drive its model call
type RoutingDecision struct {
	ModelID          string               `json:"model_id"`
	Complexity       QueryComplexity      `json:"complexity"`
	Source           ClassificationSource `json:"source"`
	UseTools         bool                 `json:"use_tools"`
	UseMemory        bool                 `json:"use_memory"`
	EnableCache      bool                 `json:"enable_cache"`
	CostInputPer1M   float64              `json:"cost_input_per_1m"`
	CostOutputPer1M  float64              `json:"cost_output_per_1m"`
	RoutingLatencyMs int64                `json:"routing_time_ms"`
}

// RoutingSummary is the compact form echoed back in response envelopes
type RoutingSummary struct {
	Complexity       QueryComplexity `json:"complexity"`
	ModelID          string          `json:"model_id"`
	RoutingLatencyMs int64           `json:"routing_time_ms"`
	UseTools         bool            `json:"use_tools"`
	UseMemory        bool            `json:"use_memory"`
	EnableCache      bool            `json:"enable_cache"`
}

// Summary returns the envelope form of the decision
func (d RoutingDecision) Summary() RoutingSummary {
	return RoutingSummary{
		Complexity:       d.Complexity,
		ModelID:          d.ModelID,
		RoutingLatencyMs: d.RoutingLatencyMs,
		UseTools:         d.UseTools,
		UseMemory:        d.UseMemory,
		EnableCache:      d.EnableCache,
	}
}

// TripStatus values the assistant knows about; the field is free text
const (
	TripStatusKnowledge = "KNOWLEDGE"
	TripStatusPlanning  = "PLANNING"
)

// TripContext is optional caller-supplied context about the user's trip
type TripContext struct {
	TripID       string   `json:"trip_id,omitempty"`
	Status       string   `json:"status,omitempty"`
	Destinations []string `json:"destinations,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
}

// StatusOrDefault returns the status, or KNOWLEDGE when none was given
func (t *TripContext) StatusOrDefault() string {
	if t == nil || strings.TrimSpace(t.Status) == "" {
		return TripStatusKnowledge
	}
	return t.Status
}

// DateRange renders "start → end", leaving unknown ends blank
func (t *TripContext) DateRange() string {
	if t == nil {
		return ""
	}
	return t.StartDate + " → " + t.EndDate
}
