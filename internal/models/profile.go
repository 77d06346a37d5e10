// ABOUTME: Model profiles and the complexity-to-model lookup table
// ABOUTME: Profiles are built once at startup and never mutated
package models

import "fmt"

// Default model identifiers and per-million-token prices (USD)
const (
	DefaultRouterModel   = "us.amazon.nova-micro-v1:0"
	DefaultChatModel     = "us.amazon.nova-lite-v1:0"
	DefaultPlanningModel = "us.amazon.nova-pro-v1:0"
	DefaultVisionModel   = "anthropic.claude-3-sonnet-20240229-v1:0"
)

// ModelProfile describes one downstream model and its price
type ModelProfile struct {
	Name                       string  `json:"name"`
	ID                         string  `json:"id"`
	CostPerMillionInputTokens  float64 `json:"cost_input_per_1m"`
	CostPerMillionOutputTokens float64 `json:"cost_output_per_1m"`
}

// EstimateCost returns the USD cost of a call with the given token counts
func (p ModelProfile) EstimateCost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1e6*p.CostPerMillionInputTokens +
		float64(outputTokens)/1e6*p.CostPerMillionOutputTokens
}

// ProfileSet holds the four named profiles
type ProfileSet struct {
	Router   ModelProfile `json:"router"`
	Chat     ModelProfile `json:"chat"`
	Planning ModelProfile `json:"planning"`
	Vision   ModelProfile `json:"vision"`
}

// DefaultProfiles returns the stock profile set
func DefaultProfiles() ProfileSet {
	return ProfileSet{
		Router: ModelProfile{
			Name:                       "router",
			ID:                         DefaultRouterModel,
			CostPerMillionInputTokens:  0.035,
			CostPerMillionOutputTokens: 0.14,
		},
		Chat: ModelProfile{
			Name:                       "chat",
			ID:                         DefaultChatModel,
			CostPerMillionInputTokens:  0.06,
			CostPerMillionOutputTokens: 0.24,
		},
		Planning: ModelProfile{
			Name:                       "planning",
			ID:                         DefaultPlanningModel,
			CostPerMillionInputTokens:  0.80,
			CostPerMillionOutputTokens: 3.20,
		},
		// Vision only reads attachments, output is not billed separately
		Vision: ModelProfile{
			Name:                       "vision",
			ID:                         DefaultVisionModel,
			CostPerMillionInputTokens:  3.00,
			CostPerMillionOutputTokens: 0,
		},
	}
}

// Select maps a complexity label to its target profile.
// The mapping is total over the five labels; any other value is a
// programming error and panics.
func (s ProfileSet) Select(label QueryComplexity) ModelProfile {
	switch label {
	case Trivial, Informative:
		return s.Chat
	case Complex:
		return s.Planning
	case Vision, Critical:
		return s.Vision
	}
	panic(fmt.Sprintf("models: no profile for complexity %q", label))
}

// Validate checks that every profile has an identifier and non-negative prices
func (s ProfileSet) Validate() error {
	for _, p := range []ModelProfile{s.Router, s.Chat, s.Planning, s.Vision} {
		if p.ID == "" {
			return fmt.Errorf("profile %q has no model id", p.Name)
		}
		if p.CostPerMillionInputTokens < 0 || p.CostPerMillionOutputTokens < 0 {
			return fmt.Errorf("profile %q has a negative cost", p.Name)
		}
	}
	return nil
}
