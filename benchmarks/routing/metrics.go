// ABOUTME: Accuracy and cost metrics for the routing benchmark
// ABOUTME: Routed cost is compared against sending every query to the planning model

package routing

import (
	"github.com/harper/triprouter/internal/models"
)

// Usage is the assumed token usage of one query
type Usage struct {
	InputTokens      int `json:"input_tokens"`
	OutputTokens     int `json:"output_tokens"`
	ClassifierTokens int `json:"classifier_tokens"`
}

// DefaultUsage approximates a typical assistant turn
var DefaultUsage = Usage{
	InputTokens:      1000,
	OutputTokens:     400,
	ClassifierTokens: 450,
}

// Result is the outcome of routing one case
type Result struct {
	CaseID    string                      `json:"case_id"`
	Text      string                      `json:"text"`
	Expected  models.QueryComplexity      `json:"expected"`
	Got       models.QueryComplexity      `json:"got"`
	Source    models.ClassificationSource `json:"source"`
	ModelID   string                      `json:"model_id"`
	Correct   bool                        `json:"correct"`
	LatencyMs int64                       `json:"latency_ms"`
}

// Report aggregates a benchmark run
type Report struct {
	Total        int                                                       `json:"total"`
	Correct      int                                                       `json:"correct"`
	Accuracy     float64                                                   `json:"accuracy"`
	BySource     map[models.ClassificationSource]int                       `json:"by_source"`
	Confusion    map[models.QueryComplexity]map[models.QueryComplexity]int `json:"confusion"`
	RoutedCost   float64                                                   `json:"routed_cost_usd"`
	BaselineCost float64                                                   `json:"baseline_cost_usd"`
	Savings      float64                                                   `json:"savings"`
	Usage        Usage                                                     `json:"usage"`
	Results      []Result                                                  `json:"results"`
}

// Summarize computes accuracy and cost for results.
// Each query costs its selected profile at usage; queries the router model
// classified also pay one classifier call. The baseline sends everything to
// the planning profile with no classifier.
func Summarize(results []Result, profiles models.ProfileSet, usage Usage) Report {
	r := Report{
		Total:     len(results),
		BySource:  make(map[models.ClassificationSource]int),
		Confusion: make(map[models.QueryComplexity]map[models.QueryComplexity]int),
		Usage:     usage,
		Results:   results,
	}

	for _, res := range results {
		if res.Correct {
			r.Correct++
		}
		r.BySource[res.Source]++

		row := r.Confusion[res.Expected]
		if row == nil {
			row = make(map[models.QueryComplexity]int)
			r.Confusion[res.Expected] = row
		}
		row[res.Got]++

		r.RoutedCost += profiles.Select(res.Got).EstimateCost(usage.InputTokens, usage.OutputTokens)
		if res.Source == models.SourceModel {
			r.RoutedCost += profiles.Router.EstimateCost(usage.ClassifierTokens, 1)
		}
		r.BaselineCost += profiles.Planning.EstimateCost(usage.InputTokens, usage.OutputTokens)
	}

	if r.Total > 0 {
		r.Accuracy = float64(r.Correct) / float64(r.Total)
	}
	if r.BaselineCost > 0 {
		r.Savings = 1 - r.RoutedCost/r.BaselineCost
	}
	return r
}
