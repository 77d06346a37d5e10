// ABOUTME: Benchmark runner that routes every case and collects results
// ABOUTME: Uses the production router, so results reflect the configured models and patterns

package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/harper/triprouter/internal/router"
)

// BenchmarkRunner executes routing benchmarks
type BenchmarkRunner struct {
	router  *router.Router
	usage   Usage
	out     io.Writer
	verbose bool
}

// NewBenchmarkRunner creates a runner over r; out receives per-case lines when verbose
func NewBenchmarkRunner(r *router.Router, usage Usage, out io.Writer, verbose bool) *BenchmarkRunner {
	if out == nil {
		out = io.Discard
	}
	return &BenchmarkRunner{router: r, usage: usage, out: out, verbose: verbose}
}

// Run routes each case in order and summarizes the outcome
func (b *BenchmarkRunner) Run(ctx context.Context, cases []Case) (Report, error) {
	results := make([]Result, 0, len(cases))

	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}

		decision := b.router.Route(ctx, c.Text, c.HasAttachment, nil)
		res := Result{
			CaseID:    c.ID,
			Text:      c.Text,
			Expected:  c.Expected,
			Got:       decision.Complexity,
			Source:    decision.Source,
			ModelID:   decision.ModelID,
			Correct:   decision.Complexity == c.Expected,
			LatencyMs: decision.RoutingLatencyMs,
		}
		results = append(results, res)

		if b.verbose {
			mark := "✓"
			if !res.Correct {
				mark = "✗"
			}
			fmt.Fprintf(b.out, "%s [%s] %-11s (want %-11s via %s) %q\n",
				mark, c.ID, res.Got, res.Expected, res.Source, c.Text)
		}
	}

	return Summarize(results, b.router.Profiles(), b.usage), nil
}

// ExportResults writes the report as indented JSON to outputPath
func ExportResults(report Report, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
