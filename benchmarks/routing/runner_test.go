// ABOUTME: Tests for the routing benchmark runner
// ABOUTME: Uses an oracle invoker that answers with each case's expected label
package routing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/triprouter/internal/llm"
	"github.com/harper/triprouter/internal/models"
	"github.com/harper/triprouter/internal/router"
)

// oracle answers every classification with the case's expected label
func oracle(cases []Case) llm.Invoker {
	return llm.InvokerFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		for _, c := range cases {
			if containsMessage(prompt, c.Text) {
				return string(c.Expected), nil
			}
		}
		return "???", nil
	})
}

func containsMessage(prompt, text string) bool {
	return strings.Contains(prompt, "MENSAGEM DO USUÁRIO:\n"+strconv.Quote(text))
}

func countExpected(cases []Case, label models.QueryComplexity) int {
	n := 0
	for _, c := range cases {
		if c.Expected == label {
			n++
		}
	}
	return n
}

func TestRun_PerfectClassifier(t *testing.T) {
	cases := DefaultCases()
	r := router.New(oracle(cases), router.Config{Profiles: models.DefaultProfiles()})

	report, err := NewBenchmarkRunner(r, DefaultUsage, nil, false).Run(context.Background(), cases)
	require.NoError(t, err)

	assert.Equal(t, len(cases), report.Total)
	assert.Equal(t, report.Total, report.Correct)
	assert.InDelta(t, 1.0, report.Accuracy, 1e-9)
	assert.Equal(t, countExpected(cases, models.Trivial), report.BySource[models.SourcePattern])
	assert.Equal(t, countExpected(cases, models.Vision), report.BySource[models.SourceAttachment])
	assert.Zero(t, report.BySource[models.SourceFallback])

	assert.Greater(t, report.BaselineCost, report.RoutedCost)
	assert.Greater(t, report.Savings, 0.0)
	assert.Less(t, report.Savings, 1.0)
}

func TestRun_NoClassifierFallsBack(t *testing.T) {
	cases := DefaultCases()
	r := router.New(nil, router.Config{Profiles: models.DefaultProfiles()})

	report, err := NewBenchmarkRunner(r, DefaultUsage, nil, false).Run(context.Background(), cases)
	require.NoError(t, err)

	want := countExpected(cases, models.Trivial) + countExpected(cases, models.Vision) + countExpected(cases, models.Informative)
	assert.Equal(t, want, report.Correct)
	assert.Equal(t, countExpected(cases, models.Critical), report.Confusion[models.Critical][models.Informative])
}

func TestRun_Cancelled(t *testing.T) {
	r := router.New(nil, router.Config{Profiles: models.DefaultProfiles()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBenchmarkRunner(r, DefaultUsage, nil, false).Run(ctx, DefaultCases())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize_Cost(t *testing.T) {
	profiles := models.DefaultProfiles()
	usage := Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000, ClassifierTokens: 1_000_000}
	results := []Result{
		{Expected: models.Trivial, Got: models.Trivial, Source: models.SourcePattern, Correct: true},
		{Expected: models.Complex, Got: models.Complex, Source: models.SourceModel, Correct: true},
	}

	report := Summarize(results, profiles, usage)

	// chat 0.06+0.24, planning 0.80+3.20, one classifier call 0.035 + 1 output token
	wantRouted := 0.30 + 4.00 + 0.035 + 0.14/1e6
	assert.InDelta(t, wantRouted, report.RoutedCost, 1e-9)
	assert.InDelta(t, 8.00, report.BaselineCost, 1e-9)
	assert.InDelta(t, 1-wantRouted/8.00, report.Savings, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	report := Summarize(nil, models.DefaultProfiles(), DefaultUsage)
	assert.Zero(t, report.Accuracy)
	assert.Zero(t, report.Savings)
}

func TestExportResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.json")
	report := Summarize([]Result{{CaseID: "t1", Expected: models.Trivial, Got: models.Trivial, Source: models.SourcePattern, Correct: true}},
		models.DefaultProfiles(), DefaultUsage)

	require.NoError(t, ExportResults(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded.Correct)
	assert.Equal(t, "t1", decoded.Results[0].CaseID)
}
