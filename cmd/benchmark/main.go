// ABOUTME: Command-line runner for the routing benchmark
// ABOUTME: Routes labelled utterances and reports accuracy and cost savings as JSON

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/harper/triprouter/benchmarks/routing"
	"github.com/harper/triprouter/internal/config"
	"github.com/harper/triprouter/internal/llm"
	"github.com/harper/triprouter/internal/models"
	"github.com/harper/triprouter/internal/router"
)

func main() {
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Print every case")
	minAccuracy := flag.Float64("min-accuracy", 0, "Exit non-zero when accuracy is below this value")
	inputTokens := flag.Int("input-tokens", routing.DefaultUsage.InputTokens, "Assumed input tokens per query")
	outputTokens := flag.Int("output-tokens", routing.DefaultUsage.OutputTokens, "Assumed output tokens per query")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Failed to load .env (continuing anyway): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := cfg.NewLogger(os.Stderr)

	var invoker llm.Invoker
	if cfg.ModelsConfigured() {
		clientCfg := llm.DefaultConfig(cfg.OpenAIKey)
		clientCfg.BaseURL = cfg.OpenAIBaseURL
		clientCfg.Timeout = cfg.Timeout
		client, err := llm.NewOpenAIClient(clientCfg)
		if err != nil {
			log.Fatalf("Failed to create model client: %v", err)
		}
		invoker = client
	} else {
		log.Println("OPENAI_API_KEY not set - non-trivial queries will use the fallback label")
	}

	r := router.New(invoker, router.Config{
		Profiles:        cfg.Profiles(),
		ClassifyTimeout: cfg.ClassifyTimeout,
		Logger:          logger,
	})

	fmt.Println("========================================")
	fmt.Println("Routing Benchmark")
	fmt.Println("========================================")
	fmt.Println()

	usage := routing.DefaultUsage
	usage.InputTokens = *inputTokens
	usage.OutputTokens = *outputTokens

	runner := routing.NewBenchmarkRunner(r, usage, os.Stdout, *verbose)
	report, err := runner.Run(context.Background(), routing.DefaultCases())
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")
	fmt.Printf("Cases:     %d\n", report.Total)
	fmt.Printf("Correct:   %d\n", report.Correct)
	fmt.Printf("Accuracy:  %.1f%%\n", report.Accuracy*100)

	sources := make([]string, 0, len(report.BySource))
	for src := range report.BySource {
		sources = append(sources, string(src))
	}
	sort.Strings(sources)
	for _, src := range sources {
		fmt.Printf("  via %-10s %d\n", src+":", report.BySource[models.ClassificationSource(src)])
	}

	fmt.Printf("\nRouted cost:   $%.6f\n", report.RoutedCost)
	fmt.Printf("Planning-only: $%.6f\n", report.BaselineCost)
	fmt.Printf("Savings:       %.1f%%\n", report.Savings*100)
	fmt.Println("========================================")

	if err := routing.ExportResults(report, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}

	if report.Accuracy < *minAccuracy {
		os.Exit(1)
	}
}
