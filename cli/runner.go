// Command execution for CLI commands.
//
// Information Hiding:
// - Provider setup from settings hidden
// - Output formatting hidden

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/richinex/askdb/agent"
	"github.com/richinex/askdb/config"
	"github.com/richinex/askdb/database"
	"github.com/richinex/askdb/evals"
	"github.com/richinex/askdb/llm"
	"github.com/richinex/askdb/storage"
)

// Options holds CLI execution options.
type Options struct {
	Provider    string
	Model       string
	Temperature float64
	Verbose     bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		Provider: "anthropic",
	}
}

// Ask runs the SQL agent for a single question and prints the answer.
func Ask(ctx context.Context, question string, opts Options) error {
	runner := newAgentRunner()

	result, err := runner.RunSQL(ctx, agent.Request{
		Question:    question,
		Model:       opts.Model,
		Provider:    opts.Provider,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return err
	}

	if opts.Verbose {
		fmt.Printf("Model: %s (%s)\n", result.ModelName, result.Provider)
		for _, p := range result.ToolPredictions {
			fmt.Printf("Tool call: %s(%s)\n", p.ToolName, truncateString(string(p.Arguments), 200))
		}
		fmt.Println()
	}

	fmt.Printf("SQL: %s\n\n", result.SQLQuery)
	printQueryResult(result.QueryResult)
	fmt.Printf("\n%s\n", result.Response)
	printUsage(result.Usage)
	return nil
}

// Simple runs the single-call agent for a question and prints the answer.
func Simple(ctx context.Context, question string, opts Options) error {
	runner := newAgentRunner()

	result, err := runner.RunSimple(ctx, agent.Request{
		Question:    question,
		Model:       opts.Model,
		Provider:    opts.Provider,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return err
	}

	if opts.Verbose {
		fmt.Printf("Model: %s\n\n", result.ModelName)
	}
	fmt.Printf("%s\n", result.Response)
	printUsage(result.Usage)
	return nil
}

// Eval runs the evaluation harness against a YAML configuration.
// The report is written to outputDir and persisted to the run store at
// storePath (skipped when empty). Returns an error when any category fails.
func Eval(ctx context.Context, configPath, outputDir, storePath string, opts Options) error {
	cfg, err := evals.LoadConfig(configPath)
	if err != nil {
		return err
	}

	checks, err := evals.BuildChecks(cfg.Checks, judgeFactory)
	if err != nil {
		return err
	}

	runner := evals.NewRunner(cfg, newAgentRunner(), checks)

	fmt.Printf("Running %d models over the configured cases (%d samples each)...\n\n",
		len(cfg.Models), cfg.Eval.Samples)

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	printReport(report, opts.Verbose)

	if outputDir != "" {
		path, err := report.WriteJSON(outputDir)
		if err != nil {
			return err
		}
		fmt.Printf("\nReport written to %s\n", path)
	}

	if storePath != "" {
		if err := persistRun(ctx, storePath, report); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to persist run: %v\n", err)
		}
	}

	if !report.Passed {
		return fmt.Errorf("evaluation failed: %d/%d cases passed", report.PassedCases, report.TotalCases)
	}
	return nil
}

// newAgentRunner builds an agent runner whose providers come from
// environment settings.
func newAgentRunner() *agent.Runner {
	return &agent.Runner{Factory: providerFromSettings}
}

// providerFromSettings builds a provider using the config package:
// API key from the provider's env var, model from the request or the
// provider's model env var, max tokens from LLM_MAX_TOKENS.
func providerFromSettings(pt llm.ProviderType, model string, temperature float64) (llm.Provider, error) {
	name := pt.String()

	settings, err := config.New(name)
	if err != nil {
		return nil, err
	}
	apiKey, err := config.APIKeyFor(name)
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = settings.LLM.Model
	}

	return llm.NewProviderBuilder(pt).
		Model(model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(temperature)).
		APIKey(apiKey)
}

// judgeFactory builds judge clients for llm_judge checks. Judges always
// run at temperature zero.
func judgeFactory(model, provider string) (*llm.Client, error) {
	pt, err := llm.ParseProviderType(provider)
	if err != nil {
		return nil, err
	}
	p, err := providerFromSettings(pt, model, 0)
	if err != nil {
		return nil, err
	}
	return llm.NewClient(p), nil
}

func persistRun(ctx context.Context, storePath string, report *evals.Report) error {
	store, err := storage.Open(storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	run, results := report.Records()
	return store.SaveRun(ctx, run, results)
}

// printQueryResult renders a query result as a plain text table.
func printQueryResult(result database.QueryResult) {
	if !result.OK() {
		fmt.Printf("Query error: %s\n", result.Error)
		return
	}

	fmt.Println(strings.Join(result.Columns, " | "))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%v", v)
		}
		fmt.Println(strings.Join(cells, " | "))
	}
	fmt.Printf("(%d rows)\n", result.RowCount)
}

func printReport(report *evals.Report, verbose bool) {
	for _, cat := range report.Categories {
		status := "PASS"
		if !cat.Passed {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s\n", status, cat.Name)

		for _, c := range cat.Cases {
			marker := "pass"
			if !c.Passed {
				marker = "FAIL"
			}
			fmt.Printf("  %s  %s / %s (pass rate %.0f%%)\n", marker, c.CaseID, c.Model.Name, c.PassRate*100)

			if verbose || !c.Passed {
				for _, sample := range c.Samples {
					if sample.Error != "" {
						fmt.Printf("        sample %d error: %s\n", sample.SampleIndex, sample.Error)
						continue
					}
					for _, check := range sample.Checks {
						if !check.Passed {
							fmt.Printf("        sample %d %s: %s\n", sample.SampleIndex, check.Name, check.Reason)
						}
					}
				}
			}
		}
	}

	fmt.Printf("\n%d/%d cases passed", report.PassedCases, report.TotalCases)
	fmt.Printf(" | tokens: %d in / %d out | cost: $%.4f | %s\n",
		report.Usage.InputTokens, report.Usage.OutputTokens,
		report.Usage.TotalCost, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}

func printUsage(usage llm.Usage) {
	fmt.Printf("\nTokens: %d in / %d out | Cost: $%.4f | Duration: %.2fs\n",
		usage.InputTokens, usage.OutputTokens, usage.TotalCost, usage.Duration.Seconds())
}

// truncateString truncates a string to maxLen runes, preserving UTF-8 boundaries.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
