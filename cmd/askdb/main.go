// Package main provides the askdb CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/richinex/askdb/cli"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	provider    string
	model       string
	temperature float64
	verbose     bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "askdb",
		Short: "Natural-language Q&A over a seeded e-commerce database",
		Long: `Ask questions about a small e-commerce dataset in plain language.

A tool-calling model generates SQL, the query runs against an in-memory
seeded SQLite store, and a second model call phrases the answer. An
evaluation harness replays catalogued questions across model
configurations and scores the answers.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "anthropic", "LLM provider (anthropic, openai)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Model name (defaults to the provider's model)")
	rootCmd.PersistentFlags().Float64VarP(&temperature, "temperature", "t", 0.0, "Sampling temperature")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	// Add commands
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(simpleCmd())
	rootCmd.AddCommand(evalCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() cli.Options {
	return cli.Options{
		Provider:    provider,
		Model:       model,
		Temperature: temperature,
		Verbose:     verbose,
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question about the database via generated SQL",
		Long: `Answer a question about the seeded e-commerce data.

The model generates a SQL query through a forced tool call, the query
runs against a fresh in-memory store, and a second model call turns the
raw rows into a natural-language answer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Ask(context.Background(), args[0], options())
		},
	}
}

func simpleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simple [question]",
		Short: "Answer a general question with a single model call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Simple(context.Background(), args[0], options())
		},
	}
}

func evalCmd() *cobra.Command {
	var outputDir string
	var storePath string

	cmd := &cobra.Command{
		Use:   "eval [config.yaml]",
		Short: "Run the evaluation harness against a YAML configuration",
		Long: `Run every configured test case against every configured model,
score the responses with the configured checks, and aggregate pass
rates per category.

Exits non-zero when any category fails its success threshold.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Eval(context.Background(), args[0], outputDir, storePath, options())
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "results", "Directory for the JSON report")
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite run-store path (empty disables persistence)")

	return cmd
}
