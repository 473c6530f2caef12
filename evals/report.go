// Report structures and JSON output.

package evals

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/richinex/askdb/llm"
	"github.com/richinex/askdb/storage"
)

// SampleResult is one agent invocation and its check outcomes.
type SampleResult struct {
	SampleIndex  int           `json:"sample_index"`
	Passed       bool          `json:"passed"`
	Response     string        `json:"response,omitempty"`
	SQLQuery     string        `json:"sql_query,omitempty"`
	QuerySuccess bool          `json:"query_success"`
	Error        string        `json:"error,omitempty"`
	Checks       []CheckResult `json:"checks,omitempty"`
	Usage        llm.Usage     `json:"usage"`
}

// CaseReport aggregates the samples for one (test case, model) pair.
type CaseReport struct {
	CaseID   string         `json:"case_id"`
	Question string         `json:"question"`
	Model    ModelConfig    `json:"model"`
	Samples  []SampleResult `json:"samples"`
	PassRate float64        `json:"pass_rate"`
	Passed   bool           `json:"passed"`
}

// CategoryReport aggregates the cases of one category.
type CategoryReport struct {
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Cases       []CaseReport `json:"cases"`
	Passed      bool         `json:"passed"`
}

// Report is the full outcome of one evaluation run.
type Report struct {
	RunID        string           `json:"run_id"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
	ConfigDigest string           `json:"config_digest,omitempty"`
	Settings     EvalSettings     `json:"settings"`
	Models       []ModelConfig    `json:"models"`
	Categories   []CategoryReport `json:"categories"`

	TotalCases  int       `json:"total_cases"`
	PassedCases int       `json:"passed_cases"`
	Usage       llm.Usage `json:"usage"`
	Passed      bool      `json:"passed"`
}

// WriteJSON writes the report as an indented JSON file under dir,
// creating the directory if needed. Returns the written path.
func (r *Report) WriteJSON(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("eval_%s.json", r.RunID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// Records flattens the report into run-store rows.
func (r *Report) Records() (storage.RunRecord, []storage.CaseResultRecord) {
	run := storage.RunRecord{
		ID:           r.RunID,
		StartedAt:    r.StartedAt.Unix(),
		FinishedAt:   r.FinishedAt.Unix(),
		ConfigDigest: r.ConfigDigest,
		TotalCases:   r.TotalCases,
		PassedCases:  r.PassedCases,
		TotalCost:    r.Usage.TotalCost,
		Passed:       r.Passed,
	}

	var results []storage.CaseResultRecord
	for _, cat := range r.Categories {
		for _, c := range cat.Cases {
			for _, sample := range c.Samples {
				// Judge cost counts toward the sample's total.
				cost := sample.Usage.TotalCost
				for _, check := range sample.Checks {
					cost += check.Usage.TotalCost
				}
				results = append(results, storage.CaseResultRecord{
					RunID:        r.RunID,
					CaseID:       c.CaseID,
					Category:     cat.Key,
					Model:        c.Model.Name,
					Provider:     c.Model.Provider,
					SampleIndex:  sample.SampleIndex,
					Passed:       sample.Passed,
					Response:     sample.Response,
					SQLQuery:     sample.SQLQuery,
					Error:        sample.Error,
					InputTokens:  int64(sample.Usage.InputTokens),
					OutputTokens: int64(sample.Usage.OutputTokens),
					TotalCost:    cost,
				})
			}
		}
	}
	return run, results
}
