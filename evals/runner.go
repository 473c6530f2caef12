// Runner: executes every (test case, model, sample) combination and
// aggregates pass rates against the configured threshold.

package evals

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/richinex/askdb/agent"
	"github.com/richinex/askdb/database"
)

// Runner drives one evaluation run over a validated configuration.
type Runner struct {
	cfg    *Config
	agents *agent.Runner
	checks []Check
}

// NewRunner builds a runner. A nil agents runner uses environment-based
// provider construction.
func NewRunner(cfg *Config, agents *agent.Runner, checks []Check) *Runner {
	if agents == nil {
		agents = &agent.Runner{}
	}
	return &Runner{cfg: cfg, agents: agents, checks: checks}
}

// Run executes the full evaluation and returns the aggregated report.
// Every invocation is self-contained: each sample runs against a fresh
// seeded store. Agent and judge failures mark the sample failed with the
// error recorded; they never abort the run.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:        uuid.NewString(),
		StartedAt:    time.Now(),
		ConfigDigest: r.cfg.Digest,
		Settings:     r.cfg.Eval,
		Models:       r.cfg.Models,
		Passed:       true,
	}

	for _, key := range r.categoryKeys() {
		cat := r.category(key)
		catReport := CategoryReport{
			Key:         key,
			Name:        cat.Name,
			Description: cat.Description,
			Passed:      true,
		}

		for _, tc := range cat.TestCases {
			for _, model := range r.cfg.Models {
				caseReport := r.runCase(ctx, tc, model)
				report.TotalCases++
				if caseReport.Passed {
					report.PassedCases++
				} else {
					catReport.Passed = false
					report.Passed = false
				}
				for _, sample := range caseReport.Samples {
					report.Usage.Add(sample.Usage)
					for _, check := range sample.Checks {
						report.Usage.Add(check.Usage)
					}
				}
				catReport.Cases = append(catReport.Cases, caseReport)
			}
		}

		report.Categories = append(report.Categories, catReport)
	}

	report.FinishedAt = time.Now()
	return report, nil
}

// categoryKeys returns category keys in deterministic order. Flat test
// cases run as the implicit "default" category.
func (r *Runner) categoryKeys() []string {
	var keys []string
	if len(r.cfg.TestCases) > 0 {
		keys = append(keys, "default")
	}
	catKeys := make([]string, 0, len(r.cfg.Categories))
	for k := range r.cfg.Categories {
		if k == "default" && len(r.cfg.TestCases) > 0 {
			continue // flat cases merge into the default category
		}
		catKeys = append(catKeys, k)
	}
	sort.Strings(catKeys)
	return append(keys, catKeys...)
}

func (r *Runner) category(key string) Category {
	cat, ok := r.cfg.Categories[key]
	if key == "default" && len(r.cfg.TestCases) > 0 {
		if !ok {
			cat = Category{Name: "Default"}
		}
		cat.TestCases = append(append([]TestCase{}, r.cfg.TestCases...), cat.TestCases...)
	}
	return cat
}

func (r *Runner) runCase(ctx context.Context, tc TestCase, model ModelConfig) CaseReport {
	caseReport := CaseReport{
		CaseID:   tc.ID,
		Question: tc.Input.Question,
		Model:    model,
	}

	passed := 0
	for i := 0; i < r.cfg.Eval.Samples; i++ {
		sample := r.runSample(ctx, tc, model)
		sample.SampleIndex = i
		if sample.Passed {
			passed++
		}
		caseReport.Samples = append(caseReport.Samples, sample)
	}

	caseReport.PassRate = float64(passed) / float64(r.cfg.Eval.Samples)
	caseReport.Passed = caseReport.PassRate >= r.cfg.Eval.SuccessThreshold
	return caseReport
}

func (r *Runner) runSample(ctx context.Context, tc TestCase, model ModelConfig) SampleResult {
	sample := SampleResult{}

	response, err := r.invoke(ctx, tc, model, &sample)
	if err != nil {
		sample.Error = err.Error()
		return sample
	}

	sample.Passed = true
	for _, check := range r.checks {
		result, err := check.Evaluate(ctx, tc, response)
		if err != nil {
			sample.Passed = false
			sample.Error = err.Error()
			return sample
		}
		if !result.Passed {
			sample.Passed = false
		}
		sample.Checks = append(sample.Checks, result)
	}
	return sample
}

// invoke runs the agent selected by the test case. Cases marked
// `agent: simple` in metadata use the single-call agent and no store.
func (r *Runner) invoke(ctx context.Context, tc TestCase, model ModelConfig, sample *SampleResult) (string, error) {
	req := agent.Request{
		Question:    tc.Input.Question,
		Model:       model.Name,
		Provider:    model.Provider,
		Temperature: model.Temperature,
	}

	if tc.Metadata["agent"] == "simple" {
		result, err := r.agents.RunSimple(ctx, req)
		if err != nil {
			return "", err
		}
		sample.Response = result.Response
		sample.Usage = result.Usage
		return result.Response, nil
	}

	db, err := database.Create()
	if err != nil {
		return "", err
	}
	defer db.Close()
	req.DB = db

	result, err := r.agents.RunSQL(ctx, req)
	if err != nil {
		return "", err
	}
	sample.Response = result.Response
	sample.SQLQuery = result.SQLQuery
	sample.QuerySuccess = result.QuerySuccess
	sample.Usage = result.Usage
	return result.Response, nil
}
