package evals

import (
	"strings"
	"testing"
)

const minimalConfig = `
models:
  - name: gpt-4o-mini
    provider: openai
    temperature: 0.0
eval:
  samples: 3
  success_threshold: 0.8
checks:
  - type: contains
test_cases:
  - id: capital
    input:
      question: "What is the capital of France?"
    expected:
      must_contain: ["Paris"]
`

func TestParseConfigFlat(t *testing.T) {
	cfg, err := ParseConfig([]byte(minimalConfig))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	if len(cfg.Models) != 1 || cfg.Models[0].Name != "gpt-4o-mini" {
		t.Errorf("unexpected models: %+v", cfg.Models)
	}
	if cfg.Eval.Samples != 3 {
		t.Errorf("expected 3 samples, got %d", cfg.Eval.Samples)
	}
	if cfg.Eval.SuccessThreshold != 0.8 {
		t.Errorf("expected threshold 0.8, got %v", cfg.Eval.SuccessThreshold)
	}
	if len(cfg.TestCases) != 1 || cfg.TestCases[0].ID != "capital" {
		t.Errorf("unexpected test cases: %+v", cfg.TestCases)
	}
	if got := cfg.TestCases[0].Expected.MustContain; len(got) != 1 || got[0] != "Paris" {
		t.Errorf("unexpected must_contain: %v", got)
	}
	if cfg.Digest == "" {
		t.Error("expected config digest to be set")
	}
}

func TestLoadConfigCategorized(t *testing.T) {
	cfg, err := LoadConfig("testdata/agent_evals.yaml")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cfg.Categories))
	}
	customers, ok := cfg.Categories["customer_queries"]
	if !ok {
		t.Fatal("missing customer_queries category")
	}
	if customers.Name != "Customer Queries" {
		t.Errorf("unexpected category name: %q", customers.Name)
	}
	if len(customers.TestCases) != 2 {
		t.Errorf("expected 2 customer cases, got %d", len(customers.TestCases))
	}
	general := cfg.Categories["general"]
	if got := general.TestCases[0].Metadata["agent"]; got != "simple" {
		t.Errorf("expected simple agent metadata, got %q", got)
	}
}

func TestParseConfigRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			mutate:  func(s string) string { return s + "\n\t: bad" },
			wantErr: "failed to parse config",
		},
		{
			name:    "unknown check type",
			mutate:  func(s string) string { return strings.Replace(s, "type: contains", "type: regex", 1) },
			wantErr: `unknown check type "regex"`,
		},
		{
			name:    "no models",
			mutate:  func(s string) string { return strings.Replace(s, "models:\n  - name: gpt-4o-mini\n    provider: openai\n    temperature: 0.0", "models: []", 1) },
			wantErr: "no models",
		},
		{
			name:    "threshold out of range",
			mutate:  func(s string) string { return strings.Replace(s, "success_threshold: 0.8", "success_threshold: 1.5", 1) },
			wantErr: "out of range",
		},
		{
			name:    "missing question",
			mutate:  func(s string) string { return strings.Replace(s, `question: "What is the capital of France?"`, `question: ""`, 1) },
			wantErr: "input.question is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.mutate(minimalConfig)))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseConfigDefaultsSamples(t *testing.T) {
	cfg, err := ParseConfig([]byte(strings.Replace(minimalConfig, "samples: 3", "samples: 0", 1)))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.Eval.Samples != 1 {
		t.Errorf("expected samples to default to 1, got %d", cfg.Eval.Samples)
	}
}

func TestLLMJudgeRequiresJudgeModel(t *testing.T) {
	config := strings.Replace(minimalConfig, "  - type: contains", "  - type: llm_judge", 1)
	_, err := ParseConfig([]byte(config))
	if err == nil || !strings.Contains(err.Error(), "judge_model") {
		t.Fatalf("expected judge_model error, got %v", err)
	}
}
