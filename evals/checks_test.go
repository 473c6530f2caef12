package evals

import (
	"context"
	"strings"
	"testing"

	"github.com/richinex/askdb/llm"
)

func TestContainsCheck(t *testing.T) {
	check := &containsCheck{name: "contains"}
	tc := TestCase{
		ID:       "capital",
		Input:    TestInput{Question: "What is the capital of France?"},
		Expected: Expected{MustContain: []string{"Paris", "France"}},
	}

	tests := []struct {
		name     string
		response string
		passed   bool
	}{
		{"all phrases present", "The capital of France is Paris.", true},
		{"case-insensitive match", "the capital of FRANCE is PARIS", true},
		{"missing phrase", "The capital is Paris.", false},
		{"empty response", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := check.Evaluate(context.Background(), tc, tt.response)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if result.Passed != tt.passed {
				t.Errorf("passed = %v, want %v (reason: %s)", result.Passed, tt.passed, result.Reason)
			}
		})
	}
}

func TestContainsCheckNoPhrasesAlwaysPasses(t *testing.T) {
	check := &containsCheck{name: "contains"}
	result, err := check.Evaluate(context.Background(), TestCase{ID: "empty"}, "anything")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !result.Passed {
		t.Error("expected pass with no expected phrases")
	}
}

func TestLLMJudgeCheck(t *testing.T) {
	tests := []struct {
		name    string
		verdict string
		passed  bool
		reason  string
	}{
		{
			name:    "plain json pass",
			verdict: `{"passed": true, "reasoning": "answer is correct"}`,
			passed:  true,
			reason:  "answer is correct",
		},
		{
			name:    "fenced json fail",
			verdict: "```json\n{\"passed\": false, \"reasoning\": \"answer is wrong\"}\n```",
			passed:  false,
			reason:  "answer is wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			judge := llm.NewClient(&stubProvider{
				answers: map[string]string{"": tt.verdict},
			})
			check := &llmJudgeCheck{name: "judge", judgeModel: "stub-model", judge: judge}
			tc := TestCase{
				ID:       "capital",
				Input:    TestInput{Question: "What is the capital of France?"},
				Expected: Expected{Criteria: "Names Paris as the capital"},
			}

			result, err := check.Evaluate(context.Background(), tc, "Paris.")
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if result.Passed != tt.passed {
				t.Errorf("passed = %v, want %v", result.Passed, tt.passed)
			}
			if result.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", result.Reason, tt.reason)
			}
			if result.Metadata["judge_model"] != "stub-model" {
				t.Errorf("missing judge_model metadata: %v", result.Metadata)
			}
		})
	}
}

func TestLLMJudgeCheckUnparseableVerdict(t *testing.T) {
	judge := llm.NewClient(&stubProvider{
		answers: map[string]string{"": "I refuse to answer in JSON."},
	})
	check := &llmJudgeCheck{name: "judge", judgeModel: "stub-model", judge: judge}

	_, err := check.Evaluate(context.Background(), TestCase{ID: "x"}, "response")
	if err == nil || !strings.Contains(err.Error(), "failed to parse judgement") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestBuildChecks(t *testing.T) {
	specs := []CheckSpec{
		{Type: CheckTypeContains, Metadata: map[string]string{"name": "Response Contains Expected"}},
		{Type: CheckTypeLLMJudge, Arguments: map[string]string{"judge_model": "stub-model"}},
	}

	judges := func(model, provider string) (*llm.Client, error) {
		if model != "stub-model" {
			t.Errorf("unexpected judge model %q", model)
		}
		if provider != "openai" {
			t.Errorf("expected default openai provider, got %q", provider)
		}
		return llm.NewClient(&stubProvider{}), nil
	}

	checks, err := BuildChecks(specs, judges)
	if err != nil {
		t.Fatalf("BuildChecks failed: %v", err)
	}
	if len(checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(checks))
	}
	if checks[0].Name() != "Response Contains Expected" {
		t.Errorf("metadata name not applied: %q", checks[0].Name())
	}
	if checks[1].Name() != "llm_judge" {
		t.Errorf("expected fallback name, got %q", checks[1].Name())
	}
}

func TestBuildChecksUnknownType(t *testing.T) {
	_, err := BuildChecks([]CheckSpec{{Type: "regex"}}, nil)
	if err == nil || !strings.Contains(err.Error(), `unknown check type "regex"`) {
		t.Fatalf("expected unknown check type error, got %v", err)
	}
}
