// Check implementations: rule-based response matching and LLM judging.

package evals

import (
	"context"
	"fmt"
	"strings"

	ijson "github.com/richinex/askdb/internal/json"
	"github.com/richinex/askdb/llm"
)

// Supported check types.
const (
	CheckTypeContains = "contains"
	CheckTypeLLMJudge = "llm_judge"
)

// CheckResult is the outcome of one check against one agent response.
type CheckResult struct {
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Passed   bool              `json:"passed"`
	Reason   string            `json:"reason,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`

	// Usage is the judge-call cost for llm_judge checks, zero otherwise.
	Usage llm.Usage `json:"usage"`
}

// Check scores an agent response against a test case's expectations.
type Check interface {
	Name() string
	Evaluate(ctx context.Context, tc TestCase, response string) (CheckResult, error)
}

// JudgeFactory builds an LLM client for judging.
// Swappable in tests to avoid network calls.
type JudgeFactory func(model, provider string) (*llm.Client, error)

func defaultJudgeFactory(model, provider string) (*llm.Client, error) {
	pt, err := llm.ParseProviderType(provider)
	if err != nil {
		return nil, err
	}
	p, err := llm.NewProviderBuilder(pt).Model(model).Temperature(0).FromEnv()
	if err != nil {
		return nil, err
	}
	return llm.NewClient(p), nil
}

// BuildChecks constructs check instances from validated specs. A nil judges
// factory binds llm_judge checks to environment-configured clients.
func BuildChecks(specs []CheckSpec, judges JudgeFactory) ([]Check, error) {
	if judges == nil {
		judges = defaultJudgeFactory
	}

	checks := make([]Check, 0, len(specs))
	for i, spec := range specs {
		switch spec.Type {
		case CheckTypeContains:
			checks = append(checks, &containsCheck{name: checkName(spec, "contains")})
		case CheckTypeLLMJudge:
			model := spec.Arguments["judge_model"]
			provider := spec.Arguments["judge_provider"]
			if provider == "" {
				provider = "openai"
			}
			judge, err := judges(model, provider)
			if err != nil {
				return nil, fmt.Errorf("check %d: failed to create judge: %w", i, err)
			}
			checks = append(checks, &llmJudgeCheck{
				name:       checkName(spec, "llm_judge"),
				judgeModel: model,
				judge:      judge,
			})
		default:
			return nil, fmt.Errorf("check %d: unknown check type %q", i, spec.Type)
		}
	}
	return checks, nil
}

func checkName(spec CheckSpec, fallback string) string {
	if n := spec.Metadata["name"]; n != "" {
		return n
	}
	return fallback
}

// containsCheck passes when every expected phrase appears in the response,
// compared case-insensitively.
type containsCheck struct {
	name string
}

func (c *containsCheck) Name() string { return c.name }

func (c *containsCheck) Evaluate(ctx context.Context, tc TestCase, response string) (CheckResult, error) {
	result := CheckResult{Name: c.name, Type: CheckTypeContains, Passed: true}

	lower := strings.ToLower(response)
	var missing []string
	for _, phrase := range tc.Expected.MustContain {
		if !strings.Contains(lower, strings.ToLower(phrase)) {
			missing = append(missing, phrase)
		}
	}
	if len(missing) > 0 {
		result.Passed = false
		result.Reason = fmt.Sprintf("response missing expected phrases: %s", strings.Join(missing, ", "))
	}
	return result, nil
}

// Judgement is the structured verdict returned by the judge model.
type Judgement struct {
	Passed    bool   `json:"passed"`
	Reasoning string `json:"reasoning"`
}

const judgeSystemPrompt = "You are an evaluation judge. It is critical that you provide accurate " +
	"and fair assessments. Carefully read the prompt and provide a judgement " +
	"based on the criteria specified."

// llmJudgeCheck asks a judge model whether the response satisfies the
// test case's criteria. The verdict comes back as JSON.
type llmJudgeCheck struct {
	name       string
	judgeModel string
	judge      *llm.Client
}

func (c *llmJudgeCheck) Name() string { return c.name }

func (c *llmJudgeCheck) Evaluate(ctx context.Context, tc TestCase, response string) (CheckResult, error) {
	prompt := c.buildPrompt(tc, response)
	messages := []llm.ChatMessage{
		llm.SystemMessage(judgeSystemPrompt),
		llm.UserMessage(prompt),
	}

	content, usage, err := c.judge.CompleteWithFormat(ctx, messages, llm.NewJSONObjectFormat())
	if err != nil {
		return CheckResult{}, fmt.Errorf("judge call failed: %w", err)
	}

	judgement, err := ijson.ExtractJSONFromResponse[Judgement](content)
	if err != nil {
		return CheckResult{}, fmt.Errorf("failed to parse judgement: %w", err)
	}

	return CheckResult{
		Name:   c.name,
		Type:   CheckTypeLLMJudge,
		Passed: judgement.Passed,
		Reason: judgement.Reasoning,
		Usage:  usage,
		Metadata: map[string]string{
			"judge_model":   c.judgeModel,
			"input_tokens":  fmt.Sprintf("%d", usage.InputTokens),
			"output_tokens": fmt.Sprintf("%d", usage.OutputTokens),
			"total_cost":    fmt.Sprintf("%.6f", usage.TotalCost),
		},
	}, nil
}

func (c *llmJudgeCheck) buildPrompt(tc TestCase, response string) string {
	var b strings.Builder
	b.WriteString("Evaluate the following response against the criteria.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", tc.Input.Question)
	fmt.Fprintf(&b, "Response: %s\n\n", response)
	if tc.Expected.Criteria != "" {
		fmt.Fprintf(&b, "Criteria: %s\n\n", tc.Expected.Criteria)
	}
	if len(tc.Expected.MustContain) > 0 {
		fmt.Fprintf(&b, "The response should convey: %s\n\n", strings.Join(tc.Expected.MustContain, "; "))
	}
	b.WriteString(`Reply with a JSON object: {"passed": true or false, "reasoning": "short explanation"}`)
	return b.String()
}
