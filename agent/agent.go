// SQL agent orchestration.
//
// Information Hiding: callers hand a Runner a Request and get a result
// struct back. Provider construction, tool-call decoding, and the
// two-phase call sequence stay behind this boundary.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/richinex/askdb/database"
	"github.com/richinex/askdb/llm"
)

// ProviderFactory builds a configured provider for an agent run.
// Swappable in tests to avoid network calls.
type ProviderFactory func(pt llm.ProviderType, model string, temperature float64) (llm.Provider, error)

// Runner executes agent requests against a provider built by Factory.
type Runner struct {
	// Factory builds providers. Nil uses environment-based construction.
	Factory ProviderFactory
}

// ParseProvider maps a provider name to its type. The agent accepts only
// "anthropic" and "openai"; other provider names are rejected here even
// when the llm package supports them.
func ParseProvider(name string) (llm.ProviderType, error) {
	switch strings.ToLower(name) {
	case "anthropic":
		return llm.ProviderAnthropic, nil
	case "openai":
		return llm.ProviderOpenAI, nil
	default:
		return 0, fmt.Errorf("unsupported provider %q", name)
	}
}

func defaultFactory(pt llm.ProviderType, model string, temperature float64) (llm.Provider, error) {
	builder := llm.NewProviderBuilder(pt).Temperature(float32(temperature))
	if model != "" {
		builder = builder.Model(model)
	}
	return builder.FromEnv()
}

func (r *Runner) client(req Request) (*llm.Client, error) {
	pt, err := ParseProvider(req.Provider)
	if err != nil {
		return nil, err
	}
	factory := r.Factory
	if factory == nil {
		factory = defaultFactory
	}
	provider, err := factory(pt, req.Model, req.Temperature)
	if err != nil {
		return nil, err
	}
	return llm.NewClient(provider), nil
}

// RunSQL answers a question about the store in two phases: a tool call
// generates SQL, the query runs locally, and a second model call phrases
// the answer from the raw rows.
//
// Query failures are data, not errors: they land in QueryResult.Error and
// the response phase explains them. Only model-call failures return an error.
func (r *Runner) RunSQL(ctx context.Context, req Request) (*SQLResult, error) {
	client, err := r.client(req)
	if err != nil {
		return nil, err
	}

	db := req.DB
	if db == nil {
		created, err := database.Create()
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
		db = created
		defer db.Close()
	}

	// Phase 1: force a generate_sql tool call.
	sqlMessages := []llm.ChatMessage{
		llm.SystemMessage(sqlSystemPrompt),
		llm.UserMessage(req.Question),
	}
	toolResponse, usage, err := client.CompleteWithTools(ctx, sqlMessages, []llm.ToolDefinition{generateSQLTool}, llm.ToolChoiceRequired)
	if err != nil {
		return nil, fmt.Errorf("SQL generation failed: %w", err)
	}

	predictions := make([]ToolPrediction, 0, len(toolResponse.ToolCalls))
	for _, call := range toolResponse.ToolCalls {
		predictions = append(predictions, ToolPrediction{
			ToolName:  call.Name,
			Arguments: call.Arguments,
		})
	}

	// A model that ignores the tool yields an empty query, which fails at
	// execution and gets explained in phase 2. No error here.
	query := extractSQL(toolResponse.ToolCalls)

	queryResult := db.Execute(ctx, query)

	// Phase 2: phrase an answer from the raw result.
	resultJSON, err := json.Marshal(queryResult)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query result: %w", err)
	}
	responseMessages := []llm.ChatMessage{
		llm.SystemMessage(responseSystemPrompt),
		llm.UserMessage(fmt.Sprintf("Question: %s\n\nSQL query: %s\n\nQuery results: %s", req.Question, query, resultJSON)),
	}
	answer, responseUsage, err := client.Complete(ctx, responseMessages)
	if err != nil {
		return nil, fmt.Errorf("response generation failed: %w", err)
	}
	usage.Add(responseUsage)

	return &SQLResult{
		ToolPredictions: predictions,
		PredictionCount: len(predictions),
		SQLQuery:        query,
		QueryResult:     queryResult,
		QuerySuccess:    queryResult.OK(),
		Response:        answer,
		ModelName:       client.Provider().Model(),
		Provider:        client.Provider().Name(),
		Temperature:     req.Temperature,
		Usage:           usage,
	}, nil
}

// RunSimple answers a question with a single model call and no database.
// Used as an evaluation baseline against the SQL agent.
func (r *Runner) RunSimple(ctx context.Context, req Request) (*SimpleResult, error) {
	client, err := r.client(req)
	if err != nil {
		return nil, err
	}

	messages := []llm.ChatMessage{
		llm.SystemMessage(simpleSystemPrompt),
		llm.UserMessage(req.Question),
	}
	answer, usage, err := client.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("response generation failed: %w", err)
	}

	return &SimpleResult{
		Response:    answer,
		ModelName:   client.Provider().Model(),
		Temperature: req.Temperature,
		Usage:       usage,
	}, nil
}

// extractSQL pulls the query string out of the first generate_sql call.
// Missing calls, malformed arguments, or an absent field all degrade to
// an empty query.
func extractSQL(calls []llm.ToolCall) string {
	for _, call := range calls {
		if call.Name != generateSQLTool.Name {
			continue
		}
		var args struct {
			SQL string `json:"sql"`
		}
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return ""
		}
		return stripSQLFences(args.SQL)
	}
	return ""
}

// stripSQLFences removes markdown code fences some models wrap around SQL.
func stripSQLFences(query string) string {
	trimmed := strings.TrimSpace(query)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```sql")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
