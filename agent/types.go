// Package agent provides the database Q&A agents.
//
// Contains the request and the two result variants. The SQL agent and the
// simple agent return structurally distinct types so callers and checks can
// tell them apart without inspecting loose maps.
package agent

import (
	"encoding/json"

	"github.com/richinex/askdb/database"
	"github.com/richinex/askdb/llm"
)

// Request describes a single agent invocation.
type Request struct {
	// Question is the natural-language question to answer.
	Question string

	// Model is the LLM model name. Empty uses the provider's default.
	Model string

	// Provider is the provider name ("anthropic" or "openai").
	Provider string

	// Temperature is the sampling temperature.
	Temperature float64

	// DB is an optional store. When nil the agent creates one and closes
	// it before returning; a supplied store is never closed.
	DB *database.DB
}

// ToolPrediction is the decoded output of one structured tool call.
type ToolPrediction struct {
	ToolName  string          `json:"tool_name"`
	Arguments json.RawMessage `json:"arguments"`
}

// SQLResult is the outcome of the two-phase SQL agent.
type SQLResult struct {
	ToolPredictions []ToolPrediction     `json:"tool_predictions"`
	PredictionCount int                  `json:"prediction_count"`
	SQLQuery        string               `json:"sql_query"`
	QueryResult     database.QueryResult `json:"query_result"`
	QuerySuccess    bool                 `json:"query_success"`
	Response        string               `json:"response"`
	ModelName       string               `json:"model_name"`
	Provider        string               `json:"model_provider"`
	Temperature     float64              `json:"temperature"`
	Usage           llm.Usage            `json:"usage"`
}

// SimpleResult is the outcome of the single-call agent.
type SimpleResult struct {
	Response    string    `json:"response"`
	ModelName   string    `json:"model_name"`
	Temperature float64   `json:"temperature"`
	Usage       llm.Usage `json:"usage"`
}

// Result is the common surface the evaluation checks need from either agent.
type Result interface {
	// ResponseText returns the natural-language answer.
	ResponseText() string

	// UsageTotals returns the merged usage for the invocation.
	UsageTotals() llm.Usage
}

// ResponseText returns the natural-language answer.
func (r *SQLResult) ResponseText() string { return r.Response }

// UsageTotals returns the merged usage across both model calls.
func (r *SQLResult) UsageTotals() llm.Usage { return r.Usage }

// ResponseText returns the natural-language answer.
func (r *SimpleResult) ResponseText() string { return r.Response }

// UsageTotals returns the usage for the single model call.
func (r *SimpleResult) UsageTotals() llm.Usage { return r.Usage }

var (
	_ Result = (*SQLResult)(nil)
	_ Result = (*SimpleResult)(nil)
)
