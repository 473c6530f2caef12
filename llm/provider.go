// Package llm provides LLM provider abstractions.
//
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling

package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
// Implementations hide provider-specific details while exposing
// a consistent interface for chat completions.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Chat sends a chat completion request.
	Chat(ctx context.Context, messages []ChatMessage) (Response, error)

	// ChatWithFormat sends a chat completion request with a response format.
	ChatWithFormat(ctx context.Context, messages []ChatMessage, format *ResponseFormat) (Response, error)

	// ChatWithTools sends a chat completion request with tool definitions.
	// The choice policy controls whether the model must call a tool.
	// Tool calls come back in Response.ToolCalls.
	ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition, choice ToolChoice) (Response, error)
}
