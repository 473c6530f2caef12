// Client - wraps a Provider with call timing and cost accounting.

package llm

import (
	"context"
	"time"
)

// Client wraps a Provider. Every call is timed and returns a Usage record
// with token counts and costs for that single call.
type Client struct {
	provider Provider
}

// NewClient creates a new LLM client from a provider.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// Complete sends a chat completion request and returns the content with usage.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (string, Usage, error) {
	start := time.Now()
	response, err := c.provider.Chat(ctx, messages)
	if err != nil {
		return "", Usage{}, err
	}
	return response.Content, UsageFor(c.provider.Model(), response.Usage, time.Since(start)), nil
}

// CompleteWithFormat sends a chat completion request with a response format.
func (c *Client) CompleteWithFormat(ctx context.Context, messages []ChatMessage, format *ResponseFormat) (string, Usage, error) {
	start := time.Now()
	response, err := c.provider.ChatWithFormat(ctx, messages, format)
	if err != nil {
		return "", Usage{}, err
	}
	return response.Content, UsageFor(c.provider.Model(), response.Usage, time.Since(start)), nil
}

// CompleteWithTools sends a chat completion request with tool definitions.
// The full Response is returned so callers can inspect tool calls.
func (c *Client) CompleteWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition, choice ToolChoice) (Response, Usage, error) {
	start := time.Now()
	response, err := c.provider.ChatWithTools(ctx, messages, tools, choice)
	if err != nil {
		return Response{}, Usage{}, err
	}
	return response, UsageFor(c.provider.Model(), response.Usage, time.Since(start)), nil
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}
