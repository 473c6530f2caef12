package evals

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/richinex/askdb/llm"
)

// stubProvider answers based on the question in the last user message,
// so different test cases get different canned responses.
type stubProvider struct {
	answers map[string]string // question substring -> reply
	toolSQL string
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-model" }

func (s *stubProvider) replyFor(messages []llm.ChatMessage) string {
	var question string
	for _, m := range messages {
		if m.Role == "user" {
			question = m.Content
		}
	}
	for substr, reply := range s.answers {
		if strings.Contains(question, substr) {
			return reply
		}
	}
	return "I don't know."
}

func (s *stubProvider) Chat(ctx context.Context, messages []llm.ChatMessage) (llm.Response, error) {
	return llm.Response{
		Content: s.replyFor(messages),
		Usage:   &llm.TokenUsage{PromptTokens: 50, CompletionTokens: 10, TotalTokens: 60},
	}, nil
}

func (s *stubProvider) ChatWithFormat(ctx context.Context, messages []llm.ChatMessage, format *llm.ResponseFormat) (llm.Response, error) {
	return s.Chat(ctx, messages)
}

func (s *stubProvider) ChatWithTools(ctx context.Context, messages []llm.ChatMessage, tools []llm.ToolDefinition, choice llm.ToolChoice) (llm.Response, error) {
	args, _ := json.Marshal(map[string]string{"sql": s.toolSQL})
	return llm.Response{
		ToolCalls: []llm.ToolCall{{ID: "call-1", Name: "generate_sql", Arguments: args}},
		Usage:     &llm.TokenUsage{PromptTokens: 80, CompletionTokens: 15, TotalTokens: 95},
	}, nil
}
