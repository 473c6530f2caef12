// Package json extracts JSON objects from LLM responses.
//
// Models frequently wrap JSON in markdown fences or surround it with
// commentary even when asked for a bare object. This package digs the
// object out before unmarshalling.
package json

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON finds the JSON object portion of a response string.
// Handles three shapes: a pure JSON response, JSON inside markdown
// fences, and an object embedded in surrounding text (first '{' to
// last '}').
//
// Only objects are handled, not arrays, and the brace matching is
// simple: unbalanced braces inside strings can defeat it.
func extractJSON(response string) (string, error) {
	response = stripFences(response)

	var probe interface{}
	if err := json.Unmarshal([]byte(response), &probe); err == nil {
		return response, nil
	}

	start := strings.Index(response, "{")
	if start != -1 {
		end := strings.LastIndex(response, "}")
		if end > start {
			candidate := response[start : end+1]
			if err := json.Unmarshal([]byte(candidate), &probe); err == nil {
				return candidate, nil
			}
		}
	}

	preview := response
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("failed to extract valid JSON from response: %q", preview)
}

// stripFences removes a surrounding markdown code block, if any.
func stripFences(response string) string {
	trimmed := strings.TrimSpace(response)

	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```json"))
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	}

	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}

	return trimmed
}

// ExtractJSONFromResponse extracts a JSON object from an LLM response
// and unmarshals it into T.
func ExtractJSONFromResponse[T any](response string) (T, error) {
	var result T
	jsonStr, err := extractJSON(response)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}
