// Model pricing tables and combined usage accounting.
//
// Costs are computed locally from published per-token rates; provider APIs
// report token counts but not dollar amounts.

package llm

import (
	"encoding/json"
	"time"
)

// Pricing holds USD rates per million tokens for a model.
type Pricing struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// pricing maps model identifiers to their rates.
// Models missing from this table cost zero; token counts are still tracked.
var pricing = map[string]Pricing{
	ModelOpenAIGPT4o:            {InputPerMTok: 2.50, OutputPerMTok: 10.00},
	ModelOpenAIGPT4oMini:        {InputPerMTok: 0.15, OutputPerMTok: 0.60},
	ModelOpenAIO3Mini:           {InputPerMTok: 1.10, OutputPerMTok: 4.40},
	ModelAnthropicClaudeSonnet4: {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	ModelAnthropicClaudeHaiku4:  {InputPerMTok: 0.80, OutputPerMTok: 4.00},
	ModelDeepSeekChat:           {InputPerMTok: 0.27, OutputPerMTok: 1.10},
	ModelDeepSeekReasoner:       {InputPerMTok: 0.55, OutputPerMTok: 2.19},
	ModelGeminiFlash2:           {InputPerMTok: 0.10, OutputPerMTok: 0.40},
	ModelGeminiFlash25:          {InputPerMTok: 0.30, OutputPerMTok: 2.50},
}

// PricingFor returns the pricing for a model and whether it is known.
func PricingFor(model string) (Pricing, bool) {
	p, ok := pricing[model]
	return p, ok
}

// Usage is the combined accounting record for one or more model calls:
// token counts, dollar costs, and wall-clock duration.
type Usage struct {
	InputTokens  uint32
	OutputTokens uint32
	InputCost    float64
	OutputCost   float64
	TotalCost    float64
	Duration     time.Duration
}

// MarshalJSON reports the duration in seconds rather than nanoseconds.
func (u Usage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		InputTokens     uint32  `json:"input_tokens"`
		OutputTokens    uint32  `json:"output_tokens"`
		InputCost       float64 `json:"input_cost"`
		OutputCost      float64 `json:"output_cost"`
		TotalCost       float64 `json:"total_cost"`
		DurationSeconds float64 `json:"duration_seconds"`
	}{u.InputTokens, u.OutputTokens, u.InputCost, u.OutputCost, u.TotalCost, u.Duration.Seconds()})
}

// UsageFor builds a Usage record for a single call against a model.
// A nil TokenUsage (provider did not report counts) yields zero tokens
// but still records the duration.
func UsageFor(model string, tokens *TokenUsage, duration time.Duration) Usage {
	u := Usage{Duration: duration}
	if tokens == nil {
		return u
	}
	u.InputTokens = tokens.PromptTokens
	u.OutputTokens = tokens.CompletionTokens

	p, ok := pricing[model]
	if !ok {
		return u
	}
	u.InputCost = float64(u.InputTokens) * p.InputPerMTok / 1e6
	u.OutputCost = float64(u.OutputTokens) * p.OutputPerMTok / 1e6
	u.TotalCost = u.InputCost + u.OutputCost
	return u
}

// Add merges another usage record into this one additively.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.InputCost += other.InputCost
	u.OutputCost += other.OutputCost
	u.TotalCost += other.TotalCost
	u.Duration += other.Duration
}
