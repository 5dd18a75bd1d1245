// Package cost accumulates token usage and derives a monetary cost per run.
package cost

import "sync"

// ModelRate holds per-model token pricing (USD per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Rates maps model IDs to their pricing.
type Rates map[string]ModelRate

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
		"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		"claude-opus-4-6":            {Input: 15.00, Output: 75.00},
	}
}

// Cost computes the cost for a call against the given model. Unknown models
// cost 0.
func (r Rates) Cost(model string, input, output int) float64 {
	rate, ok := r[model]
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*rate.Input + (float64(output)/1e6)*rate.Output
}

// Summary is the read-only usage view exposed to consumers at run end.
type Summary struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	TotalCost    float64 `json:"total_cost"`
}

// Tracker accumulates usage additively after each unit execution. Safe for
// concurrent use, although pipeline execution itself is sequential.
type Tracker struct {
	mu     sync.Mutex
	model  string
	rates  Rates
	input  int
	output int
	cost   float64
}

// NewTracker creates a tracker pricing against the given model.
func NewTracker(model string, rates Rates) *Tracker {
	if rates == nil {
		rates = DefaultRates()
	}
	return &Tracker{model: model, rates: rates}
}

// Track records one unit's token usage.
func (t *Tracker) Track(inputTokens, outputTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input += inputTokens
	t.output += outputTokens
	t.cost += t.rates.Cost(t.model, inputTokens, outputTokens)
}

// Summary returns the accumulated usage.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summary{
		InputTokens:  t.input,
		OutputTokens: t.output,
		TotalTokens:  t.input + t.output,
		TotalCost:    t.cost,
	}
}

// Reset clears the accumulated usage, for reuse across runs.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input, t.output, t.cost = 0, 0, 0
}
