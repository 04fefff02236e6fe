// Package insight generates natural-language advisory strings from a
// financial summary by delegating to an external generative-AI text
// endpoint. All provider failures degrade to an empty insight list;
// they are logged, never raised.
package insight

import (
	"context"
	"time"
)

// Client defines the interface for generative text providers. Generate
// returns the raw response text for a prompt; parsing happens upstream.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for the insight generator and its
// provider client. The client is constructed and injected explicitly;
// there is no process-wide provider state.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int
	CacheTTL    time.Duration
}

const systemPrompt = "You are a personal finance advisor. You MUST respond with ONLY a valid JSON array of short advisory strings. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON."
