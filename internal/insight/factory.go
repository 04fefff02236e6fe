package insight

import (
	"fmt"
	"strings"

	"github.com/hollis-m/pocketwatch/internal/common"
)

// NewClient creates a provider client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return newGeminiClient(cfg)
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported insight provider %q: %w", cfg.Provider, common.ErrInvalidConfig)
	}
}
