package insight

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/report"
	"github.com/hollis-m/pocketwatch/internal/service"
)

// Generator implements report.InsightSource on top of a provider
// client, adding retry, rate limiting, and a TTL response cache. The
// cache is keyed by prompt hash: the prompt is deterministic and
// temperature is 0, so a repeated summary yields a repeated answer.
type Generator struct {
	client      Client
	cache       *ristretto.Cache
	rateLimiter *rateLimiter
	logger      *slog.Logger
	retryOpts   service.RetryOptions
	cacheTTL    time.Duration
}

// NewGenerator creates an insight generator around the given provider
// client.
func NewGenerator(client Client, cfg Config, logger *slog.Logger) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("insight client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create insight cache: %w", err)
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	return &Generator{
		client:      client,
		cache:       cache,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger,
		cacheTTL:    cacheTTL,
		retryOpts: service.RetryOptions{
			MaxAttempts:  cfg.MaxRetries,
			InitialDelay: cfg.RetryDelay,
		},
	}, nil
}

// Insights renders the prompt for a summary and asks the provider for
// advisory strings. Every failure path returns an empty list; report
// generation never fails because of the insight call.
func (g *Generator) Insights(ctx context.Context, summary report.Summary, periodLabel string) []string {
	prompt := BuildPrompt(summary, periodLabel)
	key := cacheKey(prompt)

	if cached, found := g.cache.Get(key); found {
		if insights, ok := cached.([]string); ok {
			g.logger.Debug("insight cache hit", "period", periodLabel)
			return insights
		}
	}

	if err := g.rateLimiter.wait(ctx); err != nil {
		common.LogError(err, "insight rate limiter interrupted", common.Fields{"period": periodLabel})
		return []string{}
	}

	var raw string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		raw, genErr = g.client.Generate(ctx, prompt)
		return genErr
	}, g.retryOpts)
	if err != nil {
		common.LogError(err, "insight generation failed", common.Fields{"period": periodLabel})
		return []string{}
	}

	insights, err := parseInsights(raw)
	if err != nil {
		common.LogError(err, "insight response unparseable", common.Fields{
			"period":   periodLabel,
			"response": truncate(raw, 200),
		})
		return []string{}
	}

	g.cache.SetWithTTL(key, insights, int64(len(prompt)), g.cacheTTL)

	return insights
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("%x", sum)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
