// Package reward scores period spending against a user's configured
// threshold and maintains the running reward point balance.
package reward

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/currency"
	"github.com/hollis-m/pocketwatch/internal/service"
)

// MaxPoints bounds the magnitude of a single evaluation's point delta.
const MaxPoints = 50

// Status tags an evaluation outcome so callers can tell "not configured"
// apart from "scored zero".
type Status string

const (
	// StatusSkipped means the user has no threshold configured.
	StatusSkipped Status = "SKIPPED"
	// StatusScored means the evaluation ran and points were applied.
	StatusScored Status = "SCORED"
)

// Outcome is the result of one reward evaluation.
type Outcome struct {
	Status Status
	// Spent is the period-to-date expense total in major units.
	Spent float64
	// Delta is the point change applied by this evaluation, in [-50, 50].
	Delta int64
	// Total is the running reward point balance after the delta.
	Total int64
}

// Scorer evaluates spending thresholds against recorded expenses.
type Scorer struct {
	store  service.Storage
	logger *slog.Logger
	now    func() time.Time
}

// NewScorer creates a reward scorer backed by the given storage.
func NewScorer(store service.Storage, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Evaluate scores the user's period-to-date spending after a transaction
// was recorded. A missing threshold setting yields a Skipped outcome,
// not an error; persistence failures propagate.
func (s *Scorer) Evaluate(ctx context.Context, userID string) (Outcome, error) {
	setting, err := s.store.GetThresholdSetting(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return Outcome{Status: StatusSkipped}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load threshold setting: %w", err)
	}

	start := PeriodStart(setting.Type, s.now())

	spentMinor, err := s.store.SumExpensesSince(ctx, userID, start)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to sum period expenses: %w", err)
	}
	spent := currency.RoundMajor(currency.ToMajorUnits(spentMinor), 2)

	delta := Delta(spent, setting.Amount)

	total, err := s.store.AddRewardPoints(ctx, userID, delta)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to apply reward points: %w", err)
	}

	s.logger.Debug("reward evaluated",
		"user_id", userID,
		"threshold_type", setting.Type,
		"spent", spent,
		"delta", delta,
		"total", total)

	return Outcome{
		Status: StatusScored,
		Spent:  spent,
		Delta:  delta,
		Total:  total,
	}, nil
}

// Delta converts period-to-date spend and the configured limit into a
// bounded point change. Spending well under the limit earns up to
// MaxPoints; landing exactly on the limit still earns the minimum of 1;
// overspending costs points in proportion to the overshoot, capped at
// -MaxPoints. A missing or non-positive limit scores nothing.
func Delta(spent, limit float64) int64 {
	if limit <= 0 {
		return 0
	}

	if spent <= limit {
		ratio := spent / limit
		points := int64(math.Round(MaxPoints * (1 - ratio)))
		if points < 1 {
			points = 1
		}
		return points
	}

	overRatio := (spent - limit) / limit
	penalty := int64(math.Round(MaxPoints * overRatio))
	if penalty > MaxPoints {
		penalty = MaxPoints
	}
	return -penalty
}
