package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/model"
)

// GetThresholdSetting returns the user's threshold setting, or
// common.ErrNotFound when none is configured.
func (s *SQLiteStorage) GetThresholdSetting(ctx context.Context, userID string) (*model.ThresholdSetting, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var setting model.ThresholdSetting
	var thresholdType string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, threshold_type, amount, reward_points, last_reset, updated_at
		FROM threshold_settings
		WHERE user_id = ?
	`, userID).Scan(
		&setting.UserID,
		&thresholdType,
		&setting.Amount,
		&setting.RewardPoints,
		&setting.LastReset,
		&setting.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get threshold setting: %w", err)
	}

	setting.Type = model.ThresholdType(thresholdType)
	return &setting, nil
}

// UpsertThresholdSetting inserts or updates the user's threshold
// configuration. Reward points and last reset are preserved on update.
func (s *SQLiteStorage) UpsertThresholdSetting(ctx context.Context, setting *model.ThresholdSetting) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if setting == nil {
		return fmt.Errorf("setting must not be nil")
	}
	if err := validateString(setting.UserID, "userID"); err != nil {
		return err
	}
	if !setting.Type.Valid() {
		return fmt.Errorf("%w: unknown threshold type %q", common.ErrInvalidInput, setting.Type)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO threshold_settings (user_id, threshold_type, amount, reward_points, last_reset, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			threshold_type = excluded.threshold_type,
			amount = excluded.amount,
			updated_at = excluded.updated_at
	`, setting.UserID, string(setting.Type), setting.Amount, time.Now().UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert threshold setting: %w", err)
	}

	return nil
}

// AddRewardPoints atomically adds delta to the user's running reward
// points and returns the new total. Concurrent scoring for the same
// user must not lose updates, so this is a single UPDATE rather than a
// read-modify-write.
func (s *SQLiteStorage) AddRewardPoints(ctx context.Context, userID string, delta int64) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}

	var total int64
	err := s.db.QueryRowContext(ctx, `
		UPDATE threshold_settings
		SET reward_points = reward_points + ?, updated_at = ?
		WHERE user_id = ?
		RETURNING reward_points
	`, delta, time.Now().UTC(), userID).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add reward points: %w", err)
	}

	return total, nil
}
