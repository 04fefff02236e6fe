package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/model"
	"github.com/hollis-m/pocketwatch/internal/testutil"
)

func TestThresholdSetting_UpsertAndGet(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	_, err := store.GetThresholdSetting(ctx, "user-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	setting := &model.ThresholdSetting{
		UserID: "user-1",
		Type:   model.ThresholdMonthly,
		Amount: 1000,
	}
	if err := store.UpsertThresholdSetting(ctx, setting); err != nil {
		t.Fatalf("UpsertThresholdSetting: %v", err)
	}

	got, err := store.GetThresholdSetting(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetThresholdSetting: %v", err)
	}
	if got.Type != model.ThresholdMonthly || got.Amount != 1000 || got.RewardPoints != 0 {
		t.Errorf("setting = %+v", got)
	}
}

func TestThresholdSetting_UpdatePreservesPoints(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	setting := &model.ThresholdSetting{UserID: "user-1", Type: model.ThresholdDaily, Amount: 50}
	if err := store.UpsertThresholdSetting(ctx, setting); err != nil {
		t.Fatalf("UpsertThresholdSetting: %v", err)
	}

	if _, err := store.AddRewardPoints(ctx, "user-1", 30); err != nil {
		t.Fatalf("AddRewardPoints: %v", err)
	}

	setting.Type = model.ThresholdWeekly
	setting.Amount = 300
	if err := store.UpsertThresholdSetting(ctx, setting); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := store.GetThresholdSetting(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetThresholdSetting: %v", err)
	}
	if got.Type != model.ThresholdWeekly || got.Amount != 300 {
		t.Errorf("setting not updated: %+v", got)
	}
	if got.RewardPoints != 30 {
		t.Errorf("reward points = %d, want 30 (must survive reconfiguration)", got.RewardPoints)
	}
}

func TestAddRewardPoints(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	if _, err := store.AddRewardPoints(ctx, "nobody", 5); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unconfigured user, got %v", err)
	}

	setting := &model.ThresholdSetting{UserID: "user-1", Type: model.ThresholdMonthly, Amount: 1000}
	if err := store.UpsertThresholdSetting(ctx, setting); err != nil {
		t.Fatalf("UpsertThresholdSetting: %v", err)
	}

	total, err := store.AddRewardPoints(ctx, "user-1", 30)
	if err != nil {
		t.Fatalf("AddRewardPoints: %v", err)
	}
	if total != 30 {
		t.Errorf("total = %d, want 30", total)
	}

	// Points may go negative.
	total, err = store.AddRewardPoints(ctx, "user-1", -50)
	if err != nil {
		t.Fatalf("AddRewardPoints: %v", err)
	}
	if total != -20 {
		t.Errorf("total = %d, want -20", total)
	}
}

func TestUpsertThresholdSetting_InvalidType(t *testing.T) {
	store := testutil.SetupTestDB(t)

	err := store.UpsertThresholdSetting(context.Background(), &model.ThresholdSetting{
		UserID: "user-1",
		Type:   "YEARLY",
		Amount: 10,
	})
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
