package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/currency"
	"github.com/hollis-m/pocketwatch/internal/model"
	"github.com/hollis-m/pocketwatch/internal/reward"
)

type upsertThresholdRequest struct {
	ThresholdType string  `json:"thresholdType"`
	Amount        float64 `json:"amount"`
}

func (s *Server) upsertThreshold(c *fiber.Ctx) error {
	userID := userFromCtx(c)

	var body upsertThresholdRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	thresholdType := model.ThresholdType(body.ThresholdType)
	if !thresholdType.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "thresholdType must be DAILY, WEEKLY or MONTHLY")
	}
	if body.Amount < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amount must not be negative")
	}

	setting := &model.ThresholdSetting{
		UserID: userID,
		Type:   thresholdType,
		Amount: body.Amount,
	}
	if err := s.store.UpsertThresholdSetting(c.UserContext(), setting); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"thresholdType": setting.Type,
		"amount":        setting.Amount,
	})
}

func (s *Server) thresholdProgress(c *fiber.Ctx) error {
	userID := userFromCtx(c)
	ctx := c.UserContext()

	setting, err := s.store.GetThresholdSetting(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "threshold not configured")
	}
	if err != nil {
		return err
	}

	start := reward.PeriodStart(setting.Type, time.Now())
	spentMinor, err := s.store.SumExpensesSince(ctx, userID, start)
	if err != nil {
		return err
	}
	spent := currency.RoundMajor(currency.ToMajorUnits(spentMinor), 2)

	remaining := setting.Amount - spent
	if remaining < 0 {
		remaining = 0
	}

	var percentageUsed float64
	if setting.Amount > 0 {
		percentageUsed = currency.RoundMajor(spent/setting.Amount*100, 2)
	}

	return c.JSON(fiber.Map{
		"thresholdType":  setting.Type,
		"amount":         setting.Amount,
		"spent":          spent,
		"remaining":      currency.RoundMajor(remaining, 2),
		"percentageUsed": percentageUsed,
		"rewardPoints":   setting.RewardPoints,
		"periodStart":    start,
	})
}
