package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/model"
	"github.com/hollis-m/pocketwatch/internal/report"
)

const dateLayout = "2006-01-02"

type generateReportRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Email bool   `json:"email"`
}

type updateReportSettingsRequest struct {
	IsEnabled *bool   `json:"isEnabled"`
	Email     *string `json:"email"`
	Name      *string `json:"name"`
}

func (s *Server) generateReport(c *fiber.Ctx) error {
	userID := userFromCtx(c)

	var body generateReportRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	from, err := time.Parse(dateLayout, body.From)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, body.To)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return fiber.NewError(fiber.StatusBadRequest, "to must not precede from")
	}
	// The window is inclusive of the whole end day.
	to = to.Add(24*time.Hour - time.Nanosecond)

	opts := report.Options{Frequency: "MANUAL"}
	if body.Email {
		setting, err := s.store.GetReportSetting(c.UserContext(), userID)
		if errors.Is(err, common.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "report settings not found")
		}
		if err != nil {
			return err
		}
		if setting.Email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "no email configured")
		}
		opts.SendEmail = true
		opts.Recipient = setting.Email
		opts.Username = setting.Name
	}

	generated, err := s.reports.Generate(c.UserContext(), userID, from, to, opts)
	if errors.Is(err, common.ErrNoActivity) {
		return c.JSON(fiber.Map{"message": "no transactions found", "data": nil})
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": generated})
}

func (s *Server) listReports(c *fiber.Ctx) error {
	userID := userFromCtx(c)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("pageSize", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	result, err := s.store.GetReports(c.UserContext(), userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data":       result.Reports,
		"page":       page,
		"pageSize":   pageSize,
		"totalCount": result.TotalCount,
	})
}

func (s *Server) updateReportSettings(c *fiber.Ctx) error {
	userID := userFromCtx(c)

	var body updateReportSettingsRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	setting, err := s.store.GetReportSetting(c.UserContext(), userID)
	if errors.Is(err, common.ErrNotFound) {
		setting = &model.ReportSetting{
			UserID:    userID,
			Frequency: model.FrequencyMonthly,
		}
	} else if err != nil {
		return err
	}

	if body.IsEnabled != nil {
		setting.IsEnabled = *body.IsEnabled
	}
	if body.Email != nil {
		setting.Email = *body.Email
	}
	if body.Name != nil {
		setting.Name = *body.Name
	}

	if setting.IsEnabled {
		// A stale date from an earlier enable would fire immediately.
		if setting.NextReportDate == nil || setting.NextReportDate.Before(time.Now()) {
			next := report.NextReportDate(time.Now())
			setting.NextReportDate = &next
		}
	} else {
		setting.NextReportDate = nil
	}

	if err := s.store.UpsertReportSetting(c.UserContext(), setting); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"isEnabled":      setting.IsEnabled,
		"email":          setting.Email,
		"name":           setting.Name,
		"frequency":      setting.Frequency,
		"nextReportDate": setting.NextReportDate,
	})
}
