package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hollis-m/pocketwatch/internal/currency"
	"github.com/hollis-m/pocketwatch/internal/model"
	"github.com/hollis-m/pocketwatch/internal/reward"
	"github.com/hollis-m/pocketwatch/internal/service"
)

type createTransactionRequest struct {
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Title         string  `json:"title"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
	Date          string  `json:"date"`
}

type transactionResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"paymentMethod"`
	Date          time.Time `json:"date"`
}

func toTransactionResponse(t model.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Type:          string(t.Type),
		Amount:        currency.ToMajorUnits(t.Amount),
		Title:         t.Title,
		Category:      t.Category,
		PaymentMethod: string(t.PaymentMethod),
		Date:          t.Date,
	}
}

func (s *Server) createTransaction(c *fiber.Ctx) error {
	userID := userFromCtx(c)

	var body createTransactionRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	txnType := model.TransactionType(body.Type)
	if !txnType.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "type must be INCOME or EXPENSE")
	}
	if body.Amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
	}
	if body.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}

	date := time.Now()
	if body.Date != "" {
		parsed, err := time.Parse(time.RFC3339, body.Date)
		if err != nil {
			parsed, err = time.Parse(dateLayout, body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be RFC3339 or YYYY-MM-DD")
			}
		}
		date = parsed
	}

	paymentMethod := model.PaymentMethod(body.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = model.PaymentOther
	}

	txn := model.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Type:          txnType,
		Amount:        currency.ToMinorUnits(body.Amount),
		Title:         body.Title,
		Category:      body.Category,
		PaymentMethod: paymentMethod,
		Date:          date,
	}
	txn.Hash = txn.GenerateHash()

	if err := s.store.SaveTransactions(c.UserContext(), []model.Transaction{txn}); err != nil {
		return err
	}

	resp := fiber.Map{"data": toTransactionResponse(txn)}

	// Every recorded transaction re-scores the period threshold
	// inline. A scoring failure never fails the recorded transaction.
	if s.scorer != nil {
		outcome, err := s.scorer.Evaluate(c.UserContext(), userID)
		if err != nil {
			s.logger.Error("reward evaluation failed", "user_id", userID, "error", err)
		} else if outcome.Status == reward.StatusScored {
			resp["reward"] = fiber.Map{
				"delta": outcome.Delta,
				"total": outcome.Total,
			}
		}
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (s *Server) listTransactions(c *fiber.Ctx) error {
	userID := userFromCtx(c)

	filter := service.TransactionFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}

	if v := c.Query("from"); v != "" {
		from, err := time.Parse(dateLayout, v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		filter.StartDate = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(dateLayout, v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &to
	}
	if v := c.Query("type"); v != "" {
		txnType := model.TransactionType(v)
		if !txnType.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "type must be INCOME or EXPENSE")
		}
		filter.Type = txnType
	}

	txns, err := s.store.GetTransactions(c.UserContext(), userID, filter)
	if err != nil {
		return err
	}

	items := make([]transactionResponse, 0, len(txns))
	for _, t := range txns {
		items = append(items, toTransactionResponse(t))
	}

	return c.JSON(fiber.Map{"items": items})
}
