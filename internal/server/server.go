// Package server exposes the HTTP API on fiber. Authentication is a
// pluggable collaborator; the default resolves the user from the
// X-User-ID header so the API can sit behind any identity proxy.
package server

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/report"
	"github.com/hollis-m/pocketwatch/internal/reward"
	"github.com/hollis-m/pocketwatch/internal/service"
)

// AuthFunc resolves the authenticated user for a request. Returning an
// empty userID or an error rejects the request with 401.
type AuthFunc func(c *fiber.Ctx) (string, error)

// HeaderAuth authenticates from the X-User-ID header.
func HeaderAuth(c *fiber.Ctx) (string, error) {
	return strings.TrimSpace(c.Get("X-User-ID")), nil
}

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	store   service.Storage
	reports *report.Service
	scorer  *reward.Scorer
	auth    AuthFunc
	logger  *slog.Logger
	app     *fiber.App
}

// New builds the fiber app with all routes registered. auth may be nil,
// in which case HeaderAuth is used.
func New(store service.Storage, reports *report.Service, scorer *reward.Scorer, auth AuthFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if auth == nil {
		auth = HeaderAuth
	}

	s := &Server{
		store:   store,
		reports: reports,
		scorer:  scorer,
		auth:    auth,
		logger:  logger,
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	api := s.app.Group("/api", s.requireUser)
	api.Post("/reports/generate", s.generateReport)
	api.Get("/reports", s.listReports)
	api.Put("/reports/settings", s.updateReportSettings)
	api.Put("/thresholds", s.upsertThreshold)
	api.Get("/thresholds/progress", s.thresholdProgress)
	api.Post("/transactions", s.createTransaction)
	api.Get("/transactions", s.listTransactions)

	return s
}

// App exposes the underlying fiber app for tests and embedding.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves the API on addr and blocks until shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) requireUser(c *fiber.Ctx) error {
	userID, err := s.auth(c)
	if err != nil || userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	c.Locals("user_id", userID)
	return c.Next()
}

func userFromCtx(c *fiber.Ctx) string {
	if v, ok := c.Locals("user_id").(string); ok {
		return v
	}
	return ""
}

// errorHandler maps application errors onto the API taxonomy: 400 for
// validation, 404 for missing records, 500 otherwise.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.Is(err, common.ErrInvalidInput):
		code = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, common.ErrNotFound):
		code = fiber.StatusNotFound
		message = err.Error()
	default:
		common.LogError(err, "request failed", common.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		})
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
