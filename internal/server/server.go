// ABOUTME: HTTP surface for the question answering pipeline
// ABOUTME: Exposes POST /api/v1/ask plus a health endpoint over Fiber
package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"corpusqa/internal/models"
)

// QA answers questions against the loaded corpus. Satisfied by
// core.Pipeline.
type QA interface {
	Ask(ctx context.Context, question string) (models.Answer, error)
}

// Server wraps the Fiber app and its route handlers.
type Server struct {
	app *fiber.App
	qa  QA
}

// New builds the app with routes registered. The caller owns Listen
// and Shutdown.
func New(qa QA) *Server {
	app := fiber.New(fiber.Config{
		AppName: "corpusqa",
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	s := &Server{app: app, qa: qa}

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	api.Post("/ask", s.handleAsk)

	return s
}

// App exposes the underlying Fiber app, used by tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving HTTP on addr.
func (s *Server) Listen(addr string) error {
	slog.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleAsk(c fiber.Ctx) error {
	var body struct {
		Question string `json:"question"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	question := strings.TrimSpace(body.Question)
	if question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "question is required"})
	}

	answer, err := s.qa.Ask(c.Context(), question)
	if err != nil {
		slog.Error("ask failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "answer generation failed"})
	}

	return c.JSON(answer)
}
