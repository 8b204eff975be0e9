// Package server exposes the business API over HTTP.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"timestrap/internal/api"
	"timestrap/internal/auth"
	"timestrap/internal/config"
)

// Server is the HTTP front of the business API.
type Server struct {
	app    *fiber.App
	api    api.BusinessAPI
	tokens *auth.TokenManager
	config config.ServerConfig
	logger zerolog.Logger
}

// New creates a Server and registers its routes.
func New(businessAPI api.BusinessAPI, tokens *auth.TokenManager, cfg config.ServerConfig, logger zerolog.Logger) *Server {
	s := &Server{
		api:    businessAPI,
		tokens: tokens,
		config: cfg,
		logger: logger,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	s.app.Use(requestLogger(logger))
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	s.setupRoutes()
	return s
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until the server is shut down.
func (s *Server) Listen(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("HTTP server started")
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	h := NewHandlers(s.api)

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v := s.app.Group("/api")

	// Public routes
	v.Get("/shifts", h.Shifts)
	v.Post("/auth/login", h.Login)

	// Routes behind the token check
	protected := v.Group("")
	protected.Use(AuthMiddleware(s.tokens, s.config.RequireAuth))

	protected.Post("/worklogs", h.CreateWorklog)
	protected.Get("/worklogs", h.ListWorklogs)
	protected.Get("/worklogs/employee/:code", h.ListEmployeeWorklogs)
	protected.Get("/worklogs/:id", h.GetWorklog)
	protected.Put("/worklogs/:id", h.UpdateWorklog)
	protected.Delete("/worklogs/:id", h.DeleteWorklog)
	protected.Post("/worklogs/:id/time-entries", h.AddTimeEntry)
	protected.Put("/time-entries/:id", h.UpdateTimeEntry)
	protected.Delete("/time-entries/:id", h.DeleteTimeEntry)

	protected.Get("/timesheet/:code/:date", h.DaySummary)
	protected.Get("/analytics/:code/:date", h.DayAnalytics)
	protected.Post("/submit-timesheet", h.SubmitTimesheet)

	protected.Get("/export/excel/:table", h.ExportExcel)
	protected.Post("/export/send-email", h.SendExportEmail)
}
