// Package http assembles the HTTP server for the chatbot backend.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fudosan-ai/qualibot/config"
	"github.com/fudosan-ai/qualibot/internal/service"
	v1 "github.com/fudosan-ai/qualibot/internal/transport/http/v1"
)

// NewServer creates and configures the API server: request logging,
// panic recovery, CORS, per-client rate limiting and the v1 routes.
func NewServer(svc *service.Service, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(v1.RateLimitMiddleware(cfg.RateLimitPerMinute))

	// Handlers
	handler := v1.NewHandler(svc)
	handler.RegisterRoutes(e)

	return e
}
