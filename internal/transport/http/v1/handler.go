// Package v1 provides the HTTP handlers for the chatbot API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fudosan-ai/qualibot/internal/domain"
	"github.com/fudosan-ai/qualibot/internal/metrics"
	"github.com/fudosan-ai/qualibot/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers all routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	// Sessions and conversation
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions/:session_id", h.GetSession)
	api.DELETE("/sessions/:session_id", h.DeleteSession)
	api.POST("/sessions/:session_id/messages", h.SendMessage)
	api.GET("/sessions/:session_id/messages", h.GetMessages)

	// Briefs
	api.POST("/sessions/:session_id/brief", h.CreateBrief)
	api.GET("/sessions/:session_id/brief", h.GetSessionBrief)
	api.GET("/briefs/:brief_id", h.GetBrief)
	api.PATCH("/briefs/:brief_id", h.UpdateBrief)
	api.POST("/briefs/:brief_id/submit", h.SubmitBrief)

	// Affordability
	api.POST("/affordability", h.Affordability)

	// Glossary
	api.GET("/glossary/search", h.SearchGlossary)
	api.POST("/glossary", h.CreateGlossaryTerm)
	api.GET("/glossary/:term_id", h.GetGlossaryTerm)

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// writeError maps typed domain errors onto their HTTP status; anything
// untyped is a 500.
func writeError(c echo.Context, err error) error {
	if de, ok := domain.AsError(err); ok {
		metrics.RecordError(de.Code)
		return c.JSON(de.Status, de)
	}
	metrics.RecordError("INTERNAL_ERROR")
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": err.Error(),
	})
}
