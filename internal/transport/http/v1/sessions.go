package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fudosan-ai/qualibot/internal/domain"
)

type createSessionRequest struct {
	Language string            `json:"language"`
	UserID   string            `json:"user_id"`
	Metadata map[string]string `json:"metadata"`
}

// CreateSession starts a new conversation session.
// POST /api/v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.ErrInvalidMessage("Invalid request body"))
	}

	session, err := h.service.CreateSession(c.Request().Context(), req.Language, req.UserID, req.Metadata)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

// GetSession retrieves a session.
// GET /api/v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.service.GetSession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// DeleteSession removes a session and everything it owns.
// DELETE /api/v1/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.service.DeleteSession(c.Request().Context(), c.Param("session_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
