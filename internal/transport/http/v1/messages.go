package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fudosan-ai/qualibot/internal/domain"
)

type sendMessageRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// SendMessage runs one conversation turn.
// POST /api/v1/sessions/:session_id/messages
func (h *Handler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.ErrInvalidMessage("Invalid request body"))
	}

	result, err := h.service.SendMessage(c.Request().Context(), c.Param("session_id"), req.Message, req.Language)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetMessages retrieves a chronological page of a session's history.
// GET /api/v1/sessions/:session_id/messages?limit=&offset=
func (h *Handler) GetMessages(c echo.Context) error {
	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	offset := 0
	if o := c.QueryParam("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil {
			offset = val
		}
	}

	page, err := h.service.GetMessages(c.Request().Context(), c.Param("session_id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
