package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fudosan-ai/qualibot/internal/domain"
)

// SearchGlossary finds glossary terms by substring.
// GET /api/v1/glossary/search?q=&language=&limit=
func (h *Handler) SearchGlossary(c echo.Context) error {
	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	terms, err := h.service.SearchTerms(c.Request().Context(), c.QueryParam("q"), c.QueryParam("language"), limit)
	if err != nil {
		return writeError(c, err)
	}
	if terms == nil {
		terms = []domain.GlossaryTerm{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"terms": terms,
		"total": len(terms),
	})
}

// CreateGlossaryTerm adds a glossary entry.
// POST /api/v1/glossary
func (h *Handler) CreateGlossaryTerm(c echo.Context) error {
	var term domain.GlossaryTerm
	if err := c.Bind(&term); err != nil {
		return writeError(c, domain.ErrInvalidMessage("Invalid request body"))
	}

	created, err := h.service.CreateTerm(c.Request().Context(), &term)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// GetGlossaryTerm retrieves a glossary entry.
// GET /api/v1/glossary/:term_id
func (h *Handler) GetGlossaryTerm(c echo.Context) error {
	term, err := h.service.GetTerm(c.Request().Context(), c.Param("term_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, term)
}
