package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fudosan-ai/qualibot/internal/domain"
	"github.com/fudosan-ai/qualibot/internal/service"
)

type createBriefRequest struct {
	PropertyType domain.PropertyType `json:"property_type"`
}

// CreateBrief creates the session's brief, or returns the existing one.
// POST /api/v1/sessions/:session_id/brief
func (h *Handler) CreateBrief(c echo.Context) error {
	var req createBriefRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.ErrInvalidMessage("Invalid request body"))
	}

	brief, err := h.service.CreateBrief(c.Request().Context(), c.Param("session_id"), req.PropertyType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, brief)
}

// GetSessionBrief retrieves the brief belonging to a session.
// GET /api/v1/sessions/:session_id/brief
func (h *Handler) GetSessionBrief(c echo.Context) error {
	brief, err := h.service.GetBriefBySession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, brief)
}

// GetBrief retrieves a brief by id.
// GET /api/v1/briefs/:brief_id
func (h *Handler) GetBrief(c echo.Context) error {
	brief, err := h.service.GetBrief(c.Request().Context(), c.Param("brief_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, brief)
}

// UpdateBrief applies a partial update.
// PATCH /api/v1/briefs/:brief_id
func (h *Handler) UpdateBrief(c echo.Context) error {
	var patch service.BriefPatch
	if err := c.Bind(&patch); err != nil {
		return writeError(c, domain.ErrInvalidMessage("Invalid request body"))
	}

	brief, err := h.service.UpdateBrief(c.Request().Context(), c.Param("brief_id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, brief)
}

// SubmitBrief validates and submits a brief.
// POST /api/v1/briefs/:brief_id/submit
func (h *Handler) SubmitBrief(c echo.Context) error {
	brief, err := h.service.SubmitBrief(c.Request().Context(), c.Param("brief_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, brief)
}

type affordabilityRequest struct {
	AnnualIncome float64  `json:"annual_income"`
	DownPayment  float64  `json:"down_payment"`
	InterestRate *float64 `json:"interest_rate"`
	LoanYears    *int     `json:"loan_years"`
}

// Affordability estimates the affordable price range for a buyer.
// POST /api/v1/affordability
func (h *Handler) Affordability(c echo.Context) error {
	var req affordabilityRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.ErrInvalidMessage("Invalid request body"))
	}

	// Absent optional fields take the standard defaults; an explicit
	// zero interest rate is honored.
	interestRate := service.DefaultInterestRate
	if req.InterestRate != nil {
		interestRate = *req.InterestRate
	}
	loanYears := service.DefaultLoanYears
	if req.LoanYears != nil {
		loanYears = *req.LoanYears
	}

	result, err := service.CalculateAffordability(req.AnnualIncome, req.DownPayment, interestRate, loanYears)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
