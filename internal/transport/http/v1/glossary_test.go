package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/fudosan-ai/qualibot/internal/domain"
)

func createTestTerm(t *testing.T, e *echo.Echo, handler *Handler, body string) domain.GlossaryTerm {
	t.Helper()
	c, rec := postJSON(e, "/api/v1/glossary", body)
	if err := handler.CreateGlossaryTerm(c); err != nil {
		t.Fatalf("CreateGlossaryTerm handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var term domain.GlossaryTerm
	if err := json.Unmarshal(rec.Body.Bytes(), &term); err != nil {
		t.Fatalf("decode term: %v", err)
	}
	return term
}

func TestCreateGlossaryTermEndpoint(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	term := createTestTerm(t, e, handler,
		`{"term":"敷金","language":"ja","translation":"security deposit","explanation":"退去時に返還される預け金","category":"rental"}`)
	assert.True(t, strings.HasPrefix(term.TermID, "term_"))
	assert.Equal(t, "敷金", term.Term)
	assert.Equal(t, 0, term.UsageCount)

	// Missing translation maps to 422.
	c, rec := postJSON(e, "/api/v1/glossary", `{"term":"礼金","language":"ja"}`)
	assert.NoError(t, handler.CreateGlossaryTerm(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Duplicate term for the same language maps to 422.
	c, rec = postJSON(e, "/api/v1/glossary",
		`{"term":"敷金","language":"ja","translation":"deposit","explanation":"dup"}`)
	assert.NoError(t, handler.CreateGlossaryTerm(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.CodeValidation)
}

func TestGetGlossaryTermEndpoint(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	term := createTestTerm(t, e, handler,
		`{"term":"重要事項説明","language":"ja","translation":"explanation of important matters","explanation":"契約前の法定説明"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/glossary/"+term.TermID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("term_id")
	c.SetParamValues(term.TermID)

	assert.NoError(t, handler.GetGlossaryTerm(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Unknown term maps to 404 with the machine code.
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("term_id")
	c.SetParamValues("term_nope")
	assert.NoError(t, handler.GetGlossaryTerm(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.CodeTermNotFound)
}

func TestSearchGlossaryEndpoint(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	createTestTerm(t, e, handler,
		`{"term":"敷金","language":"ja","translation":"security deposit","explanation":"..."}`)
	createTestTerm(t, e, handler,
		`{"term":"security deposit","language":"en","translation":"敷金","explanation":"..."}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/glossary/search?q=deposit", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	assert.NoError(t, handler.SearchGlossary(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Terms []domain.GlossaryTerm `json:"terms"`
		Total int                   `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Total)

	// Language filter narrows the result.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/glossary/search?q=deposit&language=en", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	assert.NoError(t, handler.SearchGlossary(c))
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Total)

	// Empty query maps to 422.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/glossary/search", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	assert.NoError(t, handler.SearchGlossary(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
