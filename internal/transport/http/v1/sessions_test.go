package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/fudosan-ai/qualibot/internal/domain"
)

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func createTestSession(t *testing.T, e *echo.Echo, handler *Handler, language string) string {
	t.Helper()
	c, rec := postJSON(e, "/api/v1/sessions", `{"language":"`+language+`"}`)
	if err := handler.CreateSession(c); err != nil {
		t.Fatalf("CreateSession handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var session domain.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session.SessionID
}

func TestCreateSessionEndpoint(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	c, rec := postJSON(e, "/api/v1/sessions", `{"language":"en","user_id":"u1"}`)
	err := handler.CreateSession(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var session domain.Session
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.True(t, strings.HasPrefix(session.SessionID, "sess_"))
	assert.Equal(t, "en", session.Language)
	assert.Equal(t, domain.SessionStatusActive, session.Status)

	// Unsupported language maps to 422.
	c, rec = postJSON(e, "/api/v1/sessions", `{"language":"fr"}`)
	err = handler.CreateSession(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetSessionEndpoint(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)
	sessionID := createTestSession(t, e, handler, "ja")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	err := handler.GetSession(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Missing session maps to 404 with the machine code.
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/sessions/sess_nope", nil), httptest.NewRecorder())
	rec2 := httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/sessions/sess_nope", nil), rec2)
	c.SetParamNames("session_id")
	c.SetParamValues("sess_nope")
	err = handler.GetSession(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec2.Code)
	assert.Contains(t, rec2.Body.String(), domain.CodeSessionNotFound)
}

func TestDeleteSessionEndpoint(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)
	sessionID := createTestSession(t, e, handler, "ja")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+sessionID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	err := handler.DeleteSession(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Second delete is a 404.
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)
	err = handler.DeleteSession(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessageEndpoint(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)
	sessionID := createTestSession(t, e, handler, "ja")

	c, rec := postJSON(e, "/api/v1/sessions/"+sessionID+"/messages",
		`{"message":"東京で2LDKのマンションを買いたいです"}`)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	err := handler.SendMessage(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var result domain.TurnResult
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.Response)
	assert.Equal(t, "ja", result.Language)
	assert.Equal(t, sessionID, result.SessionID)

	// Unsafe content maps to 400 with the filter code.
	c, rec = postJSON(e, "/api/v1/sessions/"+sessionID+"/messages", `{"message":"this is a scam"}`)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)
	err = handler.SendMessage(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.CodeContentFilter)
}

func TestGetMessagesEndpoint(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)
	sessionID := createTestSession(t, e, handler, "en")

	for i := 0; i < 2; i++ {
		c, rec := postJSON(e, "/api/v1/sessions/"+sessionID+"/messages", `{"message":"hello"}`)
		c.SetParamNames("session_id")
		c.SetParamValues(sessionID)
		assert.NoError(t, handler.SendMessage(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID+"/messages?limit=3&offset=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	err := handler.GetMessages(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var page domain.MessagePage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Messages, 3)
	assert.Equal(t, 3, page.Limit)
	assert.Equal(t, 1, page.Offset)
}

func TestSendMessageExpiredSessionEndpoint(t *testing.T) {
	e := echo.New()
	handler, db := newTestHandler(t)
	sessionID := createTestSession(t, e, handler, "ja")

	// Force the session out of the active state.
	assert.NoError(t, db.UpdateSessionStatus(context.Background(), sessionID, domain.SessionStatusExpired))

	c, rec := postJSON(e, "/api/v1/sessions/"+sessionID+"/messages", `{"message":"hello"}`)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)
	err := handler.SendMessage(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.CodeSessionExpired)
}
