package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the chatbot error taxonomy.
const (
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeSessionExpired  = "SESSION_EXPIRED"
	CodeInvalidMessage  = "INVALID_MESSAGE"
	CodeBriefNotFound   = "BRIEF_NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeContentFilter   = "CONTENT_FILTER_ERROR"
	CodeLLM             = "LLM_ERROR"
	CodeDatabase        = "DATABASE_ERROR"
	CodeCache           = "CACHE_ERROR"
	CodeRateLimit       = "RATE_LIMIT_EXCEEDED"
	CodeTermNotFound    = "TERM_NOT_FOUND"
)

// Error is a typed failure carrying a machine-readable code, a human
// message, the HTTP-equivalent status and a structured details map. The
// transport layer alone maps these to protocol responses.
type Error struct {
	Code    string         `json:"error"`
	Message string         `json:"message"`
	Status  int            `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsError unwraps err into a *Error if it is one.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func ErrSessionNotFound(sessionID string) *Error {
	return &Error{
		Code:    CodeSessionNotFound,
		Message: fmt.Sprintf("Session %s not found", sessionID),
		Status:  http.StatusNotFound,
		Details: map[string]any{"session_id": sessionID},
	}
}

func ErrSessionExpired(sessionID string) *Error {
	return &Error{
		Code:    CodeSessionExpired,
		Message: fmt.Sprintf("Session %s has expired", sessionID),
		Status:  http.StatusGone,
		Details: map[string]any{"session_id": sessionID},
	}
}

func ErrInvalidMessage(message string) *Error {
	return &Error{
		Code:    CodeInvalidMessage,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func ErrBriefNotFound(briefID string) *Error {
	return &Error{
		Code:    CodeBriefNotFound,
		Message: fmt.Sprintf("Brief %s not found", briefID),
		Status:  http.StatusNotFound,
		Details: map[string]any{"brief_id": briefID},
	}
}

func ErrBriefNotFoundForSession(sessionID string) *Error {
	return &Error{
		Code:    CodeBriefNotFound,
		Message: fmt.Sprintf("No brief found for session %s", sessionID),
		Status:  http.StatusNotFound,
		Details: map[string]any{"session_id": sessionID},
	}
}

func ErrTermNotFound(termID string) *Error {
	return &Error{
		Code:    CodeTermNotFound,
		Message: fmt.Sprintf("Glossary term %s not found", termID),
		Status:  http.StatusNotFound,
		Details: map[string]any{"term_id": termID},
	}
}

func ErrValidation(message string, details map[string]any) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Details: details,
	}
}

func ErrContentFilter(message string, details map[string]any) *Error {
	return &Error{
		Code:    CodeContentFilter,
		Message: message,
		Status:  http.StatusBadRequest,
		Details: details,
	}
}

func ErrDatabase(err error) *Error {
	return &Error{
		Code:    CodeDatabase,
		Message: err.Error(),
		Status:  http.StatusInternalServerError,
	}
}

func ErrCache(err error) *Error {
	return &Error{
		Code:    CodeCache,
		Message: err.Error(),
		Status:  http.StatusInternalServerError,
	}
}

func ErrLLM(message string) *Error {
	return &Error{
		Code:    CodeLLM,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

func ErrRateLimit() *Error {
	return &Error{
		Code:    CodeRateLimit,
		Message: "Rate limit exceeded",
		Status:  http.StatusTooManyRequests,
	}
}
