// Package domain defines the core domain models for the chatbot backend.
package domain

import (
	"time"
)

// SessionStatus represents the lifecycle status of a session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusExpired   SessionStatus = "expired"
	SessionStatusAbandoned SessionStatus = "abandoned"
)

// PropertyType represents the kind of property transaction a brief is about.
type PropertyType string

const (
	PropertyTypeBuy  PropertyType = "buy"
	PropertyTypeRent PropertyType = "rent"
	PropertyTypeSell PropertyType = "sell"
)

// BriefStatus represents the lifecycle status of a brief.
type BriefStatus string

const (
	BriefStatusDraft      BriefStatus = "draft"
	BriefStatusInProgress BriefStatus = "in_progress"
	BriefStatusCompleted  BriefStatus = "completed"
	BriefStatusSubmitted  BriefStatus = "submitted"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Session represents a conversation session. It exclusively owns its
// messages and its single brief; deleting a session cascades to both.
type Session struct {
	SessionID  string            `json:"session_id"`
	Status     SessionStatus     `json:"status"`
	Language   string            `json:"language"`
	UserID     string            `json:"user_id,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	TurnCount  int               `json:"turn_count"`
	TokenCount int               `json:"token_count"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	ExpiresAt  *time.Time        `json:"expires_at,omitempty"`
}

// Message represents a single message in a session. Messages are immutable
// once created and totally ordered by creation time within a session.
// NLU fields (intent, confidence, entities) are only set on user messages.
type Message struct {
	MessageID  string            `json:"message_id"`
	SessionID  string            `json:"session_id"`
	Role       string            `json:"role"`
	Content    string            `json:"content"`
	Language   string            `json:"language"`
	Intent     string            `json:"intent,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Entities   Entities          `json:"entities,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	TokenCount int               `json:"token_count"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Brief is the accumulating structured record of a user's property
// requirements for one session. One brief per session.
type Brief struct {
	BriefID      string       `json:"brief_id"`
	SessionID    string       `json:"session_id"`
	PropertyType PropertyType `json:"property_type"`
	Status       BriefStatus  `json:"status"`

	Location  *string  `json:"location"`
	BudgetMin *int64   `json:"budget_min"`
	BudgetMax *int64   `json:"budget_max"`
	Rooms     *string  `json:"rooms"`
	AreaMin   *float64 `json:"area_min"`
	AreaMax   *float64 `json:"area_max"`

	// Data holds additional structured fields beyond the typed columns
	// (asking_price, property_age, land_area and the like).
	Data map[string]any `json:"data"`
	// ExtractedEntities is the cumulative audit map of every entity ever
	// extracted during the session.
	ExtractedEntities Entities `json:"extracted_entities"`
	ValidationErrors  []string `json:"validation_errors,omitempty"`

	CompletenessScore float64  `json:"completeness_score"`
	LeadScore         *float64 `json:"lead_score"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// GlossaryTerm is a real-estate vocabulary entry with a translation and
// explanation in one language.
type GlossaryTerm struct {
	TermID      string    `json:"term_id"`
	Term        string    `json:"term"`
	Language    string    `json:"language"`
	Translation string    `json:"translation"`
	Explanation string    `json:"explanation"`
	Category    string    `json:"category,omitempty"`
	Synonyms    []string  `json:"synonyms,omitempty"`
	Examples    []string  `json:"examples,omitempty"`
	UsageCount  int       `json:"usage_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TurnResult is what the orchestrator returns for one completed user turn.
type TurnResult struct {
	MessageID  string   `json:"message_id"`
	SessionID  string   `json:"session_id"`
	Response   string   `json:"response"`
	Intent     string   `json:"intent,omitempty"`
	Confidence float64  `json:"confidence"`
	Entities   Entities `json:"entities,omitempty"`
	Language   string   `json:"language"`
}

// MessagePage is a paginated slice of a session's history in
// chronological order.
type MessagePage struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
	Total     int       `json:"total"`
	Limit     int       `json:"limit"`
	Offset    int       `json:"offset"`
}

// Affordability is the result of the mortgage affordability calculation.
type Affordability struct {
	AnnualIncome       float64 `json:"annual_income"`
	DownPayment        float64 `json:"down_payment"`
	MaxLoanAmount      float64 `json:"max_loan_amount"`
	MaxAffordablePrice float64 `json:"max_affordable_price"`
	MonthlyPayment     float64 `json:"monthly_payment"`
	InterestRate       float64 `json:"interest_rate"`
	LoanYears          int     `json:"loan_years"`
}
