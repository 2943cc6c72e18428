// Package store defines the persistence interface and its SQLite
// implementation.
package store

import (
	"context"

	"github.com/fudosan-ai/qualibot/internal/domain"
)

// Store defines the interface for data persistence. Lookups return
// (nil, nil) when the entity does not exist.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	UpdateSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus) error
	IncrementTurnCount(ctx context.Context, sessionID string) error
	IncrementTokenCount(ctx context.Context, sessionID string, tokens int) error
	DeleteSession(ctx context.Context, sessionID string) (bool, error)
	GetActiveSessions(ctx context.Context, limit int) ([]domain.Session, error)
	GetExpiredSessions(ctx context.Context) ([]domain.Session, error)

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	GetMessagesBySession(ctx context.Context, sessionID string, limit, offset int) ([]domain.Message, error)
	GetRecentMessages(ctx context.Context, sessionID string, count int) ([]domain.Message, error)
	CountMessages(ctx context.Context, sessionID string) (int, error)

	// Brief operations
	CreateBrief(ctx context.Context, brief *domain.Brief) error
	GetBrief(ctx context.Context, briefID string) (*domain.Brief, error)
	GetBriefBySession(ctx context.Context, sessionID string) (*domain.Brief, error)
	UpdateBrief(ctx context.Context, brief *domain.Brief) error
	UpdateBriefStatus(ctx context.Context, briefID string, status domain.BriefStatus) error
	GetBriefsByStatus(ctx context.Context, status domain.BriefStatus, limit int) ([]domain.Brief, error)

	// Glossary operations
	CreateTerm(ctx context.Context, term *domain.GlossaryTerm) error
	GetTerm(ctx context.Context, termID string) (*domain.GlossaryTerm, error)
	GetTermByTerm(ctx context.Context, term, language string) (*domain.GlossaryTerm, error)
	SearchTerms(ctx context.Context, query, language string, limit int) ([]domain.GlossaryTerm, error)
	GetTermsByCategory(ctx context.Context, category, language string, limit int) ([]domain.GlossaryTerm, error)
	IncrementTermUsage(ctx context.Context, termID string) error

	// Lifecycle
	Close() error
}
