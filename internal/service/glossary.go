package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fudosan-ai/qualibot/internal/domain"
	"github.com/fudosan-ai/qualibot/internal/lang"
)

// CreateTerm adds a glossary entry.
func (s *Service) CreateTerm(ctx context.Context, term *domain.GlossaryTerm) (*domain.GlossaryTerm, error) {
	term.Term = strings.TrimSpace(term.Term)
	if term.Term == "" || term.Translation == "" || term.Explanation == "" {
		return nil, domain.ErrValidation("Term, translation and explanation are required", nil)
	}
	switch term.Language {
	case lang.Japanese, lang.English, lang.Vietnamese:
	default:
		return nil, domain.ErrValidation("Unsupported language", map[string]any{"language": term.Language})
	}

	existing, err := s.store.GetTermByTerm(ctx, term.Term, term.Language)
	if err != nil {
		return nil, domain.ErrDatabase(err)
	}
	if existing != nil {
		return nil, domain.ErrValidation("Term already exists for this language", map[string]any{
			"term":     term.Term,
			"language": term.Language,
		})
	}

	now := time.Now()
	term.TermID = "term_" + uuid.New().String()[:8]
	term.UsageCount = 0
	term.CreatedAt = now
	term.UpdatedAt = now
	if err := s.store.CreateTerm(ctx, term); err != nil {
		return nil, domain.ErrDatabase(err)
	}
	return term, nil
}

// GetTerm returns a glossary entry by id and counts the lookup.
func (s *Service) GetTerm(ctx context.Context, termID string) (*domain.GlossaryTerm, error) {
	term, err := s.store.GetTerm(ctx, termID)
	if err != nil {
		return nil, domain.ErrDatabase(err)
	}
	if term == nil {
		return nil, domain.ErrTermNotFound(termID)
	}
	// Usage tracking is best effort.
	_ = s.store.IncrementTermUsage(ctx, termID)
	return term, nil
}

// SearchTerms finds glossary entries matching a substring of the term or
// its translation, optionally restricted to a language.
func (s *Service) SearchTerms(ctx context.Context, query, language string, limit int) ([]domain.GlossaryTerm, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrValidation("Search query is required", nil)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	terms, err := s.store.SearchTerms(ctx, query, language, limit)
	if err != nil {
		return nil, domain.ErrDatabase(err)
	}
	return terms, nil
}
