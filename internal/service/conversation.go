package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fudosan-ai/qualibot/internal/domain"
	"github.com/fudosan-ai/qualibot/internal/lang"
	"github.com/fudosan-ai/qualibot/internal/metrics"
	"github.com/fudosan-ai/qualibot/internal/responder"
)

// CreateSession starts a new active session. An empty language defaults
// to Japanese; anything outside ja/en/vi is rejected.
func (s *Service) CreateSession(ctx context.Context, language, userID string, metadata map[string]string) (*domain.Session, error) {
	if language == "" {
		language = lang.Japanese
	}
	switch language {
	case lang.Japanese, lang.English, lang.Vietnamese:
	default:
		return nil, domain.ErrValidation("Unsupported language", map[string]any{"language": language})
	}

	now := time.Now()
	expires := now.Add(s.config.SessionTimeout())
	session := &domain.Session{
		SessionID: "sess_" + uuid.New().String()[:8],
		Status:    domain.SessionStatusActive,
		Language:  language,
		UserID:    userID,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: &expires,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, domain.ErrDatabase(err)
	}
	_ = s.cache.Set(ctx, session)
	metrics.RecordSessionCreated()
	return session, nil
}

// loadSession reads a session through the cache and applies lazy
// expiry: an active session whose expires_at has passed transitions to
// expired before it is returned. (nil, nil) means not found.
func (s *Service) loadSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.cache.Get(ctx, sessionID)
	if err != nil || session == nil {
		// Cache failures degrade to the store.
		session, err = s.store.GetSession(ctx, sessionID)
		if err != nil {
			return nil, domain.ErrDatabase(err)
		}
		if session == nil {
			return nil, nil
		}
		_ = s.cache.Set(ctx, session)
	}

	if session.Status == domain.SessionStatusActive &&
		session.ExpiresAt != nil && session.ExpiresAt.Before(time.Now()) {
		if err := s.store.UpdateSessionStatus(ctx, sessionID, domain.SessionStatusExpired); err != nil {
			return nil, domain.ErrDatabase(err)
		}
		_ = s.cache.Invalidate(ctx, sessionID)
		session.Status = domain.SessionStatusExpired
		metrics.RecordSessionsExpired(1)
	}
	return session, nil
}

// GetSession returns a session by id. Expired sessions surface as a
// SessionExpired error rather than session state.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound(sessionID)
	}
	if session.Status == domain.SessionStatusExpired {
		return nil, domain.ErrSessionExpired(sessionID)
	}
	return session, nil
}

// SendMessage runs one conversation turn. Turns for the same session are
// serialized; precondition failures abort before anything is written.
func (s *Service) SendMessage(ctx context.Context, sessionID, message, language string) (*domain.TurnResult, error) {
	release := s.locks.acquire(sessionID)
	defer release()

	started := time.Now()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound(sessionID)
	}
	if session.Status != domain.SessionStatusActive {
		return nil, domain.ErrSessionExpired(sessionID)
	}

	normalized := lang.Normalize(message)
	if !lang.IsValidMessage(normalized) {
		return nil, domain.ErrInvalidMessage("Message must be between 1 and 1000 characters")
	}

	validated, err := s.filter.ValidateMessage(normalized)
	if err != nil {
		if de, ok := domain.AsError(err); ok {
			if reason, ok := de.Details["reason"].(string); ok {
				metrics.RecordBlockedMessage(reason)
			}
		}
		return nil, err
	}
	text := validated.FilteredText
	for _, pii := range validated.DetectedPII {
		metrics.RecordPIIDetection(pii)
	}

	if language == "" {
		language = lang.Detect(normalized)
	}

	// Analysis runs on the pre-mask text so placeholders cannot eat
	// numerals out of budget or area expressions; only the masked text
	// is persisted.
	analysis := s.nlu.Analyze(normalized, language)

	userTokens := estimateTokens(text)
	userMsg := &domain.Message{
		MessageID:  "msg_" + uuid.New().String()[:8],
		SessionID:  sessionID,
		Role:       domain.RoleUser,
		Content:    text,
		Language:   language,
		Intent:     analysis.Intent,
		Confidence: analysis.Confidence,
		Entities:   analysis.Entities,
		TokenCount: userTokens,
		CreatedAt:  time.Now(),
	}
	if err := s.store.CreateMessage(ctx, userMsg); err != nil {
		return nil, domain.ErrDatabase(err)
	}
	metrics.RecordMessage(domain.RoleUser)
	metrics.RecordIntent(analysis.Intent)
	for entityType := range analysis.Entities {
		metrics.RecordEntity(string(entityType))
	}

	if len(analysis.Entities) > 0 {
		if err := s.accumulateBrief(ctx, session, analysis.Intent, analysis.Entities); err != nil {
			return nil, err
		}
	}

	recent, err := s.store.GetRecentMessages(ctx, sessionID, s.config.HistoryWindow)
	if err != nil {
		return nil, domain.ErrDatabase(err)
	}
	history := make([]responder.HistoryEntry, 0, len(recent))
	for _, m := range recent {
		history = append(history, responder.HistoryEntry{Role: m.Role, Content: m.Content})
	}

	response := s.generator.Generate(text, responder.Context{
		SessionID: sessionID,
		Language:  language,
		History:   history,
		Intent:    analysis.Intent,
		Entities:  analysis.Entities,
	})

	assistantTokens := estimateTokens(response)
	assistantMsg := &domain.Message{
		MessageID:  "msg_" + uuid.New().String()[:8],
		SessionID:  sessionID,
		Role:       domain.RoleAssistant,
		Content:    response,
		Language:   language,
		TokenCount: assistantTokens,
		CreatedAt:  time.Now(),
	}
	if err := s.store.CreateMessage(ctx, assistantMsg); err != nil {
		return nil, domain.ErrDatabase(err)
	}
	metrics.RecordMessage(domain.RoleAssistant)

	if err := s.store.IncrementTurnCount(ctx, sessionID); err != nil {
		return nil, domain.ErrDatabase(err)
	}
	if err := s.store.IncrementTokenCount(ctx, sessionID, userTokens+assistantTokens); err != nil {
		return nil, domain.ErrDatabase(err)
	}
	_ = s.cache.Invalidate(ctx, sessionID)

	metrics.RecordTurn(time.Since(started))

	return &domain.TurnResult{
		MessageID:  assistantMsg.MessageID,
		SessionID:  sessionID,
		Response:   response,
		Intent:     analysis.Intent,
		Confidence: analysis.Confidence,
		Entities:   analysis.Entities,
		Language:   language,
	}, nil
}

// GetMessages returns a chronological page of a session's history plus
// the total count.
func (s *Service) GetMessages(ctx context.Context, sessionID string, limit, offset int) (*domain.MessagePage, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound(sessionID)
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.store.GetMessagesBySession(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, domain.ErrDatabase(err)
	}
	total, err := s.store.CountMessages(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrDatabase(err)
	}

	return &domain.MessagePage{
		SessionID: sessionID,
		Messages:  messages,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

// DeleteSession removes a session; its messages and brief cascade.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	deleted, err := s.store.DeleteSession(ctx, sessionID)
	if err != nil {
		return domain.ErrDatabase(err)
	}
	if !deleted {
		return domain.ErrSessionNotFound(sessionID)
	}
	_ = s.cache.Invalidate(ctx, sessionID)
	return nil
}

// CleanupExpiredSessions transitions every overdue active session to
// expired and returns how many were transitioned. Transitions are
// independent; one failure does not abort the sweep.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int, error) {
	sessions, err := s.store.GetExpiredSessions(ctx)
	if err != nil {
		return 0, domain.ErrDatabase(err)
	}

	count := 0
	for _, session := range sessions {
		if err := s.store.UpdateSessionStatus(ctx, session.SessionID, domain.SessionStatusExpired); err != nil {
			continue
		}
		_ = s.cache.Invalidate(ctx, session.SessionID)
		count++
	}
	if count > 0 {
		metrics.RecordSessionsExpired(count)
	}
	return count, nil
}
