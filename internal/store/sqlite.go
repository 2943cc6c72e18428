package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fudosan-ai/qualibot/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dsn and runs
// migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			language TEXT NOT NULL,
			user_id TEXT,
			metadata TEXT,
			turn_count INTEGER NOT NULL DEFAULT 0,
			token_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			expires_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_status_expires ON sessions(status, expires_at)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			language TEXT NOT NULL,
			intent TEXT,
			confidence REAL NOT NULL DEFAULT 0,
			entities TEXT,
			metadata TEXT,
			token_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS briefs (
			brief_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL UNIQUE,
			property_type TEXT NOT NULL,
			status TEXT NOT NULL,
			location TEXT,
			budget_min INTEGER,
			budget_max INTEGER,
			rooms TEXT,
			area_min REAL,
			area_max REAL,
			data TEXT,
			extracted_entities TEXT,
			validation_errors TEXT,
			completeness_score REAL NOT NULL DEFAULT 0,
			lead_score REAL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			submitted_at DATETIME,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_briefs_status ON briefs(status, updated_at)`,
		`CREATE TABLE IF NOT EXISTS glossary_terms (
			term_id TEXT PRIMARY KEY,
			term TEXT NOT NULL,
			language TEXT NOT NULL,
			translation TEXT NOT NULL,
			explanation TEXT NOT NULL,
			category TEXT,
			synonyms TEXT,
			examples TEXT,
			usage_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (term, language)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_glossary_category ON glossary_terms(category, language)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	metadata := nullJSON(session.Metadata)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, status, language, user_id, metadata, turn_count, token_count, created_at, updated_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.SessionID, session.Status, session.Language, nullString(session.UserID), metadata,
		session.TurnCount, session.TokenCount, session.CreatedAt, session.UpdatedAt, nullTime(session.ExpiresAt))
	return err
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT session_id, status, language, user_id, metadata, turn_count, token_count, created_at, updated_at, expires_at
		 FROM sessions WHERE session_id = ?`, sessionID)
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSessionStatus updates the status of a session.
func (s *SQLiteStore) UpdateSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, updated_at = ? WHERE session_id = ?`,
		status, time.Now(), sessionID)
	return err
}

// IncrementTurnCount adds one completed turn to the session.
func (s *SQLiteStore) IncrementTurnCount(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET turn_count = turn_count + 1, updated_at = ? WHERE session_id = ?`,
		time.Now(), sessionID)
	return err
}

// IncrementTokenCount adds tokens to the session's running total.
func (s *SQLiteStore) IncrementTokenCount(ctx context.Context, sessionID string, tokens int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET token_count = token_count + ?, updated_at = ? WHERE session_id = ?`,
		tokens, time.Now(), sessionID)
	return err
}

// DeleteSession removes a session; messages and the brief go with it via
// ON DELETE CASCADE. Returns whether a row was deleted.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetActiveSessions lists active sessions, most recently updated first.
func (s *SQLiteStore) GetActiveSessions(ctx context.Context, limit int) ([]domain.Session, error) {
	query := `SELECT session_id, status, language, user_id, metadata, turn_count, token_count, created_at, updated_at, expires_at
		 FROM sessions WHERE status = ? ORDER BY updated_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query, domain.SessionStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// GetExpiredSessions lists active sessions whose expiry has passed.
func (s *SQLiteStore) GetExpiredSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, status, language, user_id, metadata, turn_count, token_count, created_at, updated_at, expires_at
		 FROM sessions WHERE status = ? AND expires_at IS NOT NULL AND expires_at < ?`,
		domain.SessionStatusActive, time.Now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// CreateMessage creates a new message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	entities := nullJSON(message.Entities)
	metadata := nullJSON(message.Metadata)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, role, content, language, intent, confidence, entities, metadata, token_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		message.MessageID, message.SessionID, message.Role, message.Content, message.Language,
		nullString(message.Intent), message.Confidence, entities, metadata, message.TokenCount, message.CreatedAt)
	return err
}

// messageColumns is the scan order shared by every message query.
const messageColumns = `message_id, session_id, role, content, language, intent, confidence, entities, metadata, token_count, created_at`

// GetMessagesBySession retrieves a page of messages in chronological
// order. Ties on created_at fall back to insertion order.
func (s *SQLiteStore) GetMessagesBySession(ctx context.Context, sessionID string, limit, offset int) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE session_id = ?
		 ORDER BY created_at ASC, rowid ASC LIMIT ? OFFSET ?`,
		sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// GetRecentMessages retrieves the last count messages of a session in
// chronological order.
func (s *SQLiteStore) GetRecentMessages(ctx context.Context, sessionID string, count int) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE session_id = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		sessionID, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages, err := collectMessages(rows)
	if err != nil {
		return nil, err
	}
	// Query returns newest first; callers want chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// CountMessages returns the total number of messages in a session.
func (s *SQLiteStore) CountMessages(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE session_id = ?`, sessionID).Scan(&count)
	return count, err
}

// CreateBrief creates a new brief. The UNIQUE constraint on session_id
// enforces one brief per session.
func (s *SQLiteStore) CreateBrief(ctx context.Context, brief *domain.Brief) error {
	data := nullJSON(brief.Data)
	entities := nullJSON(brief.ExtractedEntities)
	validationErrors := nullJSONSlice(brief.ValidationErrors)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO briefs (brief_id, session_id, property_type, status, location, budget_min, budget_max, rooms, area_min, area_max,
			data, extracted_entities, validation_errors, completeness_score, lead_score, created_at, updated_at, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		brief.BriefID, brief.SessionID, brief.PropertyType, brief.Status,
		brief.Location, brief.BudgetMin, brief.BudgetMax, brief.Rooms, brief.AreaMin, brief.AreaMax,
		data, entities, validationErrors, brief.CompletenessScore, brief.LeadScore,
		brief.CreatedAt, brief.UpdatedAt, nullTime(brief.SubmittedAt))
	return err
}

const briefColumns = `brief_id, session_id, property_type, status, location, budget_min, budget_max, rooms, area_min, area_max,
	data, extracted_entities, validation_errors, completeness_score, lead_score, created_at, updated_at, submitted_at`

// GetBrief retrieves a brief by ID.
func (s *SQLiteStore) GetBrief(ctx context.Context, briefID string) (*domain.Brief, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+briefColumns+` FROM briefs WHERE brief_id = ?`, briefID)
	brief, err := scanBrief(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return brief, nil
}

// GetBriefBySession retrieves the brief belonging to a session.
func (s *SQLiteStore) GetBriefBySession(ctx context.Context, sessionID string) (*domain.Brief, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+briefColumns+` FROM briefs WHERE session_id = ?`, sessionID)
	brief, err := scanBrief(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return brief, nil
}

// UpdateBrief rewrites every mutable field of a brief.
func (s *SQLiteStore) UpdateBrief(ctx context.Context, brief *domain.Brief) error {
	data := nullJSON(brief.Data)
	entities := nullJSON(brief.ExtractedEntities)
	validationErrors := nullJSONSlice(brief.ValidationErrors)
	_, err := s.db.ExecContext(ctx,
		`UPDATE briefs SET property_type = ?, status = ?, location = ?, budget_min = ?, budget_max = ?, rooms = ?,
			area_min = ?, area_max = ?, data = ?, extracted_entities = ?, validation_errors = ?,
			completeness_score = ?, lead_score = ?, updated_at = ?
		 WHERE brief_id = ?`,
		brief.PropertyType, brief.Status, brief.Location, brief.BudgetMin, brief.BudgetMax, brief.Rooms,
		brief.AreaMin, brief.AreaMax, data, entities, validationErrors,
		brief.CompletenessScore, brief.LeadScore, time.Now(), brief.BriefID)
	return err
}

// UpdateBriefStatus updates the status of a brief. The transition to
// submitted stamps submitted_at once; re-submitting keeps the original
// timestamp.
func (s *SQLiteStore) UpdateBriefStatus(ctx context.Context, briefID string, status domain.BriefStatus) error {
	now := time.Now()
	if status == domain.BriefStatusSubmitted {
		_, err := s.db.ExecContext(ctx,
			`UPDATE briefs SET status = ?, updated_at = ?, submitted_at = COALESCE(submitted_at, ?) WHERE brief_id = ?`,
			status, now, now, briefID)
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE briefs SET status = ?, updated_at = ? WHERE brief_id = ?`,
		status, now, briefID)
	return err
}

// GetBriefsByStatus lists briefs in a given status, most recently
// updated first.
func (s *SQLiteStore) GetBriefsByStatus(ctx context.Context, status domain.BriefStatus, limit int) ([]domain.Brief, error) {
	query := `SELECT ` + briefColumns + ` FROM briefs WHERE status = ? ORDER BY updated_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var briefs []domain.Brief
	for rows.Next() {
		brief, err := scanBrief(rows)
		if err != nil {
			return nil, err
		}
		briefs = append(briefs, *brief)
	}
	return briefs, rows.Err()
}

// CreateTerm creates a new glossary term.
func (s *SQLiteStore) CreateTerm(ctx context.Context, term *domain.GlossaryTerm) error {
	synonyms := nullJSONSlice(term.Synonyms)
	examples := nullJSONSlice(term.Examples)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO glossary_terms (term_id, term, language, translation, explanation, category, synonyms, examples, usage_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		term.TermID, term.Term, term.Language, term.Translation, term.Explanation,
		nullString(term.Category), synonyms, examples, term.UsageCount, term.CreatedAt, term.UpdatedAt)
	return err
}

const termColumns = `term_id, term, language, translation, explanation, category, synonyms, examples, usage_count, created_at, updated_at`

// GetTerm retrieves a glossary term by ID.
func (s *SQLiteStore) GetTerm(ctx context.Context, termID string) (*domain.GlossaryTerm, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+termColumns+` FROM glossary_terms WHERE term_id = ?`, termID)
	term, err := scanTerm(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return term, nil
}

// GetTermByTerm retrieves a glossary term by its exact term text and
// language.
func (s *SQLiteStore) GetTermByTerm(ctx context.Context, termText, language string) (*domain.GlossaryTerm, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+termColumns+` FROM glossary_terms WHERE term = ? AND language = ?`, termText, language)
	term, err := scanTerm(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return term, nil
}

// SearchTerms finds glossary terms whose term or translation contains
// query as a substring.
func (s *SQLiteStore) SearchTerms(ctx context.Context, query, language string, limit int) ([]domain.GlossaryTerm, error) {
	sqlQuery := `SELECT ` + termColumns + ` FROM glossary_terms WHERE (term LIKE ? OR translation LIKE ?)`
	pattern := "%" + query + "%"
	args := []interface{}{pattern, pattern}
	if language != "" {
		sqlQuery += ` AND language = ?`
		args = append(args, language)
	}
	sqlQuery += ` ORDER BY usage_count DESC, term ASC`
	if limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTerms(rows)
}

// GetTermsByCategory lists glossary terms in a category.
func (s *SQLiteStore) GetTermsByCategory(ctx context.Context, category, language string, limit int) ([]domain.GlossaryTerm, error) {
	sqlQuery := `SELECT ` + termColumns + ` FROM glossary_terms WHERE category = ?`
	args := []interface{}{category}
	if language != "" {
		sqlQuery += ` AND language = ?`
		args = append(args, language)
	}
	sqlQuery += ` ORDER BY term ASC`
	if limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTerms(rows)
}

// IncrementTermUsage bumps a term's usage counter. Missing terms are a
// no-op.
func (s *SQLiteStore) IncrementTermUsage(ctx context.Context, termID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE glossary_terms SET usage_count = usage_count + 1, updated_at = ? WHERE term_id = ?`,
		time.Now(), termID)
	return err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(sc scanner) (*domain.Session, error) {
	var session domain.Session
	var userID, metadata sql.NullString
	var expiresAt sql.NullTime
	err := sc.Scan(&session.SessionID, &session.Status, &session.Language, &userID, &metadata,
		&session.TurnCount, &session.TokenCount, &session.CreatedAt, &session.UpdatedAt, &expiresAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		session.UserID = userID.String
	}
	if metadata.Valid {
		_ = json.Unmarshal([]byte(metadata.String), &session.Metadata)
	}
	if expiresAt.Valid {
		session.ExpiresAt = &expiresAt.Time
	}
	return &session, nil
}

func collectSessions(rows *sql.Rows) ([]domain.Session, error) {
	var sessions []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func scanMessage(sc scanner) (*domain.Message, error) {
	var msg domain.Message
	var intent, entities, metadata sql.NullString
	err := sc.Scan(&msg.MessageID, &msg.SessionID, &msg.Role, &msg.Content, &msg.Language,
		&intent, &msg.Confidence, &entities, &metadata, &msg.TokenCount, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	if intent.Valid {
		msg.Intent = intent.String
	}
	if entities.Valid {
		_ = json.Unmarshal([]byte(entities.String), &msg.Entities)
	}
	if metadata.Valid {
		_ = json.Unmarshal([]byte(metadata.String), &msg.Metadata)
	}
	return &msg, nil
}

func collectMessages(rows *sql.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func scanBrief(sc scanner) (*domain.Brief, error) {
	var brief domain.Brief
	var location, rooms, data, entities, validationErrors sql.NullString
	var budgetMin, budgetMax sql.NullInt64
	var areaMin, areaMax, leadScore sql.NullFloat64
	var submittedAt sql.NullTime
	err := sc.Scan(&brief.BriefID, &brief.SessionID, &brief.PropertyType, &brief.Status,
		&location, &budgetMin, &budgetMax, &rooms, &areaMin, &areaMax,
		&data, &entities, &validationErrors, &brief.CompletenessScore, &leadScore,
		&brief.CreatedAt, &brief.UpdatedAt, &submittedAt)
	if err != nil {
		return nil, err
	}
	if location.Valid {
		brief.Location = &location.String
	}
	if budgetMin.Valid {
		brief.BudgetMin = &budgetMin.Int64
	}
	if budgetMax.Valid {
		brief.BudgetMax = &budgetMax.Int64
	}
	if rooms.Valid {
		brief.Rooms = &rooms.String
	}
	if areaMin.Valid {
		brief.AreaMin = &areaMin.Float64
	}
	if areaMax.Valid {
		brief.AreaMax = &areaMax.Float64
	}
	if data.Valid {
		_ = json.Unmarshal([]byte(data.String), &brief.Data)
	}
	if entities.Valid {
		_ = json.Unmarshal([]byte(entities.String), &brief.ExtractedEntities)
	}
	if validationErrors.Valid {
		_ = json.Unmarshal([]byte(validationErrors.String), &brief.ValidationErrors)
	}
	if leadScore.Valid {
		brief.LeadScore = &leadScore.Float64
	}
	if submittedAt.Valid {
		brief.SubmittedAt = &submittedAt.Time
	}
	return &brief, nil
}

func scanTerm(sc scanner) (*domain.GlossaryTerm, error) {
	var term domain.GlossaryTerm
	var category, synonyms, examples sql.NullString
	err := sc.Scan(&term.TermID, &term.Term, &term.Language, &term.Translation, &term.Explanation,
		&category, &synonyms, &examples, &term.UsageCount, &term.CreatedAt, &term.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if category.Valid {
		term.Category = category.String
	}
	if synonyms.Valid {
		_ = json.Unmarshal([]byte(synonyms.String), &term.Synonyms)
	}
	if examples.Valid {
		_ = json.Unmarshal([]byte(examples.String), &term.Examples)
	}
	return &term, nil
}

func collectTerms(rows *sql.Rows) ([]domain.GlossaryTerm, error) {
	var terms []domain.GlossaryTerm
	for rows.Next() {
		term, err := scanTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, *term)
	}
	return terms, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullJSON marshals v to a TEXT column, storing NULL for empty maps.
func nullJSON(v interface{}) sql.NullString {
	switch m := v.(type) {
	case map[string]string:
		if len(m) == 0 {
			return sql.NullString{}
		}
	case map[string]any:
		if len(m) == 0 {
			return sql.NullString{}
		}
	case domain.Entities:
		if len(m) == 0 {
			return sql.NullString{}
		}
	case nil:
		return sql.NullString{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

func nullJSONSlice(v []string) sql.NullString {
	if len(v) == 0 {
		return sql.NullString{}
	}
	b, _ := json.Marshal(v)
	return sql.NullString{String: string(b), Valid: true}
}
