package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
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

	// Enable foreign keys
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

// Ensure SQLiteStore implements the Store interface.
var _ Store = (*SQLiteStore)(nil)

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS threads (
			thread_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_message_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_threads_user ON threads(user_id, last_message_at)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			thread_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			emotion TEXT,
			agent_used TEXT,
			metadata TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (thread_id) REFERENCES threads(thread_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS memory (
			memory_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			summary TEXT NOT NULL,
			importance_score INTEGER NOT NULL,
			context TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memory_user ON memory(user_id, importance_score)`,
		`CREATE TABLE IF NOT EXISTS tool_executions (
			exec_id TEXT PRIMARY KEY,
			tool_name TEXT NOT NULL,
			user_id TEXT NOT NULL,
			thread_id TEXT,
			params TEXT,
			success INTEGER NOT NULL,
			error TEXT,
			duration_seconds REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tool_executions_created ON tool_executions(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	// Add new columns for existing DBs (SQLite has limited ALTER TABLE support).
	if err := s.ensureColumn("threads", "last_message_at", "ALTER TABLE threads ADD COLUMN last_message_at DATETIME"); err != nil {
		return err
	}
	if err := s.ensureColumn("messages", "agent_used", "ALTER TABLE messages ADD COLUMN agent_used TEXT"); err != nil {
		return err
	}

	return nil
}

func (s *SQLiteStore) ensureColumn(tableName, columnName, ddl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dfltValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == columnName {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.Exec(ddl)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateThread creates a new thread.
func (s *SQLiteStore) CreateThread(ctx context.Context, thread *domain.Thread) error {
	var lastMessageAt sql.NullTime
	if thread.LastMessageAt != nil {
		lastMessageAt = sql.NullTime{Time: *thread.LastMessageAt, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO threads (thread_id, user_id, title, created_at, updated_at, last_message_at) VALUES (?, ?, ?, ?, ?, ?)`,
		thread.ThreadID, thread.UserID, thread.Title, thread.CreatedAt, thread.UpdatedAt, lastMessageAt)
	return err
}

// GetThread retrieves a thread by ID.
func (s *SQLiteStore) GetThread(ctx context.Context, threadID string) (*domain.Thread, error) {
	var thread domain.Thread
	var lastMessageAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT thread_id, user_id, title, created_at, updated_at, last_message_at FROM threads WHERE thread_id = ?`,
		threadID).Scan(&thread.ThreadID, &thread.UserID, &thread.Title, &thread.CreatedAt, &thread.UpdatedAt, &lastMessageAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastMessageAt.Valid {
		thread.LastMessageAt = &lastMessageAt.Time
	}
	return &thread, nil
}

// ListThreads retrieves a user's threads, most recent activity first.
func (s *SQLiteStore) ListThreads(ctx context.Context, userID string) ([]domain.Thread, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT thread_id, user_id, title, created_at, updated_at, last_message_at FROM threads
		 WHERE user_id = ?
		 ORDER BY COALESCE(last_message_at, updated_at) DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []domain.Thread
	for rows.Next() {
		var thread domain.Thread
		var lastMessageAt sql.NullTime
		if err := rows.Scan(&thread.ThreadID, &thread.UserID, &thread.Title, &thread.CreatedAt, &thread.UpdatedAt, &lastMessageAt); err != nil {
			return nil, err
		}
		if lastMessageAt.Valid {
			thread.LastMessageAt = &lastMessageAt.Time
		}
		threads = append(threads, thread)
	}
	return threads, rows.Err()
}

// UpdateThreadTitle renames a thread.
func (s *SQLiteStore) UpdateThreadTitle(ctx context.Context, threadID, title string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE threads SET title = ?, updated_at = ? WHERE thread_id = ?`,
		title, time.Now(), threadID)
	return err
}

// TouchThread bumps a thread's last-activity timestamps.
func (s *SQLiteStore) TouchThread(ctx context.Context, threadID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE threads SET last_message_at = ?, updated_at = ? WHERE thread_id = ?`,
		at, at, threadID)
	return err
}

// DeleteThread removes a thread; messages cascade.
func (s *SQLiteStore) DeleteThread(ctx context.Context, threadID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM threads WHERE thread_id = ?`, threadID)
	return err
}

// CreateMessage creates a new message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.ChatMessage) error {
	var metadata sql.NullString
	if len(message.Metadata) > 0 {
		metadata = sql.NullString{String: string(message.Metadata), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, thread_id, role, content, emotion, agent_used, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		message.MessageID, message.ThreadID, message.Role, message.Content,
		nullString(message.Emotion), nullString(message.AgentUsed), metadata, message.CreatedAt)
	return err
}

// ListMessages retrieves a thread's messages in chronological order.
func (s *SQLiteStore) ListMessages(ctx context.Context, threadID string, limit int) ([]domain.ChatMessage, error) {
	query := `SELECT message_id, thread_id, role, content, emotion, agent_used, metadata, created_at FROM messages WHERE thread_id = ? ORDER BY created_at ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// ListRecentMessages returns the newest limit messages of a thread in
// chronological order.
func (s *SQLiteStore) ListRecentMessages(ctx context.Context, threadID string, limit int) ([]domain.ChatMessage, error) {
	query := `SELECT message_id, thread_id, role, content, emotion, agent_used, metadata, created_at FROM messages WHERE thread_id = ? ORDER BY created_at DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, threadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ListUserMessagesSince returns every message in the user's threads created
// at or after since, oldest first. Used for pattern analysis.
func (s *SQLiteStore) ListUserMessagesSince(ctx context.Context, userID string, since time.Time) ([]domain.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.message_id, m.thread_id, m.role, m.content, m.emotion, m.agent_used, m.metadata, m.created_at
		 FROM messages m JOIN threads t ON m.thread_id = t.thread_id
		 WHERE t.user_id = ? AND m.created_at >= ?
		 ORDER BY m.created_at ASC`,
		userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		var emotion, agentUsed, metadata sql.NullString
		if err := rows.Scan(&msg.MessageID, &msg.ThreadID, &msg.Role, &msg.Content, &emotion, &agentUsed, &metadata, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if emotion.Valid {
			msg.Emotion = emotion.String
		}
		if agentUsed.Valid {
			msg.AgentUsed = agentUsed.String
		}
		if metadata.Valid {
			msg.Metadata = []byte(metadata.String)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// InsertMemory persists a memory entry, truncating the summary to the cap.
func (s *SQLiteStore) InsertMemory(ctx context.Context, entry *domain.MemoryEntry) error {
	summary := entry.Summary
	if len(summary) > MaxSummaryLength {
		summary = summary[:MaxSummaryLength]
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memory (memory_id, user_id, summary, importance_score, context, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.MemoryID, entry.UserID, summary, entry.ImportanceScore, nullString(entry.Context), entry.CreatedAt)
	return err
}

// UpdateMemory rewrites an existing entry's summary, importance and context.
// Returns ErrNotFound when the entry does not exist for that user.
func (s *SQLiteStore) UpdateMemory(ctx context.Context, entry *domain.MemoryEntry) error {
	summary := entry.Summary
	if len(summary) > MaxSummaryLength {
		summary = summary[:MaxSummaryLength]
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE memory SET summary = ?, importance_score = ?, context = ? WHERE memory_id = ? AND user_id = ?`,
		summary, entry.ImportanceScore, nullString(entry.Context), entry.MemoryID, entry.UserID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMemories retrieves a user's memories, most important first.
func (s *SQLiteStore) ListMemories(ctx context.Context, userID string, minImportance, limit int) ([]domain.MemoryEntry, error) {
	query := `SELECT memory_id, user_id, summary, importance_score, context, created_at FROM memory
		WHERE user_id = ? AND importance_score >= ?
		ORDER BY importance_score DESC, created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, userID, minImportance)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemories(rows)
}

// ListMemoriesSince retrieves memories created at or after since, newest
// first.
func (s *SQLiteStore) ListMemoriesSince(ctx context.Context, userID string, since time.Time, limit int) ([]domain.MemoryEntry, error) {
	query := `SELECT memory_id, user_id, summary, importance_score, context, created_at FROM memory
		WHERE user_id = ? AND created_at >= ?
		ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemories(rows)
}

// SearchMemories retrieves a user's memories whose summary matches the query.
func (s *SQLiteStore) SearchMemories(ctx context.Context, userID, query string, limit int) ([]domain.MemoryEntry, error) {
	q := `SELECT memory_id, user_id, summary, importance_score, context, created_at FROM memory
		WHERE user_id = ? AND summary LIKE ?
		ORDER BY importance_score DESC, created_at DESC`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, q, userID, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemories(rows)
}

// DeleteMemory removes one memory entry. Returns ErrNotFound when no entry
// matches the ID and owner.
func (s *SQLiteStore) DeleteMemory(ctx context.Context, memoryID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM memory WHERE memory_id = ? AND user_id = ?`, memoryID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListConsolidatableMemories retrieves old low-importance memories, oldest first.
func (s *SQLiteStore) ListConsolidatableMemories(ctx context.Context, userID string, olderThan time.Time, maxImportance int) ([]domain.MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT memory_id, user_id, summary, importance_score, context, created_at FROM memory
		 WHERE user_id = ? AND created_at < ? AND importance_score <= ?
		 ORDER BY created_at ASC`,
		userID, olderThan, maxImportance)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemories(rows)
}

// DeleteMemories removes a batch of memory entries by ID.
func (s *SQLiteStore) DeleteMemories(ctx context.Context, memoryIDs []string) error {
	if len(memoryIDs) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(memoryIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(memoryIDs))
	for i, id := range memoryIDs {
		args[i] = id
	}
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM memory WHERE memory_id IN (%s)`, placeholders), args...)
	return err
}

// ListMemoryUsers returns the distinct user IDs holding memory entries.
func (s *SQLiteStore) ListMemoryUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM memory`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// RecordToolExecution persists one tool-execution audit row.
func (s *SQLiteStore) RecordToolExecution(ctx context.Context, exec *domain.ToolExecution) error {
	var params sql.NullString
	if len(exec.Params) > 0 {
		params = sql.NullString{String: string(exec.Params), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tool_executions (exec_id, tool_name, user_id, thread_id, params, success, error, duration_seconds, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exec.ExecID, exec.ToolName, exec.UserID, nullString(exec.ThreadID), params,
		exec.Success, nullString(exec.Error), exec.DurationSeconds, exec.CreatedAt)
	return err
}

// ListToolExecutions retrieves recent audit rows, newest first.
func (s *SQLiteStore) ListToolExecutions(ctx context.Context, limit int) ([]domain.ToolExecution, error) {
	query := `SELECT exec_id, tool_name, user_id, thread_id, params, success, error, duration_seconds, created_at FROM tool_executions ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var execs []domain.ToolExecution
	for rows.Next() {
		var e domain.ToolExecution
		var threadID, params, errText sql.NullString
		if err := rows.Scan(&e.ExecID, &e.ToolName, &e.UserID, &threadID, &params, &e.Success, &errText, &e.DurationSeconds, &e.CreatedAt); err != nil {
			return nil, err
		}
		if threadID.Valid {
			e.ThreadID = threadID.String
		}
		if params.Valid {
			e.Params = []byte(params.String)
		}
		if errText.Valid {
			e.Error = errText.String
		}
		execs = append(execs, e)
	}
	return execs, rows.Err()
}

// PruneToolExecutions deletes audit rows older than the cutoff.
func (s *SQLiteStore) PruneToolExecutions(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tool_executions WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanMemories(rows *sql.Rows) ([]domain.MemoryEntry, error) {
	var entries []domain.MemoryEntry
	for rows.Next() {
		var m domain.MemoryEntry
		var contextTag sql.NullString
		if err := rows.Scan(&m.MemoryID, &m.UserID, &m.Summary, &m.ImportanceScore, &contextTag, &m.CreatedAt); err != nil {
			return nil, err
		}
		if contextTag.Valid {
			m.Context = contextTag.String
		}
		entries = append(entries, m)
	}
	return entries, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
