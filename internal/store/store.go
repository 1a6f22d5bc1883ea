// Package store defines the storage interface and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// MaxSummaryLength is the hard cap on persisted memory summaries.
const MaxSummaryLength = 500

// ErrNotFound is returned by updates targeting a row that does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for data persistence.
type Store interface {
	// Thread operations
	CreateThread(ctx context.Context, thread *domain.Thread) error
	GetThread(ctx context.Context, threadID string) (*domain.Thread, error)
	ListThreads(ctx context.Context, userID string) ([]domain.Thread, error)
	UpdateThreadTitle(ctx context.Context, threadID, title string) error
	TouchThread(ctx context.Context, threadID string, at time.Time) error
	DeleteThread(ctx context.Context, threadID string) error

	// Message operations
	CreateMessage(ctx context.Context, message *domain.ChatMessage) error
	ListMessages(ctx context.Context, threadID string, limit int) ([]domain.ChatMessage, error)
	ListRecentMessages(ctx context.Context, threadID string, limit int) ([]domain.ChatMessage, error)
	ListUserMessagesSince(ctx context.Context, userID string, since time.Time) ([]domain.ChatMessage, error)

	// Memory operations
	InsertMemory(ctx context.Context, entry *domain.MemoryEntry) error
	UpdateMemory(ctx context.Context, entry *domain.MemoryEntry) error
	ListMemories(ctx context.Context, userID string, minImportance, limit int) ([]domain.MemoryEntry, error)
	ListMemoriesSince(ctx context.Context, userID string, since time.Time, limit int) ([]domain.MemoryEntry, error)
	SearchMemories(ctx context.Context, userID, query string, limit int) ([]domain.MemoryEntry, error)
	DeleteMemory(ctx context.Context, memoryID, userID string) error
	ListConsolidatableMemories(ctx context.Context, userID string, olderThan time.Time, maxImportance int) ([]domain.MemoryEntry, error)
	DeleteMemories(ctx context.Context, memoryIDs []string) error
	ListMemoryUsers(ctx context.Context) ([]string, error)

	// Tool execution audit operations
	RecordToolExecution(ctx context.Context, exec *domain.ToolExecution) error
	ListToolExecutions(ctx context.Context, limit int) ([]domain.ToolExecution, error)
	PruneToolExecutions(ctx context.Context, olderThan time.Time) (int64, error)

	// Lifecycle
	Close() error
}
