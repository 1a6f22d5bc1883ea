package domain

import (
	"encoding/json"
	"time"
)

// Thread is a persisted conversation thread.
type Thread struct {
	ThreadID      string     `json:"thread_id"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// ChatMessage is one persisted message within a thread.
type ChatMessage struct {
	MessageID string          `json:"message_id"`
	ThreadID  string          `json:"thread_id"`
	Role      MessageRole     `json:"role"`
	Content   string          `json:"content"`
	Emotion   string          `json:"emotion,omitempty"`
	AgentUsed string          `json:"agent_used,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// MemoryEntry is a persisted long-term memory about a user.
type MemoryEntry struct {
	MemoryID        string    `json:"memory_id"`
	UserID          string    `json:"user_id"`
	Summary         string    `json:"summary"` // hard-capped at 500 chars
	ImportanceScore int       `json:"importance_score"`
	Context         string    `json:"context,omitempty"` // source tag, e.g. "agent_orchestrator"
	CreatedAt       time.Time `json:"created_at"`
}

// ToolExecution is a persisted audit row for one tool invocation. It is a
// diagnostic trail; the per-tool in-memory log stays the core's own record.
type ToolExecution struct {
	ExecID          string          `json:"exec_id"`
	ToolName        string          `json:"tool_name"`
	UserID          string          `json:"user_id"`
	ThreadID        string          `json:"thread_id,omitempty"`
	Params          json.RawMessage `json:"params,omitempty"`
	Success         bool            `json:"success"`
	Error           string          `json:"error,omitempty"`
	DurationSeconds float64         `json:"duration_seconds"`
	CreatedAt       time.Time       `json:"created_at"`
}
