package domain

// AgentRequest is the immutable input to one orchestration run.
type AgentRequest struct {
	Message             string `json:"message"`
	UserID              string `json:"user_id"`
	ThreadID            string `json:"thread_id"`
	ConversationContext string `json:"conversation_context,omitempty"`
	UserMemorySummary   string `json:"user_memory_summary,omitempty"`
}

// ToolExecutionContext describes who and what triggered a tool call.
// It is passed by value to every invocation; tools must not mutate it.
type ToolExecutionContext struct {
	UserID             string         `json:"user_id"`
	ThreadID           string         `json:"thread_id"`
	OriginatingMessage string         `json:"originating_message"`
	UserEmail          string         `json:"user_email,omitempty"`
	UserMetadata       map[string]any `json:"user_metadata,omitempty"`

	// ConfirmationCallback, when set, lets an interactive host resolve the
	// confirmation gate in-band instead of a confirmed=true resubmit.
	ConfirmationCallback func(prompt string) bool `json:"-"`
}
