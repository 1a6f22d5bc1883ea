package domain

// AgentResult is what an agent produced for one request. Agents never fail
// upward: a failed downstream call yields a degraded result carrying lowered
// confidence and the original error text instead of an error return.
type AgentResult struct {
	Content               string      `json:"content"`
	Confidence            float64     `json:"confidence"`
	ProcessingTimeSeconds float64     `json:"processing_time_seconds"`
	ToolUsed              string      `json:"tool_used,omitempty"`
	ToolResult            *ToolResult `json:"tool_result,omitempty"`
	RequiresConfirmation  bool        `json:"requires_confirmation"`
	Degraded              bool        `json:"degraded,omitempty"`
	Error                 string      `json:"error,omitempty"`
}

// ToolResult carries one tool call's outcome.
// Invariant: RequiresConfirmation=true implies Success=false and a non-empty
// ConfirmationPrompt.
type ToolResult struct {
	Success              bool           `json:"success"`
	Data                 map[string]any `json:"data,omitempty"`
	Error                string         `json:"error,omitempty"`
	Message              string         `json:"message"`
	RequiresConfirmation bool           `json:"requires_confirmation"`
	ConfirmationPrompt   string         `json:"confirmation_prompt,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
	ExecutionTimeSeconds float64        `json:"execution_time_seconds"`
}

// MemoryUpdateDecision marks a conversation worth persisting. A nil
// *MemoryUpdateDecision means "do not persist".
type MemoryUpdateDecision struct {
	ImportanceScore int    `json:"importance_score"` // 1..10
	Reason          string `json:"reason"`
}

// OrchestratorResponse is the transport-independent boundary contract of one
// orchestration run. The tool fields are set only when the primary agent
// dispatched a tool; transports use them to surface the confirmation gate.
type OrchestratorResponse struct {
	Response             string           `json:"response"`
	Emotion              string           `json:"emotion"`
	AgentUsed            string           `json:"agent_used"`
	AgentDisplayName     string           `json:"agent_display_name"`
	AgentIcon            string           `json:"agent_icon"`
	ToolUsed             string           `json:"tool_used,omitempty"`
	ToolResult           *ToolResult      `json:"tool_result,omitempty"`
	RequiresConfirmation bool             `json:"requires_confirmation,omitempty"`
	Metadata             ResponseMetadata `json:"metadata"`
}

// ResponseMetadata is the observability section of an OrchestratorResponse.
type ResponseMetadata struct {
	MemoryUpdated    bool                  `json:"memory_updated"`
	ProcessingTime   float64               `json:"processing_time"`
	PrimaryAgentTime float64               `json:"primary_agent_time"`
	Confidence       float64               `json:"confidence"`
	ExecutionTrace   []ExecutionTraceEntry `json:"execution_trace"`
	AgentsInvolved   []string              `json:"agents_involved"`
	Error            string                `json:"error,omitempty"`
}
