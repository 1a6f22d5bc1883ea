// Package domain defines the core value types for the surrogate pipeline.
package domain

// AgentID identifies a routable agent.
type AgentID string

const (
	AgentChat          AgentID = "chat"
	AgentEmotion       AgentID = "emotion"
	AgentMemory        AgentID = "memory"
	AgentScheduler     AgentID = "scheduler"
	AgentCommunication AgentID = "communication"
	AgentDocs          AgentID = "docs"

	// AgentFallback is never routed to; the orchestrator reports it when the
	// top-level safety net produced the reply.
	AgentFallback AgentID = "fallback"
)

// Emotion labels form the closed classification vocabulary. Anything a
// classifier produces outside this set collapses to EmotionNeutral.
const (
	EmotionHappy      = "happy"
	EmotionSad        = "sad"
	EmotionNeutral    = "neutral"
	EmotionExcited    = "excited"
	EmotionConcerned  = "concerned"
	EmotionSupportive = "supportive"
	EmotionCurious    = "curious"
	EmotionThoughtful = "thoughtful"
)

var knownEmotions = map[string]bool{
	EmotionHappy:      true,
	EmotionSad:        true,
	EmotionNeutral:    true,
	EmotionExcited:    true,
	EmotionConcerned:  true,
	EmotionSupportive: true,
	EmotionCurious:    true,
	EmotionThoughtful: true,
}

// KnownEmotion reports whether s is one of the eight classification labels.
func KnownEmotion(s string) bool {
	return knownEmotions[s]
}

// TraceStatus represents the status of an execution trace entry.
type TraceStatus string

const (
	TraceStarted    TraceStatus = "started"
	TraceProcessing TraceStatus = "processing"
	TraceComplete   TraceStatus = "complete"
	TraceError      TraceStatus = "error"
)

// Step names used in execution trace entries.
const (
	StepRouting          = "routing"
	StepPrimaryAgent     = "primary_agent"
	StepParallelAnalysis = "parallel_analysis"
	StepEmotionAnalysis  = "emotion_analysis"
	StepMemoryCheck      = "memory_check"
	StepMemoryUpdate     = "memory_update"
)

// ToolCategory partitions the tool registry.
type ToolCategory string

const (
	ToolCategoryCommunication ToolCategory = "communication"
	ToolCategoryScheduling    ToolCategory = "scheduling"
)

// MessageRole distinguishes stored chat messages.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)
