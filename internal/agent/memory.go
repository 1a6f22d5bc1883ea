package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/llm"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// personalKeywords mark a conversation as worth remembering at high
// importance.
var personalKeywords = []string{
	"important", "remember", "don't forget", "my name", "birthday",
	"favorite", "prefer", "like", "dislike", "family", "work", "hobby",
}

const recallPrompt = `You are a memory assistant recalling past conversations with the user.

What you remember about the user: %s

User question: %s

Answer using what you remember. If nothing relevant is stored, say so honestly rather than inventing details.

Response:`

// MemoryWriter persists memory entries. The store satisfies it.
type MemoryWriter interface {
	InsertMemory(ctx context.Context, entry *domain.MemoryEntry) error
}

// MemoryAgent decides what to remember, persists it, and answers recall
// questions when routed to as primary.
type MemoryAgent struct {
	descriptor
	llm    llm.Client
	writer MemoryWriter
}

var _ Agent = (*MemoryAgent)(nil)

func NewMemoryAgent(client llm.Client, writer MemoryWriter) *MemoryAgent {
	return &MemoryAgent{
		descriptor: descriptor{id: domain.AgentMemory, displayName: "Memory Agent", icon: "🧠"},
		llm:        client,
		writer:     writer,
	}
}

// ShouldUpdate scores a finished exchange. Personal keywords anywhere in
// the pair score 7; a long user message alone scores 4; anything else is
// not worth storing.
func (a *MemoryAgent) ShouldUpdate(userMessage, aiResponse string) *domain.MemoryUpdateDecision {
	combined := strings.ToLower(userMessage + " " + aiResponse)

	for _, kw := range personalKeywords {
		if strings.Contains(combined, kw) {
			return &domain.MemoryUpdateDecision{
				ImportanceScore: 7,
				Reason:          "Contains important personal information",
			}
		}
	}

	if len(userMessage) > 100 {
		return &domain.MemoryUpdateDecision{
			ImportanceScore: 4,
			Reason:          "Detailed conversation",
		}
	}

	return nil
}

// Update persists a conversation summary. Storage failures are logged and
// swallowed; remembering is best-effort and must never fail the reply.
func (a *MemoryAgent) Update(ctx context.Context, userID, summary string, importance int) error {
	entry := &domain.MemoryEntry{
		MemoryID:        "mem_" + uuid.New().String()[:8],
		UserID:          userID,
		Summary:         summary,
		ImportanceScore: importance,
		Context:         "agent_orchestrator",
		CreatedAt:       time.Now().UTC(),
	}
	if err := a.writer.InsertMemory(ctx, entry); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("memory update failed")
		return err
	}
	return nil
}

func (a *MemoryAgent) Process(ctx context.Context, req domain.AgentRequest) domain.AgentResult {
	start := time.Now()

	remembered := req.UserMemorySummary
	if remembered == "" {
		remembered = "Nothing stored yet"
	}
	prompt := fmt.Sprintf(recallPrompt, remembered, req.Message)

	reply, err := a.llm.Generate(ctx, prompt, req.ConversationContext, req.UserMemorySummary)
	if err != nil {
		log.Warn().Err(err).Str("agent", string(a.id)).Msg("generation failed")
		return domain.AgentResult{
			Content:               fmt.Sprintf("I keep track of our conversations! You asked: '%s'. What would you like me to recall?", req.Message),
			Confidence:            0.6,
			ProcessingTimeSeconds: time.Since(start).Seconds(),
			Degraded:              true,
			Error:                 err.Error(),
		}
	}

	return domain.AgentResult{
		Content:               reply.Content,
		Confidence:            0.8,
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	}
}
