package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/llm"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// ChatAgent handles general conversation straight through the language
// model, no tools.
type ChatAgent struct {
	descriptor
	llm llm.Client
}

var _ Agent = (*ChatAgent)(nil)

func NewChatAgent(client llm.Client) *ChatAgent {
	return &ChatAgent{
		descriptor: descriptor{id: domain.AgentChat, displayName: "Chat Agent", icon: "💬"},
		llm:        client,
	}
}

func (a *ChatAgent) Process(ctx context.Context, req domain.AgentRequest) domain.AgentResult {
	start := time.Now()

	reply, err := a.llm.Generate(ctx, req.Message, req.ConversationContext, req.UserMemorySummary)
	if err != nil {
		log.Warn().Err(err).Str("agent", string(a.id)).Msg("generation failed")
		return domain.AgentResult{
			Content:               fmt.Sprintf("I understand you're saying: '%s'. I'm here to chat with you!", req.Message),
			Confidence:            0.5,
			ProcessingTimeSeconds: time.Since(start).Seconds(),
			Degraded:              true,
			Error:                 err.Error(),
		}
	}

	return domain.AgentResult{
		Content:               reply.Content,
		Confidence:            0.9,
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	}
}
