package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/llm"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

const docsPrompt = `You are a knowledgeable assistant helping with information requests. The user is asking: "%s"

Provide accurate, helpful information. If you're not certain about specific facts, be honest about limitations.

Context: %s
User question: %s

Helpful response:`

// DocsAgent answers information and documentation questions. Pure
// language generation, no tools.
type DocsAgent struct {
	descriptor
	llm llm.Client
}

var _ Agent = (*DocsAgent)(nil)

func NewDocsAgent(client llm.Client) *DocsAgent {
	return &DocsAgent{
		descriptor: descriptor{id: domain.AgentDocs, displayName: "Docs Agent", icon: "📚"},
		llm:        client,
	}
}

func (a *DocsAgent) Process(ctx context.Context, req domain.AgentRequest) domain.AgentResult {
	start := time.Now()

	contextNote := req.ConversationContext
	if contextNote == "" {
		contextNote = "No previous context"
	}
	prompt := fmt.Sprintf(docsPrompt, req.Message, contextNote, req.Message)

	reply, err := a.llm.Generate(ctx, prompt, req.ConversationContext, req.UserMemorySummary)
	if err != nil {
		log.Warn().Err(err).Str("agent", string(a.id)).Msg("generation failed")
		return domain.AgentResult{
			Content:               fmt.Sprintf("I'd be happy to help you find information about: '%s'. Let me provide what I can help with!", req.Message),
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
