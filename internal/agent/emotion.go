package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/llm"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

const empathyPrompt = `The user seems to be expressing emotion in their message. Respond with empathy and emotional intelligence.

User message: %s

Provide a compassionate, supportive response that acknowledges their feelings.`

// EmotionAgent classifies emotional tone and, as a primary agent,
// generates empathetic replies.
type EmotionAgent struct {
	descriptor
	llm llm.Client
}

var _ Agent = (*EmotionAgent)(nil)

func NewEmotionAgent(client llm.Client) *EmotionAgent {
	return &EmotionAgent{
		descriptor: descriptor{id: domain.AgentEmotion, displayName: "Emotion Agent", icon: "🎭"},
		llm:        client,
	}
}

// Analyze classifies text into the closed emotion vocabulary. It never
// fails: classification errors and out-of-vocabulary labels collapse to
// neutral.
func (a *EmotionAgent) Analyze(ctx context.Context, text string) string {
	emotion, err := a.llm.Classify(ctx, text)
	if err != nil {
		log.Debug().Err(err).Msg("emotion classification failed")
		return domain.EmotionNeutral
	}
	if !domain.KnownEmotion(emotion) {
		return domain.EmotionNeutral
	}
	return emotion
}

func (a *EmotionAgent) Process(ctx context.Context, req domain.AgentRequest) domain.AgentResult {
	start := time.Now()

	prompt := fmt.Sprintf(empathyPrompt, req.Message)
	reply, err := a.llm.Generate(ctx, prompt, req.ConversationContext, req.UserMemorySummary)
	if err != nil {
		log.Warn().Err(err).Str("agent", string(a.id)).Msg("generation failed")
		return domain.AgentResult{
			Content:               "I understand you're going through something. I'm here to listen and support you.",
			Confidence:            0.6,
			ProcessingTimeSeconds: time.Since(start).Seconds(),
			Degraded:              true,
			Error:                 err.Error(),
		}
	}

	return domain.AgentResult{
		Content:               reply.Content,
		Confidence:            0.85,
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	}
}
