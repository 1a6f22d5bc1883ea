package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// MockClient is a deterministic offline implementation of Client, used when
// SURROGATE_MODE=MOCK and in tests.
type MockClient struct{}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements the Client interface.
var _ Client = (*MockClient)(nil)

// Generate returns a canned reply echoing a truncated copy of the message.
func (m *MockClient) Generate(ctx context.Context, message, conversationContext, memorySummary string) (*Reply, error) {
	return &Reply{
		Content: fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(message, 100)),
		Emotion: keywordEmotion(message),
	}, nil
}

// Classify labels text with a keyword-derived emotion.
func (m *MockClient) Classify(ctx context.Context, text string) (string, error) {
	return keywordEmotion(text), nil
}

// Summarize returns a canned summary over the most recent lines.
func (m *MockClient) Summarize(ctx context.Context, lines []string) (string, error) {
	if len(lines) == 0 {
		return "", nil
	}
	return fmt.Sprintf("[MOCK] Summary of %d conversation lines: %s", len(lines), truncate(summaryConversation(lines), 160)), nil
}

// keywordEmotion gives the mock a stable emotional read of the input.
func keywordEmotion(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "happy") || strings.Contains(t, "great") || strings.Contains(t, "awesome"):
		return domain.EmotionHappy
	case strings.Contains(t, "sad") || strings.Contains(t, "upset") || strings.Contains(t, "miss"):
		return domain.EmotionSad
	case strings.Contains(t, "excited") || strings.Contains(t, "amazing"):
		return domain.EmotionExcited
	case strings.Contains(t, "worried") || strings.Contains(t, "anxious") || strings.Contains(t, "stressed"):
		return domain.EmotionConcerned
	case strings.Contains(t, "thank") || strings.Contains(t, "help"):
		return domain.EmotionSupportive
	case strings.Contains(t, "?") || strings.Contains(t, "how") || strings.Contains(t, "why"):
		return domain.EmotionCurious
	default:
		return domain.EmotionNeutral
	}
}
