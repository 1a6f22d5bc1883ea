// Package llm provides an abstraction for language-generation clients.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Reply is one generated response with its classified emotional tone.
type Reply struct {
	Content string `json:"content"`
	Emotion string `json:"emotion"`
}

// Client defines the interface for language-model operations.
type Client interface {
	// Generate produces a companion reply to one user message. The context
	// and memory blocks are optional and prepended to the prompt when set.
	Generate(ctx context.Context, message, conversationContext, memorySummary string) (*Reply, error)

	// Classify labels the emotional tone of text with one of the eight
	// fixed labels, falling back to "neutral" for anything else.
	Classify(ctx context.Context, text string) (string, error)

	// Summarize condenses formatted conversation lines ("User: ...",
	// "AI: ...") into a short free-text summary for memory storage.
	Summarize(ctx context.Context, lines []string) (string, error)
}

// systemPrompt frames every generation call.
const systemPrompt = `You are an AI Surrogate - a compassionate, intelligent companion designed to provide emotional support, engaging conversation, and helpful assistance.

Your personality traits:
- Empathetic and understanding
- Supportive but not overly sentimental
- Curious and engaging
- Helpful and informative
- Maintains appropriate boundaries

Guidelines:
- Keep responses conversational and natural
- Show genuine interest in the user's wellbeing
- Provide helpful information when requested
- Be emotionally supportive during difficult times
- Maintain a positive, encouraging tone
- Keep responses under 150 words unless specifically asked for more detail`

// summaryWindow caps how many trailing conversation lines feed a summary.
const summaryWindow = 10

// buildPrompt assembles the full generation prompt in the fixed section order.
func buildPrompt(message, conversationContext, memorySummary string) string {
	parts := []string{systemPrompt}
	if memorySummary != "" {
		parts = append(parts, "User context and memory: "+memorySummary)
	}
	if conversationContext != "" {
		parts = append(parts, "Recent conversation context: "+conversationContext)
	}
	parts = append(parts, "User message: "+message, "Respond as the AI Surrogate:")
	return strings.Join(parts, "\n\n")
}

func classifyPrompt(text string) string {
	return fmt.Sprintf(`Analyze the emotional tone of this message and return only one word from this list: happy, sad, neutral, excited, concerned, supportive, curious, thoughtful.

Message: %q

Emotion:`, text)
}

func summaryPrompt(conversation string) string {
	return fmt.Sprintf(`Summarize this conversation focusing on:
1. Key topics discussed
2. User's interests, preferences, or concerns mentioned
3. Important context for future conversations
4. User's emotional state or mood

Keep the summary concise but informative (under 200 words).

Conversation:
%s

Summary:`, conversation)
}

// summaryConversation formats the most recent lines for the summary prompt.
func summaryConversation(lines []string) string {
	if len(lines) > summaryWindow {
		lines = lines[len(lines)-summaryWindow:]
	}
	return strings.Join(lines, "\n")
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
