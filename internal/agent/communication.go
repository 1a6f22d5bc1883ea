package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/llm"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

const emailToolName = "send_email"

const communicationGuidancePrompt = `You are a communication assistant. The user said: "%s"

Provide helpful guidance about communication (email, messaging, etc.) without actually performing the action.

Be conversational and helpful. If they want to send an email or message, ask for details like:
- Who should I send it to?
- What should the subject be?
- What message would you like to send?

User message: %s

Response:`

var (
	composeCues = []string{"send email", "email", "send message to", "write email", "compose email", "draft email"}
	readCues    = []string{"check email", "read email", "inbox", "check messages", "any emails"}
	knownNames  = []string{"talha", "ahmad", "saad"}
)

// CommunicationAgent sends and reads email through the email tool, or
// gives communication guidance when the message is not actionable.
type CommunicationAgent struct {
	descriptor
	llm   llm.Client
	tools ToolExecutor
}

var _ Agent = (*CommunicationAgent)(nil)

func NewCommunicationAgent(client llm.Client, tools ToolExecutor) *CommunicationAgent {
	return &CommunicationAgent{
		descriptor: descriptor{id: domain.AgentCommunication, displayName: "Communication Agent", icon: "📧"},
		llm:        client,
		tools:      tools,
	}
}

func (a *CommunicationAgent) Process(ctx context.Context, req domain.AgentRequest) domain.AgentResult {
	start := time.Now()

	if operation, ok := a.shouldUseTool(req.Message); ok {
		var params map[string]any
		if operation == "send" {
			params = extractEmailParams(req.Message)
		} else {
			params = map[string]any{"operation": "read", "limit": 10}
		}

		toolRes := a.tools.Execute(ctx, emailToolName, params, execContext(req))

		var content string
		switch {
		case toolRes.RequiresConfirmation:
			content = toolRes.ConfirmationPrompt + "\n\nPlease confirm to proceed."
		case toolRes.Success:
			content = toolRes.Message
		default:
			content = fmt.Sprintf("I encountered an issue: %s\n\nLet me know if you'd like to try again.", toolRes.Message)
		}

		confidence := 0.6
		if toolRes.Success {
			confidence = 0.9
		}
		return domain.AgentResult{
			Content:               content,
			Confidence:            confidence,
			ProcessingTimeSeconds: time.Since(start).Seconds(),
			ToolUsed:              emailToolName,
			ToolResult:            &toolRes,
			RequiresConfirmation:  toolRes.RequiresConfirmation,
		}
	}

	prompt := fmt.Sprintf(communicationGuidancePrompt, req.Message, req.Message)
	reply, err := a.llm.Generate(ctx, prompt, req.ConversationContext, req.UserMemorySummary)
	if err != nil {
		log.Warn().Err(err).Str("agent", string(a.id)).Msg("generation failed")
		return domain.AgentResult{
			Content:               fmt.Sprintf("I'm here to help with communication! You mentioned: '%s'. I can help you send emails, check messages, or communicate with others. What would you like to do?", req.Message),
			Confidence:            0.5,
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

// shouldUseTool picks an email operation. Read intent is checked first
// since phrases like "check email" also contain the bare compose cue
// "email".
func (a *CommunicationAgent) shouldUseTool(message string) (string, bool) {
	lower := strings.ToLower(message)

	for _, cue := range readCues {
		if strings.Contains(lower, cue) {
			return "read", true
		}
	}

	for _, cue := range composeCues {
		if strings.Contains(lower, cue) {
			hasRecipient := strings.Contains(message, "@")
			if !hasRecipient {
				for _, name := range knownNames {
					if strings.Contains(lower, name) {
						hasRecipient = true
						break
					}
				}
			}
			if hasRecipient || strings.Contains(lower, "send") || strings.Contains(lower, "email") {
				return "send", true
			}
		}
	}

	return "", false
}

// extractEmailParams derives send parameters from the message. An
// "@"-containing token becomes the recipient, else a known first name
// maps to its placeholder address; the word "about" splits subject from
// the rest of the message.
func extractEmailParams(message string) map[string]any {
	params := map[string]any{"operation": "send"}
	lower := strings.ToLower(message)

	if strings.Contains(message, "@") {
		for _, word := range strings.Fields(message) {
			if strings.Contains(word, "@") {
				params["to"] = strings.Trim(word, ".,!? ")
				break
			}
		}
	} else {
		for _, name := range knownNames {
			if strings.Contains(lower, name) {
				params["to"] = name + "@example.com"
				break
			}
		}
	}

	if idx := strings.Index(lower, "about"); idx >= 0 {
		remaining := strings.TrimSpace(message[idx+len("about"):])
		if remaining != "" {
			subject := remaining
			if len(subject) > 50 {
				subject = subject[:50]
			}
			params["subject"] = subject
			params["body"] = remaining
		} else {
			params["subject"] = "Message from AI Surrogate"
			params["body"] = message
		}
	} else {
		params["subject"] = "Message from AI Surrogate"
		params["body"] = message
	}

	return params
}
