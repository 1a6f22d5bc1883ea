package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/mailer"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// EmailTool sends, reads, and searches email through the Mailer
// collaborator. Sending is gated behind user confirmation.
type EmailTool struct {
	base
	mailer mailer.Mailer
}

var _ Tool = (*EmailTool)(nil)

func NewEmailTool(m mailer.Mailer) *EmailTool {
	return &EmailTool{
		base: base{
			name:                 "send_email",
			description:          "Send an email to someone. Use this when the user wants to email someone, send a message via email, or communicate through email.",
			requiresConfirmation: true,
		},
		mailer: m,
	}
}

func (e *EmailTool) ParameterSchema() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"enum":        []string{"send", "read", "search"},
				"description": "The operation to perform",
			},
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient email address (for send operation)",
			},
			"subject": map[string]any{
				"type":        "string",
				"description": "Email subject (for send operation)",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Email body content (for send operation)",
			},
			"query": map[string]any{
				"type":        "string",
				"description": "Search query (for search operation)",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Number of emails to retrieve (for read/search operations)",
				"default":     10,
			},
		},
		Required: []string{"operation"},
	}
}

func (e *EmailTool) Execute(ctx context.Context, params map[string]any, tec domain.ToolExecutionContext) domain.ToolResult {
	return e.run(ctx, params, tec, e.ParameterSchema(), e.confirmationPrompt, e.execute)
}

func (e *EmailTool) execute(ctx context.Context, params map[string]any, tec domain.ToolExecutionContext) domain.ToolResult {
	operation := stringParam(params, "operation", "send")

	switch operation {
	case "send":
		return e.sendEmail(ctx, params)
	case "read":
		return e.readEmails(ctx, params)
	case "search":
		return e.searchEmails(ctx, params)
	default:
		return domain.ToolResult{
			Success: false,
			Error:   fmt.Sprintf("Unknown operation: %s", operation),
			Message: "Invalid operation specified",
		}
	}
}

func (e *EmailTool) sendEmail(ctx context.Context, params map[string]any) domain.ToolResult {
	to := stringParam(params, "to", "")
	if to == "" {
		return domain.ToolResult{
			Success: false,
			Error:   "Recipient email address is required",
			Message: "Please specify who to send the email to",
		}
	}
	subject := stringParam(params, "subject", "Message from AI Surrogate")
	body := stringParam(params, "body", "")
	cc := stringSliceParam(params, "cc")
	bcc := stringSliceParam(params, "bcc")

	msg := mailer.OutgoingEmail{
		To:      to,
		CC:      cc,
		BCC:     bcc,
		Subject: subject,
		Body:    body,
	}
	if err := e.mailer.Send(ctx, msg); err != nil {
		return domain.ToolResult{
			Success: false,
			Error:   err.Error(),
			Message: fmt.Sprintf("Failed to send email: %s", err),
		}
	}

	return domain.ToolResult{
		Success: true,
		Data: map[string]any{
			"to":      to,
			"subject": subject,
			"sent_at": time.Now().UTC().Format(time.RFC3339),
		},
		Message: fmt.Sprintf("✅ Email sent successfully to %s", to),
		Metadata: map[string]any{
			"operation":        "send",
			"recipients_count": 1 + len(cc) + len(bcc),
		},
	}
}

func (e *EmailTool) readEmails(ctx context.Context, params map[string]any) domain.ToolResult {
	limit := intParam(params, "limit", 10)

	emails, err := e.mailer.List(ctx, "", limit)
	if err != nil {
		return domain.ToolResult{
			Success: false,
			Error:   err.Error(),
			Message: fmt.Sprintf("Failed to read emails: %s", err),
		}
	}

	items := make([]map[string]any, 0, len(emails))
	for _, em := range emails {
		items = append(items, map[string]any{
			"from":    em.From,
			"subject": em.Subject,
			"date":    em.Date.Format(time.RFC1123Z),
			"snippet": clip(em.Snippet, 200),
		})
	}

	return domain.ToolResult{
		Success:  true,
		Data:     map[string]any{"emails": items, "count": len(items)},
		Message:  fmt.Sprintf("Retrieved %d emails", len(items)),
		Metadata: map[string]any{"operation": "read"},
	}
}

func (e *EmailTool) searchEmails(ctx context.Context, params map[string]any) domain.ToolResult {
	query := stringParam(params, "query", "")
	limit := intParam(params, "limit", 10)

	emails, err := e.mailer.List(ctx, query, limit)
	if err != nil {
		return domain.ToolResult{
			Success: false,
			Error:   err.Error(),
			Message: fmt.Sprintf("Failed to search emails: %s", err),
		}
	}

	items := make([]map[string]any, 0, len(emails))
	for _, em := range emails {
		items = append(items, map[string]any{
			"from":    em.From,
			"subject": em.Subject,
			"date":    em.Date.Format(time.RFC1123Z),
		})
	}

	return domain.ToolResult{
		Success:  true,
		Data:     map[string]any{"emails": items, "count": len(items), "query": query},
		Message:  fmt.Sprintf("Found %d emails matching '%s'", len(items), query),
		Metadata: map[string]any{"operation": "search"},
	}
}

func (e *EmailTool) confirmationPrompt(params map[string]any) string {
	operation := stringParam(params, "operation", "")

	if operation == "send" {
		to := stringParam(params, "to", "")
		subject := stringParam(params, "subject", "No subject")
		body := stringParam(params, "body", "")
		preview := body
		if len(body) > 100 {
			preview = body[:100] + "..."
		}
		return fmt.Sprintf("📧 Send Email Confirmation\n\nTo: %s\nSubject: %s\nMessage: %s\n\nDo you want to send this email?", to, subject, preview)
	}

	return fmt.Sprintf("Do you want to %s emails?", operation)
}

func clip(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
