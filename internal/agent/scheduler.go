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

const calendarToolName = "create_calendar_event"

const schedulingGuidancePrompt = `You are a scheduling assistant. The user said: "%s"

Help them with scheduling, time management, or calendar-related tasks. Be specific and actionable.

If they want to schedule something, ask for:
- What event/meeting
- When (date and time)
- Who should attend
- Duration

User message: %s

Response:`

var (
	scheduleKeywords = []string{"schedule", "book meeting", "create event", "add to calendar", "meeting with", "appointment"}
	timeCues         = []string{"tomorrow", "today", "pm", "am", "7pm", "morning", "afternoon"}
	listCues         = []string{"what do i have", "my schedule", "list events", "upcoming"}
)

// SchedulerAgent creates and lists calendar events through the calendar
// tool, or gives scheduling guidance when the message lacks enough detail
// to act.
type SchedulerAgent struct {
	descriptor
	llm   llm.Client
	tools ToolExecutor
}

var _ Agent = (*SchedulerAgent)(nil)

func NewSchedulerAgent(client llm.Client, tools ToolExecutor) *SchedulerAgent {
	return &SchedulerAgent{
		descriptor: descriptor{id: domain.AgentScheduler, displayName: "Scheduler Agent", icon: "📅"},
		llm:        client,
		tools:      tools,
	}
}

func (a *SchedulerAgent) Process(ctx context.Context, req domain.AgentRequest) domain.AgentResult {
	start := time.Now()

	if operation, ok := a.shouldUseTool(req.Message); ok {
		var params map[string]any
		if operation == "create_event" {
			params = extractCalendarParams(req.Message)
		} else {
			params = map[string]any{"operation": "list_events"}
		}

		toolRes := a.tools.Execute(ctx, calendarToolName, params, execContext(req))

		var content string
		switch {
		case toolRes.RequiresConfirmation:
			content = toolRes.ConfirmationPrompt + "\n\nShall I proceed?"
		case toolRes.Success:
			content = toolRes.Message
			if _, hasAttendees := params["attendees"]; hasAttendees {
				content += "\n\nWould you like me to send email invitations to the attendees?"
			}
		default:
			content = fmt.Sprintf("I had trouble scheduling that: %s", toolRes.Message)
		}

		confidence := 0.6
		if toolRes.Success {
			confidence = 0.9
		}
		return domain.AgentResult{
			Content:               content,
			Confidence:            confidence,
			ProcessingTimeSeconds: time.Since(start).Seconds(),
			ToolUsed:              calendarToolName,
			ToolResult:            &toolRes,
			RequiresConfirmation:  toolRes.RequiresConfirmation,
		}
	}

	prompt := fmt.Sprintf(schedulingGuidancePrompt, req.Message, req.Message)
	reply, err := a.llm.Generate(ctx, prompt, req.ConversationContext, req.UserMemorySummary)
	if err != nil {
		log.Warn().Err(err).Str("agent", string(a.id)).Msg("generation failed")
		return domain.AgentResult{
			Content:               fmt.Sprintf("I can help you with scheduling! You mentioned: '%s'. What would you like to schedule?", req.Message),
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

// shouldUseTool picks a calendar operation for the message. Listing wins
// over creation so questions ("what do I have tomorrow?") never turn into
// events; creation needs both schedule intent and an explicit time cue.
func (a *SchedulerAgent) shouldUseTool(message string) (string, bool) {
	lower := strings.ToLower(message)

	for _, cue := range listCues {
		if strings.Contains(lower, cue) {
			return "list_events", true
		}
	}

	hasIntent := false
	for _, kw := range scheduleKeywords {
		if strings.Contains(lower, kw) {
			hasIntent = true
			break
		}
	}
	if !hasIntent {
		return "", false
	}
	for _, cue := range timeCues {
		if strings.Contains(lower, cue) {
			return "create_event", true
		}
	}
	return "", false
}

// extractCalendarParams derives create_event parameters from the message
// text. Purely deterministic: "meeting with <name>" becomes title and
// attendee, "tomorrow"/"today" plus the "7pm" cue become a concrete start
// time, everything else gets the tomorrow-at-10 default.
func extractCalendarParams(message string) map[string]any {
	params := map[string]any{
		"operation":        "create_event",
		"duration_minutes": 60,
	}
	lower := strings.ToLower(message)

	if idx := strings.Index(lower, "meeting with"); idx >= 0 {
		remaining := strings.TrimSpace(message[idx+len("meeting with"):])
		name := "someone"
		if fields := strings.Fields(remaining); len(fields) > 0 {
			name = strings.Trim(fields[0], ".,!?")
		}
		params["title"] = "Meeting with " + capitalize(name)
		params["attendees"] = []string{strings.ToLower(name) + "@example.com"}
	} else if strings.Contains(lower, "book") {
		params["title"] = "Scheduled Event"
	}

	sevenPM := strings.Contains(lower, "7pm") || strings.Contains(lower, "7 pm")
	now := time.Now().UTC()
	var eventTime time.Time
	switch {
	case strings.Contains(lower, "tomorrow"):
		day := now.AddDate(0, 0, 1)
		hour := 10
		if sevenPM {
			hour = 19
		}
		eventTime = time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
	case strings.Contains(lower, "today"):
		if sevenPM {
			eventTime = time.Date(now.Year(), now.Month(), now.Day(), 19, 0, 0, 0, time.UTC)
		} else {
			next := now.Add(time.Hour)
			eventTime = time.Date(next.Year(), next.Month(), next.Day(), next.Hour(), 0, 0, 0, time.UTC)
		}
	default:
		day := now.AddDate(0, 0, 1)
		eventTime = time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)
	}
	params["start_time"] = eventTime.Format("2006-01-02T15:04:05")

	return params
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
