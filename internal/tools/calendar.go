package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/calendar"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// CalendarTool schedules, lists, checks, and cancels events through the
// calendar Provider collaborator.
type CalendarTool struct {
	base
	provider calendar.Provider
}

var _ Tool = (*CalendarTool)(nil)

func NewCalendarTool(p calendar.Provider) *CalendarTool {
	return &CalendarTool{
		base: base{
			name:                 "create_calendar_event",
			description:          "Create a calendar event or meeting. Use when user wants to schedule a meeting, book an appointment, set a calendar event, or plan something at a specific time.",
			requiresConfirmation: true,
		},
		provider: p,
	}
}

func (c *CalendarTool) ParameterSchema() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"enum":        []string{"create_event", "list_events", "check_availability", "cancel_event"},
				"description": "The calendar operation to perform",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Event title/name (for create_event)",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Event description (for create_event)",
			},
			"start_time": map[string]any{
				"type":        "string",
				"description": "Event start time in ISO format (YYYY-MM-DDTHH:MM:SS)",
			},
			"end_time": map[string]any{
				"type":        "string",
				"description": "Event end time in ISO format (for check_availability)",
			},
			"duration_minutes": map[string]any{
				"type":        "integer",
				"description": "Event duration in minutes (for create_event)",
				"default":     60,
			},
			"attendees": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "List of attendee email addresses (for create_event)",
			},
			"location": map[string]any{
				"type":        "string",
				"description": "Event location (for create_event)",
			},
			"event_id": map[string]any{
				"type":        "string",
				"description": "Event ID (for cancel_event)",
			},
			"days_ahead": map[string]any{
				"type":        "integer",
				"description": "Number of days to look ahead (for list_events)",
				"default":     7,
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of events to return (for list_events)",
				"default":     10,
			},
		},
		Required: []string{"operation"},
	}
}

func (c *CalendarTool) Execute(ctx context.Context, params map[string]any, tec domain.ToolExecutionContext) domain.ToolResult {
	return c.run(ctx, params, tec, c.ParameterSchema(), c.confirmationPrompt, c.execute)
}

func (c *CalendarTool) execute(ctx context.Context, params map[string]any, tec domain.ToolExecutionContext) domain.ToolResult {
	operation := stringParam(params, "operation", "create_event")

	switch operation {
	case "create_event":
		return c.createEvent(ctx, params)
	case "list_events":
		return c.listEvents(ctx, params)
	case "check_availability":
		return c.checkAvailability(ctx, params)
	case "cancel_event":
		return c.cancelEvent(ctx, params)
	default:
		return domain.ToolResult{
			Success: false,
			Error:   fmt.Sprintf("Unknown operation: %s", operation),
			Message: "Invalid calendar operation",
		}
	}
}

func (c *CalendarTool) createEvent(ctx context.Context, params map[string]any) domain.ToolResult {
	title := stringParam(params, "title", "Meeting")
	description := stringParam(params, "description", "")
	startTime := stringParam(params, "start_time", "")
	duration := intParam(params, "duration_minutes", 60)
	attendees := stringSliceParam(params, "attendees")
	location := stringParam(params, "location", "")

	if startTime == "" {
		return domain.ToolResult{
			Success: false,
			Error:   "start_time is required",
			Message: "Please specify when the event should start",
		}
	}

	startDt, err := parseISOTime(startTime)
	if err != nil {
		return domain.ToolResult{
			Success: false,
			Error:   fmt.Sprintf("Invalid start_time format: %s", err),
			Message: "Please provide start_time in ISO format (YYYY-MM-DDTHH:MM:SS)",
		}
	}
	endDt := startDt.Add(time.Duration(duration) * time.Minute)

	created, err := c.provider.CreateEvent(ctx, calendar.Event{
		Title:           title,
		Description:     description,
		StartTime:       startDt,
		EndTime:         endDt,
		DurationMinutes: duration,
		Attendees:       attendees,
		Location:        location,
	})
	if err != nil {
		return domain.ToolResult{
			Success: false,
			Error:   err.Error(),
			Message: fmt.Sprintf("Failed to create calendar event: %s", err),
		}
	}

	attendeesMsg := ""
	if len(attendees) > 0 {
		attendeesMsg = " with " + strings.Join(attendees, ", ")
	}
	locationMsg := ""
	if location != "" {
		locationMsg = " at " + location
	}

	return domain.ToolResult{
		Success: true,
		Data: map[string]any{
			"id":               created.ID,
			"title":            created.Title,
			"description":      created.Description,
			"start_time":       created.StartTime.Format(time.RFC3339),
			"end_time":         created.EndTime.Format(time.RFC3339),
			"duration_minutes": created.DurationMinutes,
			"attendees":        created.Attendees,
			"location":         created.Location,
			"created_at":       created.CreatedAt.Format(time.RFC3339),
			"status":           created.Status,
		},
		Message: fmt.Sprintf("✅ Calendar event created: '%s' on %s%s%s", title, startDt.Format("January 02 at 03:04 PM"), attendeesMsg, locationMsg),
		Metadata: map[string]any{
			"operation":       "create_event",
			"attendees_count": len(attendees),
		},
	}
}

func (c *CalendarTool) listEvents(ctx context.Context, params map[string]any) domain.ToolResult {
	daysAhead := intParam(params, "days_ahead", 7)
	maxResults := intParam(params, "max_results", 10)

	events, err := c.provider.ListEvents(ctx, daysAhead, maxResults)
	if err != nil {
		return domain.ToolResult{
			Success: false,
			Error:   err.Error(),
			Message: fmt.Sprintf("Failed to list events: %s", err),
		}
	}

	items := make([]map[string]any, 0, len(events))
	for _, ev := range events {
		items = append(items, map[string]any{
			"id":         ev.ID,
			"title":      ev.Title,
			"start_time": ev.StartTime.Format(time.RFC3339),
			"end_time":   ev.EndTime.Format(time.RFC3339),
		})
	}

	return domain.ToolResult{
		Success:  true,
		Data:     map[string]any{"events": items, "count": len(items)},
		Message:  fmt.Sprintf("Found %d upcoming events in the next %d days", len(items), daysAhead),
		Metadata: map[string]any{"operation": "list_events"},
	}
}

func (c *CalendarTool) checkAvailability(ctx context.Context, params map[string]any) domain.ToolResult {
	startTime := stringParam(params, "start_time", "")
	endTime := stringParam(params, "end_time", "")

	if startTime == "" || endTime == "" {
		return domain.ToolResult{
			Success: false,
			Error:   "Both start_time and end_time are required",
			Message: "Please specify the time range to check",
		}
	}

	startDt, err := parseISOTime(startTime)
	if err != nil {
		return domain.ToolResult{
			Success: false,
			Error:   err.Error(),
			Message: fmt.Sprintf("Failed to check availability: %s", err),
		}
	}
	endDt, err := parseISOTime(endTime)
	if err != nil {
		return domain.ToolResult{
			Success: false,
			Error:   err.Error(),
			Message: fmt.Sprintf("Failed to check availability: %s", err),
		}
	}

	available, err := c.provider.CheckAvailability(ctx, startDt, endDt)
	if err != nil {
		return domain.ToolResult{
			Success: false,
			Error:   err.Error(),
			Message: fmt.Sprintf("Failed to check availability: %s", err),
		}
	}

	message := fmt.Sprintf("✅ Time slot is available from %s to %s", startDt.Format("03:04 PM"), endDt.Format("03:04 PM"))
	if !available {
		message = fmt.Sprintf("Time slot is not available from %s to %s", startDt.Format("03:04 PM"), endDt.Format("03:04 PM"))
	}

	return domain.ToolResult{
		Success: true,
		Data: map[string]any{
			"available":  available,
			"start_time": startTime,
			"end_time":   endTime,
		},
		Message:  message,
		Metadata: map[string]any{"operation": "check_availability"},
	}
}

func (c *CalendarTool) cancelEvent(ctx context.Context, params map[string]any) domain.ToolResult {
	eventID := stringParam(params, "event_id", "")
	if eventID == "" {
		return domain.ToolResult{
			Success: false,
			Error:   "event_id is required",
			Message: "Please specify which event to cancel",
		}
	}

	if err := c.provider.CancelEvent(ctx, eventID); err != nil {
		return domain.ToolResult{
			Success: false,
			Error:   err.Error(),
			Message: fmt.Sprintf("Failed to cancel event: %s", err),
		}
	}

	return domain.ToolResult{
		Success:  true,
		Data:     map[string]any{"event_id": eventID, "status": "cancelled"},
		Message:  "✅ Event cancelled successfully",
		Metadata: map[string]any{"operation": "cancel_event"},
	}
}

func (c *CalendarTool) confirmationPrompt(params map[string]any) string {
	operation := stringParam(params, "operation", "")

	switch operation {
	case "create_event":
		title := stringParam(params, "title", "Untitled Event")
		startTime := stringParam(params, "start_time", "")
		duration := intParam(params, "duration_minutes", 60)
		attendees := stringSliceParam(params, "attendees")

		timeStr := startTime
		if dt, err := parseISOTime(startTime); err == nil {
			timeStr = dt.Format("January 02 at 03:04 PM")
		}
		attendeesMsg := ""
		if len(attendees) > 0 {
			attendeesMsg = "\nAttendees: " + strings.Join(attendees, ", ")
		}
		return fmt.Sprintf("📅 Create Calendar Event\n\nTitle: %s\nWhen: %s\nDuration: %d minutes%s\n\nDo you want to create this event?", title, timeStr, duration, attendeesMsg)
	case "cancel_event":
		return "⚠️ Are you sure you want to cancel this event? This action cannot be undone."
	default:
		return fmt.Sprintf("Do you want to perform calendar operation: %s?", operation)
	}
}

// parseISOTime accepts RFC 3339 timestamps as well as the bare
// YYYY-MM-DDTHH:MM:SS form without a zone offset.
func parseISOTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
}
