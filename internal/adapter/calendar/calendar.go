// Package calendar abstracts the calendar backend behind the scheduling tool.
package calendar

import (
	"context"
	"time"
)

// Event is one calendar entry.
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Attendees       []string  `json:"attendees,omitempty"`
	Location        string    `json:"location,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// Provider performs calendar operations. Implementations must be safe for
// concurrent use; the tool layer never depends on which backend is behind
// this.
type Provider interface {
	CreateEvent(ctx context.Context, ev Event) (Event, error)
	ListEvents(ctx context.Context, daysAhead, maxResults int) ([]Event, error)
	CheckAvailability(ctx context.Context, start, end time.Time) (bool, error)
	CancelEvent(ctx context.Context, eventID string) error
}
