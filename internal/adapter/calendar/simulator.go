package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Simulator is an in-memory Provider for offline runs and tests.
type Simulator struct {
	mu      sync.Mutex
	created []Event
}

// NewSimulator creates an empty simulator.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Ensure Simulator implements the Provider interface.
var _ Provider = (*Simulator)(nil)

// CreateEvent stores the event and stamps identity and status.
func (s *Simulator) CreateEvent(ctx context.Context, ev Event) (Event, error) {
	ev.ID = "evt_" + uuid.New().String()[:8]
	ev.Status = "confirmed"
	ev.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, ev)
	return ev, nil
}

// ListEvents returns deterministic placeholder events, one per day.
func (s *Simulator) ListEvents(ctx context.Context, daysAhead, maxResults int) ([]Event, error) {
	if daysAhead <= 0 {
		daysAhead = 7
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	n := daysAhead
	if maxResults < n {
		n = maxResults
	}

	now := time.Now().UTC()
	events := make([]Event, 0, n)
	for i := 1; i <= n; i++ {
		start := now.AddDate(0, 0, i)
		events = append(events, Event{
			ID:        fmt.Sprintf("evt_sample_%d", i),
			Title:     fmt.Sprintf("Sample Event %d", i),
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Status:    "confirmed",
		})
	}
	return events, nil
}

// CheckAvailability reports every slot as free.
func (s *Simulator) CheckAvailability(ctx context.Context, start, end time.Time) (bool, error) {
	return true, nil
}

// CancelEvent marks a created event cancelled; unknown IDs are a no-op.
func (s *Simulator) CancelEvent(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.created {
		if s.created[i].ID == eventID {
			s.created[i].Status = "cancelled"
			break
		}
	}
	return nil
}

// Created returns a copy of every event created so far, oldest first.
func (s *Simulator) Created() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.created))
	copy(out, s.created)
	return out
}
