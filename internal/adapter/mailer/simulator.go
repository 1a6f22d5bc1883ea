package mailer

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Simulator is an in-memory Mailer for offline runs and tests. Sends land in
// an inspectable outbox; reads serve a canned inbox.
type Simulator struct {
	mu     sync.Mutex
	outbox []OutgoingEmail
	inbox  []EmailSummary
}

// NewSimulator creates a simulator with a small canned inbox.
func NewSimulator() *Simulator {
	now := time.Now()
	return &Simulator{
		inbox: []EmailSummary{
			{
				From:    "talha@example.com",
				Subject: "Project update",
				Date:    now.Add(-1 * time.Hour),
				Snippet: "Quick update on where we landed this week. The integration branch is green and",
			},
			{
				From:    "ahmad@example.com",
				Subject: "Lunch tomorrow?",
				Date:    now.Add(-24 * time.Hour),
				Snippet: "Are you free around noon? There is a new place near the office I want to try.",
			},
			{
				From:    "noreply@example.com",
				Subject: "Your weekly digest",
				Date:    now.Add(-48 * time.Hour),
				Snippet: "Here is what happened in your workspace this week.",
			},
		},
	}
}

// Ensure Simulator implements the Mailer interface.
var _ Mailer = (*Simulator)(nil)

// Send records the message in the outbox.
func (s *Simulator) Send(ctx context.Context, msg OutgoingEmail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, msg)
	return nil
}

// List serves the canned inbox, most recent first.
func (s *Simulator) List(ctx context.Context, query string, limit int) ([]EmailSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}

	q := strings.ToLower(query)
	out := make([]EmailSummary, 0, limit)
	for _, e := range s.inbox {
		if q != "" && !strings.Contains(strings.ToLower(e.Subject), q) {
			continue
		}
		out = append(out, e)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Outbox returns a copy of every sent message, oldest first.
func (s *Simulator) Outbox() []OutgoingEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]OutgoingEmail, len(s.outbox))
	copy(out, s.outbox)
	return out
}
