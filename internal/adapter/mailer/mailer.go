// Package mailer abstracts the email transport behind the send/read tools.
package mailer

import (
	"context"
	"time"
)

// OutgoingEmail is one message to transmit.
type OutgoingEmail struct {
	To      string   `json:"to"`
	CC      []string `json:"cc,omitempty"`
	BCC     []string `json:"bcc,omitempty"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// EmailSummary is one inbox entry as surfaced to tools.
type EmailSummary struct {
	From    string    `json:"from"`
	Subject string    `json:"subject"`
	Date    time.Time `json:"date"`
	Snippet string    `json:"snippet"`
}

// Mailer sends and lists mail. Implementations must be safe for concurrent
// use; the tool layer never depends on which backend is behind this.
type Mailer interface {
	Send(ctx context.Context, msg OutgoingEmail) error

	// List returns inbox summaries, most recent first, filtered by a
	// case-insensitive subject match when query is non-empty, capped at limit.
	List(ctx context.Context, query string, limit int) ([]EmailSummary, error)
}
