package mailer

import (
	"context"
	"testing"
)

func TestSimulatorSendRecordsOutbox(t *testing.T) {
	s := NewSimulator()
	ctx := context.Background()

	err := s.Send(ctx, OutgoingEmail{To: "talha@example.com", Subject: "hi", Body: "hello"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	out := s.Outbox()
	if len(out) != 1 {
		t.Fatalf("expected 1 sent message, got %d", len(out))
	}
	if out[0].To != "talha@example.com" || out[0].Subject != "hi" {
		t.Fatalf("unexpected message: %+v", out[0])
	}
}

func TestSimulatorListFilters(t *testing.T) {
	s := NewSimulator()
	ctx := context.Background()

	all, err := s.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected the canned inbox, got %d entries", len(all))
	}
	if !all[0].Date.After(all[1].Date) {
		t.Fatal("inbox should be most recent first")
	}

	matched, err := s.List(ctx, "LUNCH", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(matched) != 1 || matched[0].Subject != "Lunch tomorrow?" {
		t.Fatalf("unexpected filter result: %+v", matched)
	}

	capped, err := s.List(ctx, "", 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(capped) != 2 {
		t.Fatalf("expected limit 2, got %d", len(capped))
	}
}
