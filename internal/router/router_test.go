package router

import (
	"testing"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

func TestRoutePriorityChain(t *testing.T) {
	r := NewKeywordRouter()

	cases := []struct {
		name    string
		message string
		want    domain.AgentID
	}{
		{"email wins", "please send email to talha", domain.AgentCommunication},
		{"inbox wins", "anything new in my inbox?", domain.AgentCommunication},
		{"email beats scheduling", "email me the meeting notes tomorrow", domain.AgentCommunication},
		{"schedule", "schedule a meeting with talha tomorrow at 7pm", domain.AgentScheduler},
		{"calendar", "what's on my calendar", domain.AgentScheduler},
		{"reminder", "set a reminder for the dentist", domain.AgentScheduler},
		{"scheduling beats docs", "create a meeting for friday", domain.AgentScheduler},
		{"search", "search for the quarterly report", domain.AgentDocs},
		{"what is", "what is a goroutine?", domain.AgentDocs},
		{"pdf", "open that pdf for me", domain.AgentDocs},
		{"docs beats memory", "find what you said in the report", domain.AgentDocs},
		{"remember", "remember that my sister is called Ana", domain.AgentMemory},
		{"we talked about", "we talked about this already", domain.AgentMemory},
		{"default chat", "good morning!", domain.AgentChat},
		{"empty message", "", domain.AgentChat},
		{"case insensitive", "SCHEDULE A MEETING", domain.AgentScheduler},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Route(tc.message)
			if got != tc.want {
				t.Fatalf("Route(%q) = %q, want %q", tc.message, got, tc.want)
			}
		})
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	r := NewKeywordRouter()
	msg := "can you find my meeting notes and email them to ahmad"
	first := r.Route(msg)
	for i := 0; i < 5; i++ {
		if got := r.Route(msg); got != first {
			t.Fatalf("Route not stable: got %q then %q", first, got)
		}
	}
	if first != domain.AgentCommunication {
		t.Fatalf("expected communication tier to win, got %q", first)
	}
}

func TestRouteExcludedSubstrings(t *testing.T) {
	r := NewKeywordRouter()

	// "sometimes" and "update" must not trip the scheduler tier via bare
	// "time"/"date" substrings.
	cases := []struct {
		message string
		want    domain.AgentID
	}{
		{"sometimes I wonder about things", domain.AgentChat},
		{"any update on your side?", domain.AgentChat},
	}
	for _, tc := range cases {
		if got := r.Route(tc.message); got != tc.want {
			t.Fatalf("Route(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}
