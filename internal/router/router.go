// Package router maps an incoming user message to the agent that should
// handle it. Matching is keyword-based and deterministic; the orchestrator
// depends only on the Router interface so a smarter classifier can be
// swapped in later.
package router

import (
	"strings"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// Router selects the primary agent for a message.
type Router interface {
	Route(message string) domain.AgentID
}

// tier is one priority level of the keyword chain. Earlier tiers win.
type tier struct {
	agent    domain.AgentID
	keywords []string
}

// KeywordRouter routes by case-insensitive substring match against an
// ordered keyword chain. Route is pure: no state, no I/O, and the same
// message always yields the same agent.
type KeywordRouter struct {
	tiers []tier
}

var _ Router = (*KeywordRouter)(nil)

// NewKeywordRouter builds the default priority chain. Communication beats
// scheduling beats docs beats memory; anything unmatched goes to chat.
// Bare "time", "date" and "plan" are deliberately absent from the scheduler
// tier: as substrings they swallow unrelated words ("sometimes", "update",
// "explanation") and misroute small talk.
func NewKeywordRouter() *KeywordRouter {
	return &KeywordRouter{
		tiers: []tier{
			{
				agent:    domain.AgentCommunication,
				keywords: []string{"send email", "email", "inbox"},
			},
			{
				agent: domain.AgentScheduler,
				keywords: []string{
					"schedule", "calendar", "appointment", "meeting",
					"reminder", "task", "todo", "tomorrow", "today", "next week",
				},
			},
			{
				agent: domain.AgentDocs,
				keywords: []string{
					"search", "find", "lookup", "information", "explain",
					"what is", "how to", "help with", "documentation", "guide",
					"document", "file", "pdf", "write", "create", "summary",
				},
			},
			{
				agent: domain.AgentMemory,
				keywords: []string{
					"remember", "forget", "recall", "you said",
					"we talked about", "last time", "before", "history",
				},
			},
		},
	}
}

// Route returns the first tier whose keywords appear in the message, or
// AgentChat when nothing matches.
func (r *KeywordRouter) Route(message string) domain.AgentID {
	lower := strings.ToLower(message)
	for _, t := range r.tiers {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.agent
			}
		}
	}
	return domain.AgentChat
}
