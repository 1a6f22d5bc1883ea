// Package service implements the operations behind the HTTP and WebSocket
// transports: thread lifecycle, message turns through the agent pipeline,
// memory maintenance, and direct tool dispatch.
package service

import (
	"errors"

	"github.com/google/uuid"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/llm"
	"github.com/maliksaad1/ai-surrogate/internal/orchestrator"
	"github.com/maliksaad1/ai-surrogate/internal/store"
	"github.com/maliksaad1/ai-surrogate/internal/tools"
)

var (
	// ErrThreadNotFound is returned when a thread does not exist or belongs
	// to another user.
	ErrThreadNotFound = errors.New("thread not found")
	// ErrMemoryNotFound is returned when a memory entry does not exist or
	// belongs to another user.
	ErrMemoryNotFound = errors.New("memory not found")
	// ErrQueryTooShort is returned by SearchMemories for queries under two
	// characters.
	ErrQueryTooShort = errors.New("query must be at least 2 characters")
	// ErrNoMessages is returned by SummarizeThread for threads with no
	// messages.
	ErrNoMessages = errors.New("no messages to summarize")
)

type Service struct {
	store store.Store
	orc   *orchestrator.Orchestrator
	llm   llm.Client
	tools *tools.Registry
}

func New(st store.Store, orc *orchestrator.Orchestrator, llmClient llm.Client, registry *tools.Registry) *Service {
	return &Service{
		store: st,
		orc:   orc,
		llm:   llmClient,
		tools: registry,
	}
}

func newID(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}
