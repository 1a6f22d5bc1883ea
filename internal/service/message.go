package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
	"github.com/maliksaad1/ai-surrogate/internal/orchestrator"
)

const (
	// contextWindow is how many recent messages are replayed to the agents.
	contextWindow = 10
	// memoryContextLimit is how many memory summaries accompany a request.
	memoryContextLimit = 3
	// summaryImportance is the importance score of stored thread summaries.
	summaryImportance = 5
)

// SendMessageInput carries one user turn into the pipeline.
type SendMessageInput struct {
	UserID   string
	ThreadID string
	Message  string
	// Sink, when non-nil, receives execution trace entries as they are
	// produced. The WebSocket transport uses it for live progress events.
	Sink orchestrator.Sink
}

// SendMessageResult is the stored outcome of one user turn.
type SendMessageResult struct {
	UserMessage      *domain.ChatMessage
	AssistantMessage *domain.ChatMessage
	Response         *domain.OrchestratorResponse
}

// SendMessage runs one user turn. The user message is saved before the
// pipeline runs, so a failing turn still leaves the question in the thread,
// and the saved message is part of the context replayed to the agents.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageResult, error) {
	if _, err := s.GetThread(ctx, in.UserID, in.ThreadID); err != nil {
		return nil, err
	}

	userMsg := &domain.ChatMessage{
		MessageID: newID("msg"),
		ThreadID:  in.ThreadID,
		Role:      domain.RoleUser,
		Content:   in.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	req := domain.AgentRequest{
		Message:             in.Message,
		UserID:              in.UserID,
		ThreadID:            in.ThreadID,
		ConversationContext: s.conversationContext(ctx, in.ThreadID),
		UserMemorySummary:   s.memoryContext(ctx, in.UserID),
	}
	resp := s.orc.ProcessTraced(ctx, req, in.Sink)

	metadata, err := json.Marshal(resp.Metadata)
	if err != nil {
		log.Warn().Err(err).Str("thread_id", in.ThreadID).Msg("failed to encode response metadata")
		metadata = nil
	}
	assistantMsg := &domain.ChatMessage{
		MessageID: newID("msg"),
		ThreadID:  in.ThreadID,
		Role:      domain.RoleAssistant,
		Content:   resp.Response,
		Emotion:   resp.Emotion,
		AgentUsed: resp.AgentUsed,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateMessage(ctx, assistantMsg); err != nil {
		log.Warn().Err(err).Str("thread_id", in.ThreadID).Msg("failed to save assistant message")
	}
	if err := s.store.TouchThread(ctx, in.ThreadID, time.Now().UTC()); err != nil {
		log.Warn().Err(err).Str("thread_id", in.ThreadID).Msg("failed to update thread activity")
	}

	return &SendMessageResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Response:         &resp,
	}, nil
}

// SummaryResult reports a thread summary and whether it was stored.
type SummaryResult struct {
	Summary     string `json:"summary"`
	MemorySaved bool   `json:"memory_saved"`
}

// SummarizeThread condenses a whole thread into one stored memory entry.
// Generation failures are not errors: the caller gets a placeholder summary
// with MemorySaved false.
func (s *Service) SummarizeThread(ctx context.Context, userID, threadID string) (*SummaryResult, error) {
	if _, err := s.GetThread(ctx, userID, threadID); err != nil {
		return nil, err
	}
	messages, err := s.store.ListMessages(ctx, threadID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	summary, err := s.llm.Summarize(ctx, renderTranscript(messages))
	if err != nil {
		log.Warn().Err(err).Str("thread_id", threadID).Msg("summary generation failed")
	}
	if summary == "" {
		return &SummaryResult{Summary: "Unable to generate summary"}, nil
	}

	entry := &domain.MemoryEntry{
		MemoryID:        newID("mem"),
		UserID:          userID,
		Summary:         summary,
		ImportanceScore: summaryImportance,
		Context:         "conversation_summary",
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.InsertMemory(ctx, entry); err != nil {
		log.Warn().Err(err).Str("thread_id", threadID).Msg("failed to save thread summary")
		return &SummaryResult{Summary: summary}, nil
	}
	return &SummaryResult{Summary: summary, MemorySaved: true}, nil
}

// conversationContext renders the thread's most recent messages, including
// the turn just saved, as "User:"/"AI:" lines. Context loading is best
// effort: on failure the request proceeds without history.
func (s *Service) conversationContext(ctx context.Context, threadID string) string {
	messages, err := s.store.ListRecentMessages(ctx, threadID, contextWindow)
	if err != nil {
		log.Warn().Err(err).Str("thread_id", threadID).Msg("failed to load conversation context")
		return ""
	}
	return strings.Join(renderTranscript(messages), "\n")
}

// memoryContext joins the user's most important memory summaries.
func (s *Service) memoryContext(ctx context.Context, userID string) string {
	memories, err := s.store.ListMemories(ctx, userID, 0, memoryContextLimit)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to load memory context")
		return ""
	}
	lines := make([]string, 0, len(memories))
	for _, m := range memories {
		lines = append(lines, m.Summary)
	}
	return strings.Join(lines, "\n")
}

func renderTranscript(messages []domain.ChatMessage) []string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Role == domain.RoleUser {
			lines = append(lines, "User: "+m.Content)
		} else {
			lines = append(lines, "AI: "+m.Content)
		}
	}
	return lines
}
