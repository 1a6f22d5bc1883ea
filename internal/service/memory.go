package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
	"github.com/maliksaad1/ai-surrogate/internal/store"
)

const (
	maxImportance = 10

	// Consolidation merges old low-importance memories into one entry. A
	// sweep only fires when the user has at least consolidationMinOld
	// memories older than consolidationAge, of which at least
	// consolidationMinLow score consolidationLowCutoff or below.
	consolidationAge       = 30 * 24 * time.Hour
	consolidationMinOld    = 5
	consolidationMinLow    = 3
	consolidationLowCutoff = 3
	consolidationMaxTake   = 5
	consolidatedImportance = 4
	consolidatedSummaryCap = 10
	consolidatedTextCap    = 200

	patternTopicLimit = 5
	patternTopicWidth = 50
)

// AddMemory stores a manual memory entry. Importance is clamped to the
// 1..10 scale.
func (s *Service) AddMemory(ctx context.Context, userID, summary, contextLabel string, importance int) (*domain.MemoryEntry, error) {
	entry := &domain.MemoryEntry{
		MemoryID:        newID("mem"),
		UserID:          userID,
		Summary:         summary,
		ImportanceScore: clampImportance(importance),
		Context:         contextLabel,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.InsertMemory(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save memory: %w", err)
	}
	return entry, nil
}

// UpdateMemory replaces one of the user's memory entries.
func (s *Service) UpdateMemory(ctx context.Context, userID, memoryID, summary, contextLabel string, importance int) (*domain.MemoryEntry, error) {
	entry := &domain.MemoryEntry{
		MemoryID:        memoryID,
		UserID:          userID,
		Summary:         summary,
		ImportanceScore: clampImportance(importance),
		Context:         contextLabel,
	}
	if err := s.store.UpdateMemory(ctx, entry); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMemoryNotFound
		}
		return nil, fmt.Errorf("failed to update memory: %w", err)
	}
	return entry, nil
}

// ListMemories returns the user's memories at or above minImportance, most
// important first.
func (s *Service) ListMemories(ctx context.Context, userID string, minImportance, limit int) ([]domain.MemoryEntry, error) {
	return s.store.ListMemories(ctx, userID, minImportance, limit)
}

// SearchMemories finds memories whose summary or context match the query.
func (s *Service) SearchMemories(ctx context.Context, userID, query string, limit int) ([]domain.MemoryEntry, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, ErrQueryTooShort
	}
	return s.store.SearchMemories(ctx, userID, query, limit)
}

// DeleteMemory removes one of the user's memory entries.
func (s *Service) DeleteMemory(ctx context.Context, userID, memoryID string) error {
	if err := s.store.DeleteMemory(ctx, memoryID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemoryNotFound
		}
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	return nil
}

// ConsolidationResult reports one consolidation sweep.
type ConsolidationResult struct {
	Message      string `json:"message"`
	Consolidated int    `json:"consolidated"`
	NewMemoryID  string `json:"new_memory_id,omitempty"`
}

// Consolidate merges the user's old low-importance memories into a single
// replacement entry and deletes the originals, capped per sweep so a large
// backlog drains gradually.
func (s *Service) Consolidate(ctx context.Context, userID string) (*ConsolidationResult, error) {
	cutoff := time.Now().UTC().Add(-consolidationAge)
	old, err := s.store.ListConsolidatableMemories(ctx, userID, cutoff, maxImportance)
	if err != nil {
		return nil, fmt.Errorf("failed to load old memories: %w", err)
	}
	if len(old) < consolidationMinOld {
		return &ConsolidationResult{Message: "Not enough old memories to consolidate"}, nil
	}

	var low []domain.MemoryEntry
	for _, m := range old {
		if m.ImportanceScore <= consolidationLowCutoff {
			low = append(low, m)
		}
	}
	if len(low) < consolidationMinLow {
		return &ConsolidationResult{Message: "No memories needed consolidation"}, nil
	}

	take := len(low)
	if take > consolidatedSummaryCap {
		take = consolidatedSummaryCap
	}
	summaries := make([]string, 0, take)
	for _, m := range low[:take] {
		summaries = append(summaries, m.Summary)
	}
	combined := strings.Join(summaries, " ")
	if len(combined) > consolidatedTextCap {
		combined = combined[:consolidatedTextCap]
	}

	entry := &domain.MemoryEntry{
		MemoryID:        newID("mem"),
		UserID:          userID,
		Summary:         fmt.Sprintf("Consolidated memory from %d entries: %s...", len(low), combined),
		ImportanceScore: consolidatedImportance,
		Context:         fmt.Sprintf("Consolidated from %d memories", len(low)),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.InsertMemory(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save consolidated memory: %w", err)
	}

	remove := len(low)
	if remove > consolidationMaxTake {
		remove = consolidationMaxTake
	}
	ids := make([]string, 0, remove)
	for _, m := range low[:remove] {
		ids = append(ids, m.MemoryID)
	}
	if err := s.store.DeleteMemories(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to delete consolidated memories: %w", err)
	}

	return &ConsolidationResult{
		Message:      "Memories consolidated successfully",
		Consolidated: remove,
		NewMemoryID:  entry.MemoryID,
	}, nil
}

// PatternAnalysis summarizes a user's recent conversational behavior.
type PatternAnalysis struct {
	TimePeriodDays     int               `json:"time_period_days"`
	TotalMessages      int               `json:"total_messages"`
	EmotionalPatterns  EmotionalPatterns `json:"emotional_patterns"`
	AvgMessagesPerDay  float64           `json:"avg_messages_per_day"`
	ConversationTopics []string          `json:"conversation_topics"`
	EngagementLevel    string            `json:"engagement_level"`
}

// EmotionalPatterns aggregates the emotions attached to assistant replies.
type EmotionalPatterns struct {
	MostCommonEmotion string         `json:"most_common_emotion"`
	Distribution      map[string]int `json:"emotion_distribution"`
	DiversityScore    int            `json:"emotion_diversity_score"`
}

// AnalyzePatterns aggregates emotions, message volume, and recent memory
// topics over the user's last daysBack days. Returns nil when the user has
// no messages in the window.
func (s *Service) AnalyzePatterns(ctx context.Context, userID string, daysBack int) (*PatternAnalysis, error) {
	if daysBack <= 0 {
		daysBack = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -daysBack)
	messages, err := s.store.ListUserMessagesSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	if len(messages) == 0 {
		return nil, nil
	}

	distribution := map[string]int{}
	for _, m := range messages {
		if m.Role == domain.RoleAssistant && m.Emotion != "" {
			distribution[m.Emotion]++
		}
	}
	mostCommon := "neutral"
	best := 0
	for emotion, count := range distribution {
		if count > best {
			best = count
			mostCommon = emotion
		}
	}

	avg := math.Round(float64(len(messages))/float64(daysBack)*100) / 100
	engagement := "low"
	switch {
	case avg > 5:
		engagement = "high"
	case avg > 2:
		engagement = "medium"
	}

	recent, err := s.store.ListMemoriesSince(ctx, userID, time.Time{}, patternTopicLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent memories: %w", err)
	}
	topics := make([]string, 0, len(recent))
	for _, m := range recent {
		summary := m.Summary
		if len(summary) > patternTopicWidth {
			summary = summary[:patternTopicWidth]
		}
		topics = append(topics, summary+"...")
	}

	return &PatternAnalysis{
		TimePeriodDays: daysBack,
		TotalMessages:  len(messages),
		EmotionalPatterns: EmotionalPatterns{
			MostCommonEmotion: mostCommon,
			Distribution:      distribution,
			DiversityScore:    len(distribution),
		},
		AvgMessagesPerDay:  avg,
		ConversationTopics: topics,
		EngagementLevel:    engagement,
	}, nil
}

func clampImportance(importance int) int {
	if importance < 1 {
		return 1
	}
	if importance > maxImportance {
		return maxImportance
	}
	return importance
}
