package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestSQLiteStoreThreadsAndMessages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	now := time.Now()
	thread := &domain.Thread{
		ThreadID:  "thr_1",
		UserID:    "u1",
		Title:     "First chat",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateThread(ctx, thread); err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}

	got, err := store.GetThread(ctx, "thr_1")
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if got == nil || got.UserID != "u1" || got.Title != "First chat" {
		t.Fatalf("unexpected thread: %+v", got)
	}
	if got.LastMessageAt != nil {
		t.Fatalf("expected nil LastMessageAt, got %v", got.LastMessageAt)
	}

	if err := store.CreateMessage(ctx, &domain.ChatMessage{
		MessageID: "msg_1",
		ThreadID:  "thr_1",
		Role:      domain.RoleUser,
		Content:   "hello",
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if err := store.CreateMessage(ctx, &domain.ChatMessage{
		MessageID: "msg_2",
		ThreadID:  "thr_1",
		Role:      domain.RoleAssistant,
		Content:   "hi there",
		Emotion:   "happy",
		AgentUsed: "chat",
		CreatedAt: now.Add(time.Second),
	}); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	messages, err := store.ListMessages(ctx, "thr_1", 10)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].MessageID != "msg_1" || messages[1].AgentUsed != "chat" {
		t.Fatalf("unexpected messages: %+v", messages)
	}

	// The recent window drops the oldest message but stays chronological.
	recent, err := store.ListRecentMessages(ctx, "thr_1", 1)
	if err != nil {
		t.Fatalf("ListRecentMessages failed: %v", err)
	}
	if len(recent) != 1 || recent[0].MessageID != "msg_2" {
		t.Fatalf("unexpected recent messages: %+v", recent)
	}
	recent, err = store.ListRecentMessages(ctx, "thr_1", 10)
	if err != nil {
		t.Fatalf("ListRecentMessages failed: %v", err)
	}
	if len(recent) != 2 || recent[0].MessageID != "msg_1" || recent[1].MessageID != "msg_2" {
		t.Fatalf("recent messages out of order: %+v", recent)
	}

	since, err := store.ListUserMessagesSince(ctx, "u1", now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("ListUserMessagesSince failed: %v", err)
	}
	if len(since) != 2 || since[0].MessageID != "msg_1" {
		t.Fatalf("unexpected messages since: %+v", since)
	}
	since, err = store.ListUserMessagesSince(ctx, "u1", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("ListUserMessagesSince failed: %v", err)
	}
	if len(since) != 0 {
		t.Fatalf("expected no messages after cutoff, got %d", len(since))
	}

	touchAt := now.Add(2 * time.Second)
	if err := store.TouchThread(ctx, "thr_1", touchAt); err != nil {
		t.Fatalf("TouchThread failed: %v", err)
	}
	got, err = store.GetThread(ctx, "thr_1")
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if got.LastMessageAt == nil {
		t.Fatal("expected LastMessageAt to be set after touch")
	}

	if err := store.UpdateThreadTitle(ctx, "thr_1", "Renamed"); err != nil {
		t.Fatalf("UpdateThreadTitle failed: %v", err)
	}
	threads, err := store.ListThreads(ctx, "u1")
	if err != nil {
		t.Fatalf("ListThreads failed: %v", err)
	}
	if len(threads) != 1 || threads[0].Title != "Renamed" {
		t.Fatalf("unexpected threads: %+v", threads)
	}

	if err := store.DeleteThread(ctx, "thr_1"); err != nil {
		t.Fatalf("DeleteThread failed: %v", err)
	}
	messages, err = store.ListMessages(ctx, "thr_1", 10)
	if err != nil {
		t.Fatalf("ListMessages after delete failed: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected messages to cascade on thread delete, got %d", len(messages))
	}
}

func TestSQLiteStoreMemory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	now := time.Now()
	entries := []*domain.MemoryEntry{
		{MemoryID: "mem_1", UserID: "u1", Summary: "User's birthday is June 1st", ImportanceScore: 7, Context: "agent_orchestrator", CreatedAt: now},
		{MemoryID: "mem_2", UserID: "u1", Summary: "Talked about the weather", ImportanceScore: 2, CreatedAt: now.Add(-40 * 24 * time.Hour)},
		{MemoryID: "mem_3", UserID: "u1", Summary: "Mentioned liking coffee", ImportanceScore: 3, CreatedAt: now.Add(-35 * 24 * time.Hour)},
		{MemoryID: "mem_4", UserID: "u2", Summary: "Other user's note", ImportanceScore: 5, CreatedAt: now},
	}
	for _, e := range entries {
		if err := store.InsertMemory(ctx, e); err != nil {
			t.Fatalf("InsertMemory(%s) failed: %v", e.MemoryID, err)
		}
	}

	// Summary longer than the cap is truncated at the store boundary.
	long := &domain.MemoryEntry{
		MemoryID:        "mem_long",
		UserID:          "u1",
		Summary:         strings.Repeat("x", 900),
		ImportanceScore: 4,
		CreatedAt:       now,
	}
	if err := store.InsertMemory(ctx, long); err != nil {
		t.Fatalf("InsertMemory(long) failed: %v", err)
	}
	stored, err := store.SearchMemories(ctx, "u1", "xxx", 0)
	if err != nil {
		t.Fatalf("SearchMemories failed: %v", err)
	}
	if len(stored) != 1 || len(stored[0].Summary) != MaxSummaryLength {
		t.Fatalf("expected truncated summary of %d chars, got %d entries (len %d)", MaxSummaryLength, len(stored), len(stored[0].Summary))
	}

	top, err := store.ListMemories(ctx, "u1", 4, 3)
	if err != nil {
		t.Fatalf("ListMemories failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries with importance >= 4, got %d", len(top))
	}
	if top[0].MemoryID != "mem_1" {
		t.Fatalf("expected most important first, got %+v", top[0])
	}

	old, err := store.ListConsolidatableMemories(ctx, "u1", now.Add(-30*24*time.Hour), 3)
	if err != nil {
		t.Fatalf("ListConsolidatableMemories failed: %v", err)
	}
	if len(old) != 2 {
		t.Fatalf("expected 2 consolidatable entries, got %d", len(old))
	}
	if old[0].MemoryID != "mem_2" {
		t.Fatalf("expected oldest first, got %+v", old[0])
	}

	users, err := store.ListMemoryUsers(ctx)
	if err != nil {
		t.Fatalf("ListMemoryUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %v", users)
	}

	recent, err := store.ListMemoriesSince(ctx, "u1", now.Add(-time.Hour), 0)
	if err != nil {
		t.Fatalf("ListMemoriesSince failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent entries, got %d", len(recent))
	}

	if err := store.UpdateMemory(ctx, &domain.MemoryEntry{
		MemoryID:        "mem_1",
		UserID:          "u1",
		Summary:         "User's birthday is June 2nd",
		ImportanceScore: 8,
		Context:         "corrected",
	}); err != nil {
		t.Fatalf("UpdateMemory failed: %v", err)
	}
	updated, err := store.SearchMemories(ctx, "u1", "June 2nd", 0)
	if err != nil {
		t.Fatalf("SearchMemories failed: %v", err)
	}
	if len(updated) != 1 || updated[0].ImportanceScore != 8 || updated[0].Context != "corrected" {
		t.Fatalf("unexpected updated entry: %+v", updated)
	}
	err = store.UpdateMemory(ctx, &domain.MemoryEntry{MemoryID: "mem_missing", UserID: "u1", Summary: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing entry, got %v", err)
	}
	// Wrong owner must not match either.
	err = store.UpdateMemory(ctx, &domain.MemoryEntry{MemoryID: "mem_4", UserID: "u1", Summary: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign entry, got %v", err)
	}

	if err := store.DeleteMemories(ctx, []string{"mem_2", "mem_3"}); err != nil {
		t.Fatalf("DeleteMemories failed: %v", err)
	}
	remaining, err := store.ListMemories(ctx, "u1", 0, 0)
	if err != nil {
		t.Fatalf("ListMemories failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining entries, got %d", len(remaining))
	}

	if err := store.DeleteMemory(ctx, "mem_1", "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting another user's memory, got %v", err)
	}
	if err := store.DeleteMemory(ctx, "mem_1", "u1"); err != nil {
		t.Fatalf("DeleteMemory failed: %v", err)
	}
	remaining, err = store.ListMemories(ctx, "u1", 0, 0)
	if err != nil {
		t.Fatalf("ListMemories failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", len(remaining))
	}
}

func TestSQLiteStoreToolExecutions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	now := time.Now()
	execs := []*domain.ToolExecution{
		{ExecID: "exec_1", ToolName: "send_email", UserID: "u1", Success: true, DurationSeconds: 0.02, CreatedAt: now.Add(-48 * time.Hour)},
		{ExecID: "exec_2", ToolName: "create_calendar_event", UserID: "u1", ThreadID: "thr_1", Params: []byte(`{"operation":"create_event"}`), Success: false, Error: "start_time is required", CreatedAt: now},
	}
	for _, e := range execs {
		if err := store.RecordToolExecution(ctx, e); err != nil {
			t.Fatalf("RecordToolExecution(%s) failed: %v", e.ExecID, err)
		}
	}

	rows, err := store.ListToolExecutions(ctx, 10)
	if err != nil {
		t.Fatalf("ListToolExecutions failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ExecID != "exec_2" {
		t.Fatalf("expected newest first, got %+v", rows[0])
	}
	if rows[0].Error != "start_time is required" || string(rows[0].Params) != `{"operation":"create_event"}` {
		t.Fatalf("unexpected row: %+v", rows[0])
	}

	pruned, err := store.PruneToolExecutions(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneToolExecutions failed: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned row, got %d", pruned)
	}

	rows, err = store.ListToolExecutions(ctx, 10)
	if err != nil {
		t.Fatalf("ListToolExecutions failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ExecID != "exec_2" {
		t.Fatalf("unexpected rows after prune: %+v", rows)
	}
}
