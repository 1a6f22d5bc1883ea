package jobs

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
	"github.com/maliksaad1/ai-surrogate/internal/service"
	"github.com/maliksaad1/ai-surrogate/internal/store"
)

// The sweeps only touch the store, so the service is built without the
// agent pipeline.
func newScheduler(t *testing.T, retention time.Duration) (*Scheduler, *store.SQLiteStore) {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := service.New(st, nil, nil, nil)
	s, err := NewScheduler(st, svc, "0 3 * * *", retention)
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	return s, st
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer st.Close()

	if _, err := NewScheduler(st, service.New(st, nil, nil, nil), "every day at dawn", time.Hour); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestConsolidateSweep(t *testing.T) {
	s, st := newScheduler(t, 14*24*time.Hour)
	ctx := context.Background()

	old := time.Now().UTC().Add(-40 * 24 * time.Hour)
	for i, imp := range []int{1, 2, 3, 2, 1, 3} {
		err := st.InsertMemory(ctx, &domain.MemoryEntry{
			MemoryID:        fmt.Sprintf("mem_u1_%d", i),
			UserID:          "u1",
			Summary:         fmt.Sprintf("stale note %d", i),
			ImportanceScore: imp,
			CreatedAt:       old.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("InsertMemory failed: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		err := st.InsertMemory(ctx, &domain.MemoryEntry{
			MemoryID:        fmt.Sprintf("mem_u2_%d", i),
			UserID:          "u2",
			Summary:         fmt.Sprintf("note %d", i),
			ImportanceScore: 2,
			CreatedAt:       old,
		})
		if err != nil {
			t.Fatalf("InsertMemory failed: %v", err)
		}
	}

	s.consolidateAll()

	u1, err := st.ListMemories(ctx, "u1", 0, 0)
	if err != nil {
		t.Fatalf("ListMemories failed: %v", err)
	}
	// Five originals merged away, one consolidated entry added.
	if len(u1) != 2 {
		t.Fatalf("expected 2 memories for u1, got %d", len(u1))
	}
	var merged *domain.MemoryEntry
	for i := range u1 {
		if strings.HasPrefix(u1[i].Summary, "Consolidated memory from") {
			merged = &u1[i]
		}
	}
	if merged == nil {
		t.Fatal("expected a consolidated entry for u1")
	}
	if merged.ImportanceScore != 4 {
		t.Fatalf("expected consolidated importance 4, got %d", merged.ImportanceScore)
	}
	if merged.Context != "Consolidated from 6 memories" {
		t.Fatalf("unexpected context: %q", merged.Context)
	}

	u2, err := st.ListMemories(ctx, "u2", 0, 0)
	if err != nil {
		t.Fatalf("ListMemories failed: %v", err)
	}
	if len(u2) != 2 {
		t.Fatalf("expected u2 untouched, got %d memories", len(u2))
	}
}

func TestPruneSweep(t *testing.T) {
	s, st := newScheduler(t, 14*24*time.Hour)
	ctx := context.Background()

	record := func(id string, age time.Duration) {
		err := st.RecordToolExecution(ctx, &domain.ToolExecution{
			ExecID:    id,
			ToolName:  "send_email",
			UserID:    "u1",
			Success:   true,
			CreatedAt: time.Now().UTC().Add(-age),
		})
		if err != nil {
			t.Fatalf("RecordToolExecution failed: %v", err)
		}
	}
	record("exec_old_1", 20*24*time.Hour)
	record("exec_old_2", 15*24*time.Hour)
	record("exec_new", time.Hour)

	s.pruneToolLog()

	execs, err := st.ListToolExecutions(ctx, 0)
	if err != nil {
		t.Fatalf("ListToolExecutions failed: %v", err)
	}
	if len(execs) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(execs))
	}
	if execs[0].ExecID != "exec_new" {
		t.Fatalf("wrong row survived: %s", execs[0].ExecID)
	}
}
