package orchestrator

import (
	"sync"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// Sink receives each trace entry as it is appended, in append order.
// Implementations must not block: entries are delivered on the goroutine
// that produced them, including the parallel-analysis goroutines.
type Sink func(domain.ExecutionTraceEntry)

// tracer is the per-request append-only execution trace. The parallel
// analysis step appends from two goroutines at once, so appends take a lock.
type tracer struct {
	mu      sync.Mutex
	entries []domain.ExecutionTraceEntry
	sink    Sink
}

func newTracer(sink Sink) *tracer {
	return &tracer{sink: sink}
}

func (t *tracer) add(entry domain.ExecutionTraceEntry) {
	entry.Timestamp = time.Now().UTC()
	t.mu.Lock()
	t.entries = append(t.entries, entry)
	t.mu.Unlock()
	if t.sink != nil {
		t.sink(entry)
	}
}

// snapshot returns a copy of the entries appended so far.
func (t *tracer) snapshot() []domain.ExecutionTraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.ExecutionTraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
