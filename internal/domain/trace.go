package domain

import "time"

// ExecutionTraceEntry is one record in a run's append-only diagnostic trace.
type ExecutionTraceEntry struct {
	Step       string      `json:"step"`
	Identifier string      `json:"identifier"`
	Status     TraceStatus `json:"status"`
	Timestamp  time.Time   `json:"timestamp"`
	Confidence *float64    `json:"confidence,omitempty"`
	Importance *int        `json:"importance,omitempty"`
}
