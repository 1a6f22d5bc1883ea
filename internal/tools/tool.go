// Package tools contains the executable tools agents can invoke on the
// user's behalf, plus the registry that dispatches to them. Every tool
// runs the same skeleton: validate params, gate on confirmation, perform
// the effect, log the invocation.
package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// Schema describes a tool's parameters so a function-calling layer can
// discover them.
type Schema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

// Info is the discovery shape served by the tools API.
type Info struct {
	Name                 string              `json:"name"`
	Description          string              `json:"description"`
	Category             domain.ToolCategory `json:"category"`
	Parameters           Schema              `json:"parameters"`
	RequiresConfirmation bool                `json:"requires_confirmation"`
}

// LogEntry is one recorded invocation in a tool's in-memory log.
type LogEntry struct {
	Tool       string         `json:"tool"`
	UserID     string         `json:"user_id"`
	ThreadID   string         `json:"thread_id,omitempty"`
	Parameters map[string]any `json:"parameters"`
	Success    bool           `json:"success"`
	Duration   float64        `json:"duration_seconds"`
	Timestamp  time.Time      `json:"timestamp"`
	Error      string         `json:"error,omitempty"`
}

// Tool is the contract every executable tool implements. Execute never
// returns a Go error; all failure is carried inside the ToolResult.
type Tool interface {
	Name() string
	Description() string
	RequiresConfirmation() bool
	ParameterSchema() Schema
	Execute(ctx context.Context, params map[string]any, tec domain.ToolExecutionContext) domain.ToolResult
	ExecutionLog() []LogEntry
}

// implFunc performs the tool-specific effect once validation and the
// confirmation gate have passed.
type implFunc func(ctx context.Context, params map[string]any, tec domain.ToolExecutionContext) domain.ToolResult

// promptFunc renders the human-readable confirmation preview for params.
type promptFunc func(params map[string]any) string

// base carries the shared identity and invocation log. Concrete tools
// embed it and call run for the common execution skeleton.
type base struct {
	name                 string
	description          string
	requiresConfirmation bool

	mu  sync.Mutex
	log []LogEntry
}

func (b *base) Name() string               { return b.name }
func (b *base) Description() string        { return b.description }
func (b *base) RequiresConfirmation() bool { return b.requiresConfirmation }

// ExecutionLog returns a copy of the invocation log, oldest first.
func (b *base) ExecutionLog() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]LogEntry, len(b.log))
	copy(out, b.log)
	return out
}

// run is the fixed execution skeleton. Validation failures and
// unconfirmed invocations return without side effects but are still
// logged; ExecutionTimeSeconds measures the effect only and stays 0 on
// the early exits.
func (b *base) run(ctx context.Context, params map[string]any, tec domain.ToolExecutionContext, schema Schema, prompt promptFunc, impl implFunc) domain.ToolResult {
	for _, required := range schema.Required {
		if _, ok := params[required]; !ok {
			res := domain.ToolResult{
				Success: false,
				Error:   fmt.Sprintf("Invalid parameters: Missing required parameter: %s", required),
				Message: "Parameter validation failed",
			}
			b.appendLog(params, tec, res)
			return res
		}
	}

	if b.requiresConfirmation && !confirmed(params) {
		preview := prompt(params)
		// An interactive host can resolve the gate in-band; otherwise the
		// caller must resubmit with confirmed=true. Data echoes the pending
		// params so clients can resubmit without reconstructing them.
		if tec.ConfirmationCallback == nil || !tec.ConfirmationCallback(preview) {
			res := domain.ToolResult{
				Success:              false,
				Data:                 params,
				Message:              "User confirmation required",
				RequiresConfirmation: true,
				ConfirmationPrompt:   preview,
			}
			b.appendLog(params, tec, res)
			return res
		}
	}

	start := time.Now()
	res := impl(ctx, params, tec)
	res.ExecutionTimeSeconds = time.Since(start).Seconds()

	b.appendLog(params, tec, res)
	return res
}

func (b *base) appendLog(params map[string]any, tec domain.ToolExecutionContext, res domain.ToolResult) {
	entry := LogEntry{
		Tool:       b.name,
		UserID:     tec.UserID,
		ThreadID:   tec.ThreadID,
		Parameters: params,
		Success:    res.Success,
		Duration:   res.ExecutionTimeSeconds,
		Timestamp:  time.Now().UTC(),
		Error:      res.Error,
	}
	b.mu.Lock()
	b.log = append(b.log, entry)
	b.mu.Unlock()
}

func confirmed(params map[string]any) bool {
	v, _ := params["confirmed"].(bool)
	return v
}

// stringParam returns params[key] as a string, or fallback when absent or
// not a string.
func stringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// intParam tolerates the float64 that JSON decoding produces for numbers.
func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// stringSliceParam accepts []string directly or the []any a JSON array
// decodes to.
func stringSliceParam(params map[string]any, key string) []string {
	switch v := params[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
