package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
	"github.com/maliksaad1/ai-surrogate/internal/metrics"
	"github.com/maliksaad1/ai-surrogate/policy"
)

// AuditRecorder persists tool execution rows. The store satisfies it; a
// nil recorder disables auditing.
type AuditRecorder interface {
	RecordToolExecution(ctx context.Context, exec *domain.ToolExecution) error
}

// PolicyEngine answers allow/block for a tool invocation. A nil engine
// means every invocation is allowed.
type PolicyEngine interface {
	Evaluate(ctx context.Context, q policy.ToolQuery) (policy.Decision, error)
}

type registration struct {
	tool     Tool
	category domain.ToolCategory
}

// Registry holds the registered tools and dispatches executions through
// the policy gate. It is populated at startup and read-only afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration

	engine   PolicyEngine
	recorder AuditRecorder
}

func NewRegistry(engine PolicyEngine, recorder AuditRecorder) *Registry {
	return &Registry{
		entries:  make(map[string]registration),
		engine:   engine,
		recorder: recorder,
	}
}

// Register adds a tool under a category.
func (r *Registry) Register(tool Tool, category domain.ToolCategory) error {
	if tool == nil || tool.Name() == "" {
		return fmt.Errorf("tool name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[tool.Name()]; exists {
		return fmt.Errorf("tool already registered: %s", tool.Name())
	}
	r.entries[tool.Name()] = registration{tool: tool, category: category}
	return nil
}

// MustRegister registers or panics. Startup wiring only.
func (r *Registry) MustRegister(tool Tool, category domain.ToolCategory) {
	if err := r.Register(tool, category); err != nil {
		panic(err)
	}
}

// Get returns the named tool, or nil when unknown.
func (r *Registry) Get(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[name].tool
}

// Execute dispatches to the named tool. It never panics and never
// returns a Go error: unknown tools and policy blocks come back as
// failed ToolResults, same as any in-tool failure.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any, tec domain.ToolExecutionContext) domain.ToolResult {
	r.mu.RLock()
	reg, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		metrics.ToolExecutions.WithLabelValues(name, "not_found").Inc()
		return domain.ToolResult{
			Success: false,
			Error:   fmt.Sprintf("tool not found: %s", name),
			Message: fmt.Sprintf("Tool '%s' is not available", name),
		}
	}

	if r.engine != nil {
		decision, err := r.engine.Evaluate(ctx, policy.ToolQuery{
			ToolName: name,
			Category: string(reg.category),
			UserID:   tec.UserID,
			Params:   params,
		})
		if err != nil {
			// Fail closed: an unevaluable policy blocks the call.
			log.Warn().Err(err).Str("tool", name).Msg("policy evaluation failed")
			res := domain.ToolResult{
				Success: false,
				Error:   "policy evaluation failed",
				Message: fmt.Sprintf("Tool '%s' blocked: policy could not be evaluated", name),
			}
			r.finish(ctx, name, params, tec, res, "blocked")
			return res
		}
		if !decision.Allow {
			res := domain.ToolResult{
				Success: false,
				Error:   decision.Reason,
				Message: fmt.Sprintf("Tool '%s' blocked by policy", name),
			}
			r.finish(ctx, name, params, tec, res, "blocked")
			return res
		}
	}

	res := reg.tool.Execute(ctx, params, tec)

	status := "failure"
	switch {
	case res.Success:
		status = "success"
	case res.RequiresConfirmation:
		status = "pending"
	}
	r.finish(ctx, name, params, tec, res, status)
	return res
}

// finish records metrics and the audit row for one dispatch.
func (r *Registry) finish(ctx context.Context, name string, params map[string]any, tec domain.ToolExecutionContext, res domain.ToolResult, status string) {
	metrics.ToolExecutions.WithLabelValues(name, status).Inc()

	if r.recorder == nil {
		return
	}
	rawParams, err := json.Marshal(params)
	if err != nil {
		rawParams = nil
	}
	exec := &domain.ToolExecution{
		ExecID:          "exec_" + uuid.New().String()[:8],
		ToolName:        name,
		UserID:          tec.UserID,
		ThreadID:        tec.ThreadID,
		Params:          rawParams,
		Success:         res.Success,
		Error:           res.Error,
		DurationSeconds: res.ExecutionTimeSeconds,
		CreatedAt:       time.Now().UTC(),
	}
	if err := r.recorder.RecordToolExecution(ctx, exec); err != nil {
		log.Warn().Err(err).Str("tool", name).Msg("failed to record tool execution")
	}
}

// ListByCategory returns discovery info for every tool in the category,
// sorted by name.
func (r *Registry) ListByCategory(category domain.ToolCategory) []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Info
	for _, reg := range r.entries {
		if reg.category == category {
			out = append(out, r.info(reg))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListAll returns discovery info for every registered tool, sorted by name.
func (r *Registry) ListAll() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.entries))
	for _, reg := range r.entries {
		out = append(out, r.info(reg))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) info(reg registration) Info {
	return Info{
		Name:                 reg.tool.Name(),
		Description:          reg.tool.Description(),
		Category:             reg.category,
		Parameters:           reg.tool.ParameterSchema(),
		RequiresConfirmation: reg.tool.RequiresConfirmation(),
	}
}
