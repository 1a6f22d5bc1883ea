// Package agent implements the specialized agents the orchestrator routes
// to. Agents never return errors: downstream failures are converted into
// degraded results with lowered confidence so a reply always comes back.
package agent

import (
	"context"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// Agent handles a routed request and always produces a result.
type Agent interface {
	ID() domain.AgentID
	DisplayName() string
	Icon() string
	Process(ctx context.Context, req domain.AgentRequest) domain.AgentResult
}

// ToolExecutor dispatches tool invocations by name. The tools registry
// satisfies it.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, params map[string]any, tec domain.ToolExecutionContext) domain.ToolResult
}

// descriptor is the fixed identity every agent carries.
type descriptor struct {
	id          domain.AgentID
	displayName string
	icon        string
}

func (d descriptor) ID() domain.AgentID  { return d.id }
func (d descriptor) DisplayName() string { return d.displayName }
func (d descriptor) Icon() string        { return d.icon }

// execContext fills the tool execution context from a request, defaulting
// the identifiers the way the tools expect.
func execContext(req domain.AgentRequest) domain.ToolExecutionContext {
	userID := req.UserID
	if userID == "" {
		userID = "unknown"
	}
	threadID := req.ThreadID
	if threadID == "" {
		threadID = "unknown"
	}
	return domain.ToolExecutionContext{
		UserID:             userID,
		ThreadID:           threadID,
		OriginatingMessage: req.Message,
	}
}
