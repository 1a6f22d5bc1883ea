package service

import (
	"context"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
	"github.com/maliksaad1/ai-surrogate/internal/tools"
)

// ListTools describes every registered tool.
func (s *Service) ListTools() []tools.Info {
	return s.tools.ListAll()
}

// ExecuteTool dispatches a direct tool call outside the agent pipeline.
// Failures are reported inside the result, the same way agents see them.
func (s *Service) ExecuteTool(ctx context.Context, name string, params map[string]any, tec domain.ToolExecutionContext) domain.ToolResult {
	return s.tools.Execute(ctx, name, params, tec)
}

// RecentToolExecutions returns the latest audit rows for tool calls.
func (s *Service) RecentToolExecutions(ctx context.Context, limit int) ([]domain.ToolExecution, error) {
	return s.store.ListToolExecutions(ctx, limit)
}
