package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

const defaultExecutionLimit = 50

// ToolExecuteRequest carries the parameters for a direct tool invocation.
type ToolExecuteRequest struct {
	Params map[string]any `json:"params"`
}

// ListTools returns every registered tool with its parameter schema.
// GET /v1/tools
func (h *Handler) ListTools(c echo.Context) error {
	infos := h.service.ListTools()
	return c.JSON(http.StatusOK, map[string]any{
		"tools": infos,
		"count": len(infos),
	})
}

// ExecuteTool invokes a tool outside the agent pipeline. Tools that
// require confirmation stay gated unless params carry confirmed=true.
// POST /v1/tools/:tool_name/execute
func (h *Handler) ExecuteTool(c echo.Context) error {
	ctx := c.Request().Context()

	var req ToolExecuteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Params == nil {
		req.Params = map[string]any{}
	}

	result := h.service.ExecuteTool(ctx, c.Param("tool_name"), req.Params, domain.ToolExecutionContext{
		UserID: userID(c),
	})
	return c.JSON(http.StatusOK, result)
}

// ListToolExecutions returns the most recent audit log rows.
// GET /v1/tools/executions?limit=
func (h *Handler) ListToolExecutions(c echo.Context) error {
	ctx := c.Request().Context()
	limit := intQuery(c, "limit", defaultExecutionLimit)

	execs, err := h.service.RecentToolExecutions(ctx, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"executions": execs,
		"count":      len(execs),
	})
}
