package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	defaultMemoryLimit  = 20
	defaultSearchLimit  = 10
	defaultAnalysisDays = 30
)

// MemoryRequest carries a memory entry for create and update.
type MemoryRequest struct {
	Summary         string `json:"summary"`
	Context         string `json:"context"`
	ImportanceScore int    `json:"importance_score"`
}

// ListMemory returns the user's memories, most important first.
// GET /v1/memory?limit=&min_importance=
func (h *Handler) ListMemory(c echo.Context) error {
	ctx := c.Request().Context()
	limit := intQuery(c, "limit", defaultMemoryLimit)
	minImportance := intQuery(c, "min_importance", 1)

	memories, err := h.service.ListMemories(ctx, userID(c), minImportance, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"memories": memories,
		"count":    len(memories),
	})
}

// AddMemory stores a manual memory entry.
// POST /v1/memory
func (h *Handler) AddMemory(c echo.Context) error {
	ctx := c.Request().Context()

	var req MemoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Summary) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "summary is required"})
	}
	if req.ImportanceScore == 0 {
		req.ImportanceScore = 1
	}

	entry, err := h.service.AddMemory(ctx, userID(c), req.Summary, req.Context, req.ImportanceScore)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// UpdateMemory replaces one memory entry.
// PUT /v1/memory/:memory_id
func (h *Handler) UpdateMemory(c echo.Context) error {
	ctx := c.Request().Context()

	var req MemoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Summary) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "summary is required"})
	}
	if req.ImportanceScore == 0 {
		req.ImportanceScore = 1
	}

	entry, err := h.service.UpdateMemory(ctx, userID(c), c.Param("memory_id"), req.Summary, req.Context, req.ImportanceScore)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// DeleteMemory removes one memory entry.
// DELETE /v1/memory/:memory_id
func (h *Handler) DeleteMemory(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.service.DeleteMemory(ctx, userID(c), c.Param("memory_id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Memory deleted successfully"})
}

// SearchMemory finds memories matching a text query.
// GET /v1/memory/search?q=&limit=
func (h *Handler) SearchMemory(c echo.Context) error {
	ctx := c.Request().Context()
	query := c.QueryParam("q")
	limit := intQuery(c, "limit", defaultSearchLimit)

	results, err := h.service.SearchMemories(ctx, userID(c), query, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"query":   strings.TrimSpace(query),
		"results": results,
		"count":   len(results),
	})
}

// ConsolidateMemory runs an on-demand consolidation sweep for the user.
// POST /v1/memory/consolidate
func (h *Handler) ConsolidateMemory(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.service.Consolidate(ctx, userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// AnalyzePatterns reports conversation patterns over the recent window.
// POST /v1/memory/analyze?days_back=
func (h *Handler) AnalyzePatterns(c echo.Context) error {
	ctx := c.Request().Context()
	daysBack := intQuery(c, "days_back", defaultAnalysisDays)

	res, err := h.service.AnalyzePatterns(ctx, userID(c), daysBack)
	if err != nil {
		return h.fail(c, err)
	}
	if res == nil {
		return c.JSON(http.StatusOK, map[string]any{
			"message":  "Not enough data for analysis",
			"analysis": map[string]any{},
		})
	}
	return c.JSON(http.StatusOK, res)
}
