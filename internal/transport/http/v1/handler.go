// Package v1 provides the REST handlers for threads, messages, memory, and
// tools.
package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/maliksaad1/ai-surrogate/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers external routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Thread API
	e.POST("/v1/threads", h.CreateThread)
	e.GET("/v1/threads", h.ListThreads)
	e.GET("/v1/threads/:thread_id", h.GetThread)
	e.PUT("/v1/threads/:thread_id", h.RenameThread)
	e.DELETE("/v1/threads/:thread_id", h.DeleteThread)

	// Message API
	e.GET("/v1/threads/:thread_id/messages", h.GetMessages)
	e.POST("/v1/threads/:thread_id/messages", h.SendMessage)
	e.POST("/v1/threads/:thread_id/summarize", h.SummarizeThread)

	// Memory API
	e.GET("/v1/memory", h.ListMemory)
	e.POST("/v1/memory", h.AddMemory)
	e.PUT("/v1/memory/:memory_id", h.UpdateMemory)
	e.DELETE("/v1/memory/:memory_id", h.DeleteMemory)
	e.GET("/v1/memory/search", h.SearchMemory)
	e.POST("/v1/memory/consolidate", h.ConsolidateMemory)
	e.POST("/v1/memory/analyze", h.AnalyzePatterns)

	// Tool API
	e.GET("/v1/tools", h.ListTools)
	e.POST("/v1/tools/:tool_name/execute", h.ExecuteTool)
	e.GET("/v1/tools/executions", h.ListToolExecutions)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "ai-surrogate",
	})
}

// userID resolves the caller. Auth is out of scope; a missing header means
// the single-user default.
func userID(c echo.Context) string {
	if id := c.Request().Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "default_user"
}

// intQuery parses an integer query parameter, falling back on absent or
// malformed values.
func intQuery(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// fail maps service errors onto HTTP statuses.
func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrThreadNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Thread not found"})
	case errors.Is(err, service.ErrMemoryNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Memory not found"})
	case errors.Is(err, service.ErrQueryTooShort):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Query must be at least 2 characters"})
	case errors.Is(err, service.ErrNoMessages):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No messages to summarize"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
