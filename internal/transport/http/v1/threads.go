package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ThreadRequest carries a thread title for create and rename.
type ThreadRequest struct {
	Title string `json:"title"`
}

// CreateThread starts a new conversation thread.
// POST /v1/threads
func (h *Handler) CreateThread(c echo.Context) error {
	ctx := c.Request().Context()

	var req ThreadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
	}

	thread, err := h.service.CreateThread(ctx, userID(c), strings.TrimSpace(req.Title))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, thread)
}

// ListThreads lists the user's threads, most recent activity first.
// GET /v1/threads
func (h *Handler) ListThreads(c echo.Context) error {
	ctx := c.Request().Context()

	threads, err := h.service.ListThreads(ctx, userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"threads": threads,
		"count":   len(threads),
	})
}

// GetThread returns one thread.
// GET /v1/threads/:thread_id
func (h *Handler) GetThread(c echo.Context) error {
	ctx := c.Request().Context()

	thread, err := h.service.GetThread(ctx, userID(c), c.Param("thread_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, thread)
}

// RenameThread updates a thread's title.
// PUT /v1/threads/:thread_id
func (h *Handler) RenameThread(c echo.Context) error {
	ctx := c.Request().Context()

	var req ThreadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
	}

	thread, err := h.service.RenameThread(ctx, userID(c), c.Param("thread_id"), strings.TrimSpace(req.Title))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, thread)
}

// DeleteThread removes a thread and its messages.
// DELETE /v1/threads/:thread_id
func (h *Handler) DeleteThread(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.service.DeleteThread(ctx, userID(c), c.Param("thread_id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Thread deleted successfully"})
}
