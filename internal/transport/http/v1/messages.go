package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/maliksaad1/ai-surrogate/internal/service"
)

const defaultMessageLimit = 50

// MessageRequest carries one user turn.
type MessageRequest struct {
	Message string `json:"message"`
}

// GetMessages returns a thread's messages in chronological order.
// GET /v1/threads/:thread_id/messages?limit=
func (h *Handler) GetMessages(c echo.Context) error {
	ctx := c.Request().Context()
	limit := intQuery(c, "limit", defaultMessageLimit)

	messages, err := h.service.ListThreadMessages(ctx, userID(c), c.Param("thread_id"), limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"messages": messages,
		"count":    len(messages),
	})
}

// SendMessage runs one user turn through the agent pipeline and returns the
// orchestrator response.
// POST /v1/threads/:thread_id/messages
func (h *Handler) SendMessage(c echo.Context) error {
	ctx := c.Request().Context()

	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	res, err := h.service.SendMessage(ctx, service.SendMessageInput{
		UserID:   userID(c),
		ThreadID: c.Param("thread_id"),
		Message:  req.Message,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res.Response)
}

// SummarizeThread condenses the thread into a stored memory entry.
// POST /v1/threads/:thread_id/summarize
func (h *Handler) SummarizeThread(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.service.SummarizeThread(ctx, userID(c), c.Param("thread_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
