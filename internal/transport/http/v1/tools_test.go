package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
	"github.com/maliksaad1/ai-surrogate/internal/tools"
)

func TestListToolsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.ListTools, http.MethodGet, "/v1/tools", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tools []tools.Info `json:"tools"`
		Count int          `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)

	names := map[string]bool{}
	for _, info := range resp.Tools {
		names[info.Name] = true
		assert.True(t, info.RequiresConfirmation, "%s should be gated", info.Name)
	}
	assert.True(t, names["send_email"])
	assert.True(t, names["create_calendar_event"])
}

func TestExecuteToolEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("Gated Without Confirmation", func(t *testing.T) {
		body := `{"params":{"operation":"create_event","title":"Dentist","start_time":"2026-09-01T10:00:00"}}`
		rec := call(t, h.ExecuteTool, http.MethodPost, "/v1/tools/create_calendar_event/execute", body, "u1",
			"tool_name", "create_calendar_event")
		require.Equal(t, http.StatusOK, rec.Code)

		var result domain.ToolResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.True(t, result.RequiresConfirmation)
		assert.NotEmpty(t, result.ConfirmationPrompt)
	})

	t.Run("Confirmed", func(t *testing.T) {
		body := `{"params":{"operation":"create_event","title":"Dentist","start_time":"2026-09-01T10:00:00","confirmed":true}}`
		rec := call(t, h.ExecuteTool, http.MethodPost, "/v1/tools/create_calendar_event/execute", body, "u1",
			"tool_name", "create_calendar_event")
		require.Equal(t, http.StatusOK, rec.Code)

		var result domain.ToolResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.False(t, result.RequiresConfirmation)
		assert.Equal(t, "Dentist", result.Data["title"])
	})

	t.Run("Unknown Tool", func(t *testing.T) {
		rec := call(t, h.ExecuteTool, http.MethodPost, "/v1/tools/teleport/execute", `{"params":{}}`, "u1",
			"tool_name", "teleport")
		require.Equal(t, http.StatusOK, rec.Code)

		var result domain.ToolResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "not available")
	})

	t.Run("Audit Trail", func(t *testing.T) {
		rec := call(t, h.ListToolExecutions, http.MethodGet, "/v1/tools/executions", "", "u1")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Executions []domain.ToolExecution `json:"executions"`
			Count      int                    `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		// The gated and the confirmed invocation; unknown tools are not recorded.
		assert.Equal(t, 2, resp.Count)
		for _, exec := range resp.Executions {
			assert.Equal(t, "create_calendar_event", exec.ToolName)
			assert.Equal(t, "u1", exec.UserID)
		}
	})
}
