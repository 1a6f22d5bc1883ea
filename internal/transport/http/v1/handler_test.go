package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/calendar"
	"github.com/maliksaad1/ai-surrogate/internal/adapter/llm"
	"github.com/maliksaad1/ai-surrogate/internal/adapter/mailer"
	"github.com/maliksaad1/ai-surrogate/internal/agent"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
	"github.com/maliksaad1/ai-surrogate/internal/orchestrator"
	"github.com/maliksaad1/ai-surrogate/internal/router"
	"github.com/maliksaad1/ai-surrogate/internal/service"
	"github.com/maliksaad1/ai-surrogate/internal/store"
	"github.com/maliksaad1/ai-surrogate/internal/tools"
)

type stubLLM struct{}

func (stubLLM) Generate(ctx context.Context, message, conversationContext, memorySummary string) (*llm.Reply, error) {
	return &llm.Reply{Content: "Sure thing!", Emotion: "happy"}, nil
}

func (stubLLM) Classify(ctx context.Context, text string) (string, error) {
	return "happy", nil
}

func (stubLLM) Summarize(ctx context.Context, lines []string) (string, error) {
	return "A short chat about plans.", nil
}

func newTestHandler(t *testing.T) (*Handler, *store.SQLiteStore) {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	registry := tools.NewRegistry(nil, st)
	registry.MustRegister(tools.NewEmailTool(mailer.NewSimulator()), domain.ToolCategoryCommunication)
	registry.MustRegister(tools.NewCalendarTool(calendar.NewSimulator()), domain.ToolCategoryScheduling)

	client := stubLLM{}
	orc := orchestrator.New(router.NewKeywordRouter(), orchestrator.Agents{
		Chat:          agent.NewChatAgent(client),
		Emotion:       agent.NewEmotionAgent(client),
		Memory:        agent.NewMemoryAgent(client, st),
		Scheduler:     agent.NewSchedulerAgent(client, registry),
		Communication: agent.NewCommunicationAgent(client, registry),
		Docs:          agent.NewDocsAgent(client),
	})
	return NewHandler(service.New(st, orc, client, registry)), st
}

// call runs a handler method against a synthetic echo context and returns
// the recorder. Path params follow as alternating name/value pairs.
func call(t *testing.T, fn echo.HandlerFunc, method, target, body, user string, params ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	if len(names) > 0 {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}

	require.NoError(t, fn(c))
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.Health, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
	assert.Contains(t, rec.Body.String(), "ai-surrogate")
}
