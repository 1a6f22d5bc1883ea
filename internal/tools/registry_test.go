package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/calendar"
	"github.com/maliksaad1/ai-surrogate/internal/adapter/mailer"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
	"github.com/maliksaad1/ai-surrogate/policy"
)

type recorderSpy struct {
	rows []*domain.ToolExecution
}

func (r *recorderSpy) RecordToolExecution(ctx context.Context, exec *domain.ToolExecution) error {
	r.rows = append(r.rows, exec)
	return nil
}

type stubTool struct {
	base
}

func newStubTool(name string) *stubTool {
	return &stubTool{base: base{name: name, description: "stub"}}
}

func (s *stubTool) ParameterSchema() Schema {
	return Schema{Type: "object", Properties: map[string]any{}}
}

func (s *stubTool) Execute(ctx context.Context, params map[string]any, tec domain.ToolExecutionContext) domain.ToolResult {
	return s.run(ctx, params, tec, s.ParameterSchema(), func(map[string]any) string { return "" },
		func(context.Context, map[string]any, domain.ToolExecutionContext) domain.ToolResult {
			return domain.ToolResult{Success: true, Message: "ok"}
		})
}

func newTestRegistry(t *testing.T, recorder AuditRecorder) *Registry {
	t.Helper()
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	r := NewRegistry(engine, recorder)
	r.MustRegister(NewEmailTool(mailer.NewSimulator()), domain.ToolCategoryCommunication)
	r.MustRegister(NewCalendarTool(calendar.NewSimulator()), domain.ToolCategoryScheduling)
	return r
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := newTestRegistry(t, nil)

	if r.Get("send_email") == nil {
		t.Fatal("expected send_email to be registered")
	}
	if r.Get("nope") != nil {
		t.Fatal("expected nil for unknown tool")
	}
	if err := r.Register(NewEmailTool(mailer.NewSimulator()), domain.ToolCategoryCommunication); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}

	all := r.ListAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(all))
	}
	if all[0].Name != "create_calendar_event" || all[1].Name != "send_email" {
		t.Fatalf("expected name-sorted listing, got %+v", all)
	}
	if !all[1].RequiresConfirmation || all[1].Category != domain.ToolCategoryCommunication {
		t.Fatalf("unexpected info: %+v", all[1])
	}
	if len(all[1].Parameters.Required) != 1 || all[1].Parameters.Required[0] != "operation" {
		t.Fatalf("unexpected schema: %+v", all[1].Parameters)
	}

	comm := r.ListByCategory(domain.ToolCategoryCommunication)
	if len(comm) != 1 || comm[0].Name != "send_email" {
		t.Fatalf("unexpected category listing: %+v", comm)
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := newTestRegistry(t, nil)

	res := r.Execute(context.Background(), "launch_rocket", map[string]any{}, domain.ToolExecutionContext{UserID: "u1"})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "tool not found: launch_rocket" {
		t.Fatalf("unexpected error: %q", res.Error)
	}
}

func TestRegistryPolicyBlocksDangerousParams(t *testing.T) {
	spy := &recorderSpy{}
	r := newTestRegistry(t, spy)

	res := r.Execute(context.Background(), "send_email", map[string]any{
		"operation": "send",
		"to":        "talha@example.com",
		"confirmed": true,
		"dangerous": true,
	}, domain.ToolExecutionContext{UserID: "u1"})
	if res.Success {
		t.Fatal("expected policy block")
	}
	if res.Error != "blocked by tool policy" {
		t.Fatalf("unexpected error: %q", res.Error)
	}
	if !strings.Contains(res.Message, "blocked by policy") {
		t.Fatalf("unexpected message: %q", res.Message)
	}

	if len(spy.rows) != 1 || spy.rows[0].Success || spy.rows[0].ToolName != "send_email" {
		t.Fatalf("expected one failed audit row, got %+v", spy.rows)
	}
}

func TestRegistryPolicyBlocksUnknownCategory(t *testing.T) {
	r := newTestRegistry(t, nil)
	r.MustRegister(newStubTool("shell_exec"), domain.ToolCategory("system"))

	res := r.Execute(context.Background(), "shell_exec", map[string]any{}, domain.ToolExecutionContext{UserID: "u1"})
	if res.Success {
		t.Fatal("expected policy block for unregistered category")
	}
	if res.Error != "blocked by tool policy" {
		t.Fatalf("unexpected error: %q", res.Error)
	}
}

func TestRegistryExecuteRecordsAudit(t *testing.T) {
	spy := &recorderSpy{}
	r := newTestRegistry(t, spy)
	tec := domain.ToolExecutionContext{UserID: "u1", ThreadID: "thr_9"}

	res := r.Execute(context.Background(), "send_email", map[string]any{
		"operation": "send",
		"to":        "ahmad@example.com",
		"confirmed": true,
	}, tec)
	if !res.Success {
		t.Fatalf("execute failed: %+v", res)
	}

	if len(spy.rows) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(spy.rows))
	}
	row := spy.rows[0]
	if !strings.HasPrefix(row.ExecID, "exec_") || row.ToolName != "send_email" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.UserID != "u1" || row.ThreadID != "thr_9" || !row.Success {
		t.Fatalf("unexpected row: %+v", row)
	}
	if !strings.Contains(string(row.Params), `"to":"ahmad@example.com"`) {
		t.Fatalf("unexpected params: %s", row.Params)
	}
}
