// Package orchestrator runs the per-request agent pipeline: route, invoke
// the primary agent, analyze emotion and memory-worthiness in parallel,
// persist memory when warranted, and assemble the final response.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/maliksaad1/ai-surrogate/internal/agent"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
	"github.com/maliksaad1/ai-surrogate/internal/metrics"
	"github.com/maliksaad1/ai-surrogate/internal/router"
)

// hardFallbackReply is returned when even the chat agent cannot produce a
// reply inside the fallback path.
const hardFallbackReply = "I apologize, but I'm experiencing some technical difficulties. Please try again in a moment."

// Agents bundles the routable agents the orchestrator dispatches to.
type Agents struct {
	Chat          *agent.ChatAgent
	Emotion       *agent.EmotionAgent
	Memory        *agent.MemoryAgent
	Scheduler     *agent.SchedulerAgent
	Communication *agent.CommunicationAgent
	Docs          *agent.DocsAgent
}

// Orchestrator coordinates one request at a time per call; it holds no
// per-request state and is safe for concurrent use.
type Orchestrator struct {
	router  router.Router
	agents  map[domain.AgentID]agent.Agent
	chat    *agent.ChatAgent
	emotion *agent.EmotionAgent
	memory  *agent.MemoryAgent
}

func New(rt router.Router, ag Agents) *Orchestrator {
	return &Orchestrator{
		router: rt,
		agents: map[domain.AgentID]agent.Agent{
			domain.AgentChat:          ag.Chat,
			domain.AgentEmotion:       ag.Emotion,
			domain.AgentMemory:        ag.Memory,
			domain.AgentScheduler:     ag.Scheduler,
			domain.AgentCommunication: ag.Communication,
			domain.AgentDocs:          ag.Docs,
		},
		chat:    ag.Chat,
		emotion: ag.Emotion,
		memory:  ag.Memory,
	}
}

// Process runs one request through the full pipeline.
func (o *Orchestrator) Process(ctx context.Context, req domain.AgentRequest) domain.OrchestratorResponse {
	return o.ProcessTraced(ctx, req, nil)
}

// ProcessTraced is Process with a live trace sink; each trace entry is
// delivered to the sink as it is appended. Errors and panics never escape:
// anything reaching the top level is answered by the fallback path.
func (o *Orchestrator) ProcessTraced(ctx context.Context, req domain.AgentRequest, sink Sink) (resp domain.OrchestratorResponse) {
	start := time.Now()
	tr := newTracer(sink)

	defer func() {
		metrics.RequestDuration.Observe(time.Since(start).Seconds())
	}()
	defer func() {
		if r := recover(); r != nil {
			resp = o.fallback(ctx, req, fmt.Sprintf("panic: %v", r), tr, start)
		}
	}()

	// Routing.
	agentID := o.router.Route(req.Message)
	tr.add(domain.ExecutionTraceEntry{
		Step:       domain.StepRouting,
		Identifier: string(agentID),
		Status:     domain.TraceComplete,
	})
	metrics.RequestCount.WithLabelValues(string(agentID)).Inc()

	primary, ok := o.agents[agentID]
	if !ok {
		return o.fallback(ctx, req, fmt.Sprintf("no agent registered for %q", agentID), tr, start)
	}
	log.Debug().
		Str("agent", string(agentID)).
		Str("user_id", req.UserID).
		Str("thread_id", req.ThreadID).
		Msg("routed message")

	// Primary agent.
	tr.add(domain.ExecutionTraceEntry{
		Step:       domain.StepPrimaryAgent,
		Identifier: string(agentID),
		Status:     domain.TraceStarted,
	})
	primaryRes := primary.Process(ctx, req)
	tr.add(domain.ExecutionTraceEntry{
		Step:       domain.StepPrimaryAgent,
		Identifier: string(agentID),
		Status:     domain.TraceComplete,
		Confidence: &primaryRes.Confidence,
	})

	// Parallel analysis. Emotion classification and the memory decision are
	// independent; both results are required before finalization. Each
	// goroutine recovers internally so the join cannot fail, and each appends
	// its own completion entry in whichever order it finishes.
	tr.add(domain.ExecutionTraceEntry{
		Step:   domain.StepParallelAnalysis,
		Status: domain.TraceProcessing,
	})

	emotion := domain.EmotionNeutral
	var decision *domain.MemoryUpdateDecision

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("emotion analysis panicked")
				tr.add(domain.ExecutionTraceEntry{
					Step:       domain.StepEmotionAnalysis,
					Identifier: string(domain.AgentEmotion),
					Status:     domain.TraceError,
				})
			}
		}()
		emotion = o.emotion.Analyze(gctx, primaryRes.Content)
		tr.add(domain.ExecutionTraceEntry{
			Step:       domain.StepEmotionAnalysis,
			Identifier: string(domain.AgentEmotion),
			Status:     domain.TraceComplete,
		})
		return nil
	})
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("memory check panicked")
				tr.add(domain.ExecutionTraceEntry{
					Step:       domain.StepMemoryCheck,
					Identifier: string(domain.AgentMemory),
					Status:     domain.TraceError,
				})
			}
		}()
		decision = o.memory.ShouldUpdate(req.Message, primaryRes.Content)
		entry := domain.ExecutionTraceEntry{
			Step:       domain.StepMemoryCheck,
			Identifier: string(domain.AgentMemory),
			Status:     domain.TraceComplete,
		}
		if decision != nil {
			entry.Importance = &decision.ImportanceScore
		}
		tr.add(entry)
		return nil
	})
	_ = g.Wait() // goroutines recover internally; the join never fails

	// Memory update. A write failure is already logged by the agent; the run
	// continues either way.
	memoryUpdated := false
	if decision != nil {
		summary := fmt.Sprintf("User: %s\nAI: %s", req.Message, primaryRes.Content)
		if err := o.memory.Update(ctx, req.UserID, summary, decision.ImportanceScore); err != nil {
			tr.add(domain.ExecutionTraceEntry{
				Step:       domain.StepMemoryUpdate,
				Identifier: string(domain.AgentMemory),
				Status:     domain.TraceError,
			})
		} else {
			memoryUpdated = true
			metrics.MemoryUpdates.Inc()
			tr.add(domain.ExecutionTraceEntry{
				Step:       domain.StepMemoryUpdate,
				Identifier: string(domain.AgentMemory),
				Status:     domain.TraceComplete,
				Importance: &decision.ImportanceScore,
			})
		}
	}

	entries := tr.snapshot()
	return domain.OrchestratorResponse{
		Response:             primaryRes.Content,
		Emotion:              emotion,
		AgentUsed:            string(agentID),
		AgentDisplayName:     primary.DisplayName(),
		AgentIcon:            primary.Icon(),
		ToolUsed:             primaryRes.ToolUsed,
		ToolResult:           primaryRes.ToolResult,
		RequiresConfirmation: primaryRes.RequiresConfirmation,
		Metadata: domain.ResponseMetadata{
			MemoryUpdated:    memoryUpdated,
			ProcessingTime:   time.Since(start).Seconds(),
			PrimaryAgentTime: primaryRes.ProcessingTimeSeconds,
			Confidence:       primaryRes.Confidence,
			ExecutionTrace:   entries,
			AgentsInvolved:   o.agentsInvolved(entries),
		},
	}
}

// fallback is the single top-level safety net: it answers with the chat
// agent, reports the failure in metadata, and never lets the cause escape.
func (o *Orchestrator) fallback(ctx context.Context, req domain.AgentRequest, cause string, tr *tracer, start time.Time) domain.OrchestratorResponse {
	metrics.FallbackCount.Inc()
	log.Error().
		Str("cause", cause).
		Str("user_id", req.UserID).
		Msg("orchestration failed, answering via fallback")

	result := o.safeChat(ctx, req)
	entries := tr.snapshot()
	return domain.OrchestratorResponse{
		Response:         result.Content,
		Emotion:          domain.EmotionNeutral,
		AgentUsed:        string(domain.AgentFallback),
		AgentDisplayName: o.chat.DisplayName(),
		AgentIcon:        o.chat.Icon(),
		Metadata: domain.ResponseMetadata{
			ProcessingTime: time.Since(start).Seconds(),
			Confidence:     result.Confidence,
			ExecutionTrace: entries,
			AgentsInvolved: o.agentsInvolved(entries),
			Error:          cause,
		},
	}
}

// safeChat invokes the chat agent with its own recover so a collaborator
// that panics on every call still cannot escape the fallback path.
func (o *Orchestrator) safeChat(ctx context.Context, req domain.AgentRequest) (res domain.AgentResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("chat agent panicked inside fallback")
			res = domain.AgentResult{
				Content:  hardFallbackReply,
				Degraded: true,
				Error:    fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return o.chat.Process(ctx, req)
}

// agentsInvolved derives the involved-agent list from the trace itself so it
// always agrees with what the trace shows: identifiers that name a known
// agent, deduplicated, in first-appearance order.
func (o *Orchestrator) agentsInvolved(entries []domain.ExecutionTraceEntry) []string {
	seen := make(map[string]bool, len(entries))
	var ids []string
	for _, e := range entries {
		id := e.Identifier
		if id == "" || seen[id] {
			continue
		}
		if _, ok := o.agents[domain.AgentID(id)]; !ok {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
