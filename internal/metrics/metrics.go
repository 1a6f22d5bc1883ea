package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surrogate_requests_total",
			Help: "Total number of orchestrated requests by primary agent",
		},
		[]string{"agent"},
	)

	RequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "surrogate_request_duration_seconds",
			Help: "Orchestration duration in seconds",
		},
	)

	FallbackCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surrogate_fallbacks_total",
			Help: "Total number of requests answered by the fallback path",
		},
	)

	ToolExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surrogate_tool_executions_total",
			Help: "Total number of tool executions by tool and outcome",
		},
		[]string{"tool", "status"},
	)

	MemoryUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surrogate_memory_updates_total",
			Help: "Total number of persisted memory entries",
		},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "surrogate_ws_connections",
			Help: "Number of active WebSocket connections",
		},
	)
)
