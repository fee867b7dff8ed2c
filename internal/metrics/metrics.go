// Package metrics provides Prometheus collectors for the decision pipeline
// and its LLM calls.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// PipelineRunsTotal counts pipeline runs by final status (ok/error).
	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verdict_pipeline_runs_total",
			Help: "Pipeline runs",
		},
		[]string{"status"},
	)

	// PipelineDuration records end-to-end pipeline duration in seconds.
	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "verdict_pipeline_duration_seconds",
			Help:    "Pipeline duration",
			Buckets: LLMBuckets,
		},
	)

	// LLMRequestsTotal counts LLM provider calls by provider, agent and status.
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verdict_llm_requests_total",
			Help: "LLM provider requests",
		},
		[]string{"provider", "agent", "status"},
	)

	// LLMLatency records LLM provider call latency in seconds.
	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "verdict_llm_latency_seconds",
			Help:    "LLM provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "agent"},
	)

	// LLMTokensTotal counts tokens processed by direction (input/output).
	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verdict_llm_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "direction"},
	)

	// IndexSearchesTotal counts similarity searches against the vector index.
	IndexSearchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "verdict_index_searches_total",
			Help: "Index searches",
		},
	)
)

func init() {
	prometheus.MustRegister(
		PipelineRunsTotal,
		PipelineDuration,
		LLMRequestsTotal,
		LLMLatency,
		LLMTokensTotal,
		IndexSearchesTotal,
	)
}
