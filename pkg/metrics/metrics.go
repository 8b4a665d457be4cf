// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LLMCallDuration tracks language model call duration by purpose.
	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_call_duration_seconds",
			Help:    "Language model call duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "purpose", "status"},
	)

	// LLMTokensTotal tracks total language model tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total language model tokens processed",
		},
		[]string{"provider", "direction"},
	)

	// ClassificationsTotal counts classifier outcomes.
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_classifications_total",
			Help: "Intent classifications by resolved intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	// AnswersTotal counts chat replies by intent and branch.
	AnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_answers_total",
			Help: "Chat replies by intent and branch",
		},
		[]string{"intent", "branch"},
	)

	// SessionRestoresTotal counts turns whose slots came from the session.
	SessionRestoresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_session_restores_total",
			Help: "Turns whose slots were restored from the session",
		},
	)

	// MenuFormatTotal counts dorm menu formatting attempts.
	MenuFormatTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_format_total",
			Help: "Dorm menu formatting attempts",
		},
		[]string{"status"},
	)

	// TurnEventsTotal counts turn events published to JetStream.
	TurnEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_turn_events_total",
			Help: "Turn events published to JetStream",
		},
		[]string{"status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLMCall records metrics for a language model call.
func RecordLLMCall(provider, purpose, status string, duration float64, tokensIn, tokensOut int) {
	LLMCallDuration.WithLabelValues(provider, purpose, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(provider, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(provider, "out").Add(float64(tokensOut))
}

// RecordClassification records a classifier outcome.
func RecordClassification(intent, outcome string) {
	ClassificationsTotal.WithLabelValues(intent, outcome).Inc()
}

// RecordAnswer records a chat reply.
func RecordAnswer(intent, branch string) {
	AnswersTotal.WithLabelValues(intent, branch).Inc()
}
