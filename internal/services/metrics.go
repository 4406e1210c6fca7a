package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Turn pipeline metrics
	Turns       prometheus.Counter
	TurnLatency prometheus.Histogram
	TurnErrors  *prometheus.CounterVec

	// Dispatch metrics
	DispatchActions *prometheus.CounterVec

	// Speech metrics
	SpeechRequests  prometheus.Counter
	Transcriptions  prometheus.Counter
	WatchdogResets  prometheus.Counter
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		// Completed pipeline turns (counter - only goes up)
		Turns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mira_turns_total",
			Help: "Total number of pipeline turns processed",
		}),

		// End-to-end turn latency histogram
		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mira_turn_duration_seconds",
			Help:    "Turn latency in seconds from clip received to reply spoken",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60}, // transcription plus LLM round trips
		}),

		// Turn errors by stage
		TurnErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mira_turn_errors_total",
			Help: "Total number of turn errors by pipeline stage",
		}, []string{"stage"}),

		// Dispatched actions by intent
		DispatchActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mira_dispatch_actions_total",
			Help: "Total number of dispatched actions by intent",
		}, []string{"intent"}),

		SpeechRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mira_speech_requests_total",
			Help: "Total number of text to speech requests",
		}),

		Transcriptions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mira_transcriptions_total",
			Help: "Total number of speech to text transcriptions",
		}),

		WatchdogResets: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mira_watchdog_resets_total",
			Help: "Total number of stuck turns cleared by the watchdog",
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordTurn records a completed pipeline turn
func (m *Metrics) RecordTurn() {
	m.Turns.Inc()
}

// RecordTurnLatency records end-to-end turn latency
func (m *Metrics) RecordTurnLatency(seconds float64) {
	m.TurnLatency.Observe(seconds)
}

// RecordTurnError records a turn error for a pipeline stage
func (m *Metrics) RecordTurnError(stage string) {
	m.TurnErrors.WithLabelValues(stage).Inc()
}

// RecordDispatch records a dispatched action by intent
func (m *Metrics) RecordDispatch(intent string) {
	m.DispatchActions.WithLabelValues(intent).Inc()
}

// RecordSpeechRequest records a text to speech request
func (m *Metrics) RecordSpeechRequest() {
	m.SpeechRequests.Inc()
}

// RecordTranscription records a completed transcription
func (m *Metrics) RecordTranscription() {
	m.Transcriptions.Inc()
}

// RecordWatchdogReset records a forced turn reset
func (m *Metrics) RecordWatchdogReset() {
	m.WatchdogResets.Inc()
}
