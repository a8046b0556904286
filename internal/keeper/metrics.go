package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bot
type Metrics struct {
	// Counters
	CommandsTotal       *prometheus.CounterVec
	PassiveRepliesTotal prometheus.Counter
	WebhookCallsTotal   *prometheus.CounterVec
	ErrorsTotal         *prometheus.CounterVec

	// Histograms
	CommandDuration *prometheus.HistogramVec
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// InitMetrics registers the bot metrics with the default registry once.
func InitMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			CommandsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mischief_commands_total",
					Help: "Server commands handled, by action and outcome",
				},
				[]string{"action", "outcome"},
			),
			PassiveRepliesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "mischief_passive_replies_total",
					Help: "Playful replies sent by the trigger-word listener",
				},
			),
			WebhookCallsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mischief_webhook_calls_total",
					Help: "Start/stop webhook calls by kind and result",
				},
				[]string{"kind", "result"},
			),
			ErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mischief_errors_total",
					Help: "Errors by component and type",
				},
				[]string{"component", "type"},
			),
			CommandDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "mischief_command_duration_seconds",
					Help:    "Server command handling duration",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"action"},
			),
		}
	})
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return InitMetrics()
}

// RecordCommand records a handled server command
func (m *Metrics) RecordCommand(action string, outcome string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordCommandDuration records command handling duration
func (m *Metrics) RecordCommandDuration(action string, seconds float64) {
	if m == nil {
		return
	}
	m.CommandDuration.WithLabelValues(action).Observe(seconds)
}

func (m *Metrics) RecordPassiveReply() {
	if m == nil {
		return
	}
	m.PassiveRepliesTotal.Inc()
}

func (m *Metrics) RecordWebhookCall(kind string, result string) {
	if m == nil {
		return
	}
	m.WebhookCallsTotal.WithLabelValues(kind, result).Inc()
}

// RecordError records an error
func (m *Metrics) RecordError(component string, errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
