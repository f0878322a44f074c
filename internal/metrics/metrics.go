package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all Prometheus instruments used across both services.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	EventsAcked      *prometheus.CounterVec
	EventsNacked     *prometheus.CounterVec
	BrokerReconnects *prometheus.CounterVec

	ChatMessages prometheus.Counter
	LLMLatency   prometheus.Histogram
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsAcked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_events_acked_total",
			Help: "Total number of broker events persisted and acknowledged.",
		}, []string{"queue"}),

		EventsNacked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_events_nacked_total",
			Help: "Total number of broker events negatively acknowledged and requeued.",
		}, []string{"queue"}),

		BrokerReconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_reconnects_total",
			Help: "Total number of consumer reconnect attempts after connection loss.",
		}, []string{"queue"}),

		ChatMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total number of user chat messages processed by the agent.",
		}),

		LLMLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "llm_reply_seconds",
			Help:    "Latency of LLM reply generation.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.EventsAcked,
		m.EventsNacked,
		m.BrokerReconnects,
		m.ChatMessages,
		m.LLMLatency,
	)

	return m
}

// ConsumerHooks returns the metric callbacks wired into one queue's consumer.
// Centralises the prometheus observation calls so the consumer package stays
// metrics-agnostic.
func (m *Metrics) ConsumerHooks(queue string) (onAck, onNack, onReconnect func()) {
	onAck = func() { m.EventsAcked.WithLabelValues(queue).Inc() }
	onNack = func() { m.EventsNacked.WithLabelValues(queue).Inc() }
	onReconnect = func() { m.BrokerReconnects.WithLabelValues(queue).Inc() }
	return
}

// ChatHooks returns the callbacks observed by the chat service per message.
func (m *Metrics) ChatHooks() func(latency time.Duration) {
	return func(latency time.Duration) {
		m.ChatMessages.Inc()
		m.LLMLatency.Observe(latency.Seconds())
	}
}
