package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PollMetrics counts dashboard polls per poller.
type PollMetrics struct {
	polls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPollMetrics creates the poll counters.
func NewPollMetrics() *PollMetrics {
	return &PollMetrics{
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weftctl_polls_total",
			Help: "Dashboard polls by poller and result.",
		}, []string{"poller", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weftctl_poll_duration_seconds",
			Help:    "Dashboard poll round-trip time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"poller"}),
	}
}

// Describe implements prometheus.Collector.
func (m *PollMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.polls.Describe(ch)
	m.duration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *PollMetrics) Collect(ch chan<- prometheus.Metric) {
	m.polls.Collect(ch)
	m.duration.Collect(ch)
}

// Observer returns a recorder bound to one poller name.
func (m *PollMetrics) Observer(poller string) *PollObserver {
	return &PollObserver{m: m, poller: poller}
}

// PollObserver records the outcome of polls made by one poller.
type PollObserver struct {
	m      *PollMetrics
	poller string
}

// ObservePoll records a poll that took d and ended with err.
func (o *PollObserver) ObservePoll(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	o.m.polls.WithLabelValues(o.poller, result).Inc()
	o.m.duration.WithLabelValues(o.poller).Observe(d.Seconds())
}
