package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RetrievalMetrics implements ports.RetrievalMetrics on a shared registry.
// One instance serves all retrieval calls of a process; the use case sees
// only the interface.
type RetrievalMetrics struct {
	channelDuration  *prometheus.HistogramVec
	channelErrors    *prometheus.CounterVec
	retrievalResults *prometheus.HistogramVec
	retrievalTime    *prometheus.HistogramVec
	degradedTotal    *prometheus.CounterVec
	noContentTotal   *prometheus.CounterVec

	service string
}

func NewRetrievalMetrics(service string, registerer prometheus.Registerer) *RetrievalMetrics {
	channelDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ds",
			Subsystem: "retrieval",
			Name:      "channel_duration_seconds",
			Help:      "Per-channel search duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "channel", "status"},
	)
	channelErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ds",
			Subsystem: "retrieval",
			Name:      "channel_errors_total",
			Help:      "Total failed channel searches.",
		},
		[]string{"service", "channel"},
	)
	retrievalResults := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ds",
			Subsystem: "retrieval",
			Name:      "results",
			Help:      "Distribution of result counts per retrieval call.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	retrievalTime := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ds",
			Subsystem: "retrieval",
			Name:      "duration_seconds",
			Help:      "End-to-end retrieval duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	degradedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ds",
			Subsystem: "retrieval",
			Name:      "degraded_total",
			Help:      "Total retrieval calls answered with at least one channel down.",
		},
		[]string{"service"},
	)
	noContentTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ds",
			Subsystem: "retrieval",
			Name:      "no_content_total",
			Help:      "Total healthy retrieval calls that matched nothing.",
		},
		[]string{"service"},
	)

	registerer.MustRegister(
		channelDuration,
		channelErrors,
		retrievalResults,
		retrievalTime,
		degradedTotal,
		noContentTotal,
	)

	return &RetrievalMetrics{
		channelDuration:  channelDuration,
		channelErrors:    channelErrors,
		retrievalResults: retrievalResults,
		retrievalTime:    retrievalTime,
		degradedTotal:    degradedTotal,
		noContentTotal:   noContentTotal,
		service:          service,
	}
}

func (m *RetrievalMetrics) ObserveChannel(channel string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		m.channelErrors.WithLabelValues(m.service, channel).Inc()
	}
	m.channelDuration.WithLabelValues(m.service, channel, status).Observe(duration.Seconds())
}

func (m *RetrievalMetrics) ObserveRetrieval(resultCount int, duration time.Duration, degraded bool) {
	m.retrievalResults.WithLabelValues(m.service).Observe(float64(resultCount))
	m.retrievalTime.WithLabelValues(m.service).Observe(duration.Seconds())
	if degraded {
		m.degradedTotal.WithLabelValues(m.service).Inc()
	}
	if resultCount == 0 && !degraded {
		m.noContentTotal.WithLabelValues(m.service).Inc()
	}
}
