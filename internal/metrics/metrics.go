package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quotation"

type Metrics struct {
	Requests         *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	Toasts           *prometheus.CounterVec
	CompressionSaved prometheus.Counter
	CompressionMemo  *prometheus.CounterVec
}

// New creates the collectors and registers them on registry. A nil registry
// yields working but unregistered collectors.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests sent to the backend, by method and outcome.",
		}, []string{"method", "outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent waiting on the backend.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"method"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups, by result.",
		}, []string{"result"}),
		Toasts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ui",
			Name:      "toasts_total",
			Help:      "Notifications shown, by severity.",
		}, []string{"severity"}),
		CompressionSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "media",
			Name:      "compression_saved_bytes_total",
			Help:      "Bytes saved by re-encoding images before upload.",
		}),
		CompressionMemo: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "media",
			Name:      "compression_memo_lookups_total",
			Help:      "Compression memo lookups, by result.",
		}, []string{"result"}),
	}
}

// WriteTextfile dumps the registry in the node exporter textfile format.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, gatherer)
}
