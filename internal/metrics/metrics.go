// Package metrics exposes Prometheus instruments for conversion outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Conversions counts and times backend runs. A nil *Conversions records nothing.
type Conversions struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	archive  prometheus.Histogram
}

// NewConversions registers the conversion instruments on reg.
func NewConversions(reg prometheus.Registerer) (*Conversions, error) {
	m := &Conversions{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conversions_total",
				Help: "Total number of conversions by backend and outcome.",
			},
			[]string{"backend", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "conversion_duration_seconds",
				Help:    "Wall time spent converting one upload.",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"backend"},
		),
		archive: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "conversion_archive_bytes",
				Help:    "Size of produced ZIP archives.",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),
	}

	for _, c := range []prometheus.Collector{m.total, m.duration, m.archive} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one finished conversion.
func (m *Conversions) Observe(backend, status string, elapsed time.Duration, archiveBytes int64) {
	if m == nil {
		return
	}
	m.total.WithLabelValues(backend, status).Inc()
	m.duration.WithLabelValues(backend).Observe(elapsed.Seconds())
	if archiveBytes > 0 {
		m.archive.Observe(float64(archiveBytes))
	}
}
