// Package prometheus implements the engine's metrics interfaces on top of
// the registry in package metrics.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"largeimage/pkg/metrics"
	"largeimage/pkg/unitstore"
)

// unitStoreMetrics is the Prometheus implementation of unitstore.Metrics.
type unitStoreMetrics struct {
	loads         *prometheus.CounterVec
	loadDuration  prometheus.Histogram
	loadBytes     prometheus.Counter
	fresh         prometheus.Counter
	flushes       *prometheus.CounterVec
	flushDuration prometheus.Histogram
	flushBytes    prometheus.Counter
	evictions     *prometheus.CounterVec
}

var latencyBuckets = []float64{
	0.05, // 50us - heap stores
	0.5,  // 500us
	1,    // 1ms
	5,    // 5ms - local disk
	10,   // 10ms
	50,   // 50ms
	100,  // 100ms - object stores
	500,  // 500ms
	1000, // 1s
}

// NewUnitStoreMetrics creates unit store metrics registered on the metrics
// registry. Returns nil if metrics are not enabled.
//
// The returned value is shared by every image of the process; images are not
// labelled individually.
func NewUnitStoreMetrics() unitstore.Metrics {
	if !metrics.IsEnabled() {
		return nil
	}
	return newUnitStoreMetrics(metrics.GetRegistry())
}

func newUnitStoreMetrics(reg prometheus.Registerer) *unitStoreMetrics {
	return &unitStoreMetrics{
		loads: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "largeimage_unit_loads_total",
				Help: "Units read back from the block store by status",
			},
			[]string{"status"}, // "success", "error"
		),
		loadDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "largeimage_unit_load_duration_milliseconds",
				Help:    "Duration of unit loads in milliseconds",
				Buckets: latencyBuckets,
			},
		),
		loadBytes: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "largeimage_unit_load_bytes_total",
				Help: "Encoded bytes read back from the block store",
			},
		),
		fresh: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "largeimage_unit_fresh_total",
				Help: "Units materialized zero-filled without a load",
			},
		),
		flushes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "largeimage_unit_flushes_total",
				Help: "Dirty units written to the block store by status",
			},
			[]string{"status"},
		),
		flushDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "largeimage_unit_flush_duration_milliseconds",
				Help:    "Duration of unit flushes in milliseconds",
				Buckets: latencyBuckets,
			},
		),
		flushBytes: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "largeimage_unit_flush_bytes_total",
				Help: "Encoded bytes written to the block store",
			},
		),
		evictions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "largeimage_unit_evictions_total",
				Help: "Units leaving residency by whether they were dirty",
			},
			[]string{"dirty"}, // "true", "false"
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (m *unitStoreMetrics) ObserveLoad(bytes int, duration time.Duration, err error) {
	m.loads.WithLabelValues(status(err)).Inc()
	m.loadDuration.Observe(float64(duration.Microseconds()) / 1000)
	if err == nil {
		m.loadBytes.Add(float64(bytes))
	}
}

func (m *unitStoreMetrics) RecordFresh() {
	m.fresh.Inc()
}

func (m *unitStoreMetrics) ObserveFlush(bytes int, duration time.Duration, err error) {
	m.flushes.WithLabelValues(status(err)).Inc()
	m.flushDuration.Observe(float64(duration.Microseconds()) / 1000)
	if err == nil {
		m.flushBytes.Add(float64(bytes))
	}
}

func (m *unitStoreMetrics) RecordEviction(dirty bool) {
	if dirty {
		m.evictions.WithLabelValues("true").Inc()
		return
	}
	m.evictions.WithLabelValues("false").Inc()
}
