// Package metrics exposes Prometheus collectors for decoding and catalog
// operations. Every recording method is safe to call on a nil *Metrics so
// packages can run without instrumentation.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Store operation labels.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpEdit   = "edit"
	OpDelete = "delete"
	OpCheck  = "check"
)

// Metrics holds the pxrd collectors.
type Metrics struct {
	registry *prometheus.Registry

	decodeTotal    *prometheus.CounterVec
	decodeDuration *prometheus.HistogramVec
	storeOpsTotal  *prometheus.CounterVec
	catalogSpectra prometheus.Gauge
}

// New creates the collectors and registers them on registry. A nil registry
// gets a fresh private one.
func New(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.decodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pxrd_decode_total",
			Help: "Instrument files decoded, by format and outcome",
		},
		[]string{"format", "status"},
	)
	m.decodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pxrd_decode_duration_seconds",
			Help:    "Time spent decoding one instrument file",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"format"},
	)
	m.storeOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pxrd_store_operations_total",
			Help: "Catalog store operations, by operation and outcome",
		},
		[]string{"operation", "status"},
	)
	m.catalogSpectra = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pxrd_catalog_spectra",
		Help: "Spectra returned by the most recent catalog listing",
	})
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.decodeTotal.Describe(ch)
	m.decodeDuration.Describe(ch)
	m.storeOpsTotal.Describe(ch)
	m.catalogSpectra.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.decodeTotal.Collect(ch)
	m.decodeDuration.Collect(ch)
	m.storeOpsTotal.Collect(ch)
	m.catalogSpectra.Collect(ch)
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveDecode records one decode attempt.
func (m *Metrics) ObserveDecode(format string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.decodeTotal.WithLabelValues(format, status(err)).Inc()
	m.decodeDuration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// RecordStoreOp records the outcome of a catalog operation.
func (m *Metrics) RecordStoreOp(operation string, err error) {
	if m == nil {
		return
	}
	m.storeOpsTotal.WithLabelValues(operation, status(err)).Inc()
}

// SetCatalogSize records the number of listed spectra.
func (m *Metrics) SetCatalogSize(n int) {
	if m == nil {
		return
	}
	m.catalogSpectra.Set(float64(n))
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
