// Package metrics provides Prometheus collectors and in-memory recent samples
// for the storage monitor.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "camwatch"

// Cycle and notification result labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	cyclesTotal        *prometheus.CounterVec
	cycleDuration      prometheus.Histogram
	deviceFetchErrors  *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	storagePercent     *prometheus.GaugeVec
	devicesPolled      prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		cyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Total number of poll cycles by result",
			},
			[]string{"result"},
		),
		cycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_duration_seconds",
				Help:      "Poll cycle duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		),
		deviceFetchErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "device_fetch_errors_total",
				Help:      "Total number of failed device fetches",
			},
			[]string{"device"},
		),
		notificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of transition notifications by level and result",
			},
			[]string{"level", "result"},
		),
		storagePercent: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "storage_used_percent",
				Help:      "Last observed storage utilization per device",
			},
			[]string{"device"},
		),
		devicesPolled: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "devices_polled",
				Help:      "Number of devices successfully read in the last cycle",
			},
		),
	}
}

// RecordCycle records a finished cycle.
func (m *Metrics) RecordCycle(err error, duration time.Duration, devicesRead int) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}

	m.cyclesTotal.WithLabelValues(result).Inc()
	m.cycleDuration.Observe(duration.Seconds())
	m.devicesPolled.Set(float64(devicesRead))
}

func (m *Metrics) RecordFetchError(device string) {
	m.deviceFetchErrors.WithLabelValues(device).Inc()
}

func (m *Metrics) RecordNotification(level string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}

	m.notificationsTotal.WithLabelValues(level, result).Inc()
}

func (m *Metrics) SetStoragePercent(device string, pct float64) {
	m.storagePercent.WithLabelValues(device).Set(pct)
}
