// Package metrics holds the Prometheus collectors the gradebook records into.
//
// Collectors live on a private registry rather than the global default so
// tests and multiple CLI invocations in one process never collide.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Reconcile event labels.
const (
	EventOptimisticApply = "optimistic_apply"
	EventConfirmed       = "confirmed"
	EventRollback        = "rollback"
	EventStaleDiscarded  = "stale_discarded"
	EventNotesFlush      = "notes_flush"
)

// Recorder wraps the gradebook collectors. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	useCaseTotal    *prometheus.CounterVec
	useCaseDuration *prometheus.HistogramVec
	persistOutcomes *prometheus.CounterVec
	reconcileEvents *prometheus.CounterVec
	inFlight        prometheus.Gauge
}

// NewRecorder creates the collectors and registers them on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		useCaseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gradebook_use_case_total",
				Help: "Service use case executions by outcome",
			},
			[]string{"use_case", "success"},
		),
		useCaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gradebook_use_case_duration_seconds",
				Help:    "Duration of service use cases",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"use_case"},
		),
		persistOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gradebook_persist_outcomes_total",
				Help: "Assessment write outcomes by result code",
			},
			[]string{"code"},
		),
		reconcileEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gradebook_reconcile_events_total",
				Help: "Grading grid reconciliation events",
			},
			[]string{"event"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gradebook_reconcile_in_flight",
			Help: "Assessment writes issued by the grading grid and not yet applied",
		}),
	}
	r.registry.MustRegister(
		r.useCaseTotal,
		r.useCaseDuration,
		r.persistOutcomes,
		r.reconcileEvents,
		r.inFlight,
	)
	return r
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) ObserveUseCase(name string, d time.Duration, success bool) {
	if r == nil {
		return
	}
	r.useCaseTotal.WithLabelValues(name, strconv.FormatBool(success)).Inc()
	r.useCaseDuration.WithLabelValues(name).Observe(d.Seconds())
}

// PersistOutcome counts one write result; code is "OK" on success.
func (r *Recorder) PersistOutcome(code string) {
	if r == nil {
		return
	}
	r.persistOutcomes.WithLabelValues(code).Inc()
}

func (r *Recorder) ReconcileEvent(event string) {
	if r == nil {
		return
	}
	r.reconcileEvents.WithLabelValues(event).Inc()
}

// AddInFlight moves the in-flight gauge by delta.
func (r *Recorder) AddInFlight(delta int) {
	if r == nil {
		return
	}
	r.inFlight.Add(float64(delta))
}

// WriteTextfile writes the registry in the Prometheus text format, for
// pickup by a node-exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
