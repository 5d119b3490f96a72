package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the family workspace.
// Tracks operation outcomes, renumbering work and the size of the family.
type Metrics struct {
	Operations         *prometheus.CounterVec
	OperationDuration  *prometheus.HistogramVec
	PersistFailures    prometheus.Counter
	People             prometheus.Gauge
	UndoDepth          prometheus.Gauge
	RedoDepth          prometheus.Gauge
	ImportedRecords    prometheus.Counter
	SkippedRecords     prometheus.Counter
	ScrubbedReferences prometheus.Counter
}

// New creates a Metrics instance registered with reg. Passing
// prometheus.DefaultRegisterer exposes the metrics on the default handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "familyring_operations_total",
			Help: "Total number of family operations by name and outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "familyring_operation_duration_seconds",
			Help:    "Duration of family operations including persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "familyring_persist_failures_total",
			Help: "Total number of failed writes of the people table",
		}),
		People: factory.NewGauge(prometheus.GaugeOpts{
			Name: "familyring_people",
			Help: "Number of people currently stored",
		}),
		UndoDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "familyring_undo_depth",
			Help: "Number of available undo steps",
		}),
		RedoDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "familyring_redo_depth",
			Help: "Number of available redo steps",
		}),
		ImportedRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "familyring_import_records_total",
			Help: "Total number of records accepted by imports",
		}),
		SkippedRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "familyring_import_skipped_records_total",
			Help: "Total number of records skipped by imports for lacking a code or name",
		}),
		ScrubbedReferences: factory.NewCounter(prometheus.CounterOpts{
			Name: "familyring_import_scrubbed_references_total",
			Help: "Total number of dangling references cleared on import",
		}),
	}
}

// ObserveOperation records one operation and its duration.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// IncrementPersistFailure records a failed write of the people table.
func (m *Metrics) IncrementPersistFailure() {
	m.PersistFailures.Inc()
}

// SetSizes records the family size and the available history steps.
func (m *Metrics) SetSizes(people, undo, redo int) {
	m.People.Set(float64(people))
	m.UndoDepth.Set(float64(undo))
	m.RedoDepth.Set(float64(redo))
}

// ObserveImport records the outcome counters of an import.
func (m *Metrics) ObserveImport(imported, skipped, scrubbed int) {
	m.ImportedRecords.Add(float64(imported))
	m.SkippedRecords.Add(float64(skipped))
	m.ScrubbedReferences.Add(float64(scrubbed))
}
