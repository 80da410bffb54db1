// Package metrics provides Prometheus metrics for the forest compiler
// pipeline: training runs, cross-validation quality, encoding volume
// and persistence activity. Consumers depend on narrow method-set
// interfaces, not on this package, so metrics stay optional.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus instruments for the compiler.
type Metrics struct {
	// Training metrics
	TrainingsTotal   prometheus.Counter   // Total number of training runs
	TrainingDuration prometheus.Histogram // Wall time of a training run in seconds
	CVAccuracy       prometheus.Histogram // Per-fold cross-validation accuracy

	// Encoding metrics
	NodesEncoded   prometheus.Counter // Total encoded nodes across all exports
	EncodeFailures prometheus.Counter // Exports rejected before emission
	HeadersEmitted prometheus.Counter // Headers successfully emitted

	// Persistence metrics
	ModelsSaved  prometheus.Counter // Models written to the store
	ModelsLoaded prometheus.Counter // Models restored from the store
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry, allowing
// isolated collection in tests.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		TrainingsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "trainings_total",
			Help: "Total number of training runs",
		}),
		TrainingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "training_duration_seconds",
			Help:    "Wall time of a training run in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		CVAccuracy: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cv_accuracy",
			Help:    "Per-fold stratified cross-validation accuracy",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		NodesEncoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "nodes_encoded_total",
			Help: "Total encoded nodes across all exports",
		}),
		EncodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "encode_failures_total",
			Help: "Exports rejected before emission",
		}),
		HeadersEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "headers_emitted_total",
			Help: "Headers successfully emitted",
		}),
		ModelsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "models_saved_total",
			Help: "Models written to the store",
		}),
		ModelsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "models_loaded_total",
			Help: "Models restored from the store",
		}),
	}
}

// The methods below satisfy the trainer's and encoder's metrics
// interfaces.

func (m *Metrics) TrainingsInc()                     { m.TrainingsTotal.Inc() }
func (m *Metrics) TrainingDurationObserve(s float64) { m.TrainingDuration.Observe(s) }
func (m *Metrics) CVAccuracyObserve(a float64)       { m.CVAccuracy.Observe(a) }
func (m *Metrics) NodesEncodedAdd(n int)             { m.NodesEncoded.Add(float64(n)) }
func (m *Metrics) EncodeFailuresInc()                { m.EncodeFailures.Inc() }
func (m *Metrics) HeadersEmittedInc()                { m.HeadersEmitted.Inc() }
func (m *Metrics) ModelsSavedInc()                   { m.ModelsSaved.Inc() }
func (m *Metrics) ModelsLoadedInc()                  { m.ModelsLoaded.Inc() }
