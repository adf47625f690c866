/*------------------------------------------------------------------------------
* metrics.go : Prometheus metrics
*
*          Operational counters for the load/preprocess/solve pipeline,
*          wired through prometheus/client_golang rather than tracked ad
*          hoc in struct fields.
*-----------------------------------------------------------------------------*/

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus collectors the solver/evaluator/loader
// report against.
type Metrics struct {
	TracksLoaded        prometheus.Counter
	SnapsPreprocessed    prometheus.Counter
	SolverConverged      *prometheus.CounterVec
	SolverNonConverged   *prometheus.CounterVec
	SolverFallback       *prometheus.CounterVec
	EvaluateBatchLatency prometheus.Histogram
}

// NewMetrics registers and returns the collector set against reg. Pass
// prometheus.NewRegistry() in tests to avoid the global default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TracksLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gahm_tracks_loaded_total",
			Help: "Number of best-track files successfully loaded.",
		}),
		SnapsPreprocessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "gahm_snaps_preprocessed_total",
			Help: "Number of track snaps that completed preprocessing.",
		}),
		SolverConverged: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gahm_solver_converged_total",
			Help: "Per-quadrant GAHM solver convergences.",
		}, []string{"quadrant"}),
		SolverNonConverged: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gahm_solver_nonconverged_total",
			Help: "Per-quadrant GAHM solver non-convergences.",
		}, []string{"quadrant"}),
		SolverFallback: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gahm_solver_fallback_total",
			Help: "Per-quadrant GAHM solver fallback-value usages.",
		}, []string{"quadrant"}),
		EvaluateBatchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gahm_evaluate_batch_seconds",
			Help:    "Latency of one evaluate() batch call over a point cloud.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
