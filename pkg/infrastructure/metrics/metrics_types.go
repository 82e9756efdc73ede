package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics of a generation or simulation run
type Registry struct {
	// Operation log metrics
	OperationsTotal *prometheus.CounterVec

	// Network metrics
	NetworkNodes *prometheus.GaugeVec
	NetworkEdges prometheus.Gauge

	// Simulation metrics
	SimulationRunsTotal *prometheus.CounterVec
	SimulationDuration  *prometheus.HistogramVec
	BottlenecksTotal    *prometheus.CounterVec

	// Optimizer metrics
	OptimizerRunsTotal *prometheus.CounterVec
	OptimizerObjective prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initOperationMetrics()
	r.initNetworkMetrics()
	r.initSimulationMetrics()
	r.initOptimizerMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) initOperationMetrics() {
	r.OperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scm_operations_total",
			Help: "Total number of operations appended to the operation logs",
		},
		[]string{"action", "target"},
	)
}

func (r *Registry) initNetworkMetrics() {
	r.NetworkNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scm_network_nodes",
			Help: "Number of nodes in the latest snapshot by node type",
		},
		[]string{"node_type"},
	)

	r.NetworkEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scm_network_edges",
			Help: "Number of edges in the latest snapshot",
		},
	)
}

func (r *Registry) initSimulationMetrics() {
	r.SimulationRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scm_simulation_runs_total",
			Help: "Total number of propagation runs",
		},
		[]string{"mode"},
	)

	r.SimulationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scm_simulation_duration_seconds",
			Help:    "Propagation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"mode"},
	)

	r.BottlenecksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scm_bottlenecks_total",
			Help: "Total number of flagged bottlenecks",
		},
		[]string{"tier"},
	)
}

func (r *Registry) initOptimizerMetrics() {
	r.OptimizerRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scm_optimizer_runs_total",
			Help: "Total number of storage optimizations by solver status",
		},
		[]string{"status"},
	)

	r.OptimizerObjective = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scm_optimizer_objective",
			Help: "Storage cost of the last optimal allocation",
		},
	)
}
