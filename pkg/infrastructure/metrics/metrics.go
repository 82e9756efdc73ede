package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// Verify interface compliance
var _ events.Handler = (*Registry)(nil)

// Handle counts one appended operation
func (r *Registry) Handle(op events.Operation) error {
	target := "node"
	if op.IsEdge() {
		target = "edge"
	}
	r.OperationsTotal.WithLabelValues(string(op.Action), target).Inc()
	return nil
}

// CanHandle accepts every action
func (r *Registry) CanHandle(events.Action) bool {
	return true
}

// RecordNetwork sets the node and edge gauges from a snapshot
func (r *Registry) RecordNetwork(n *network.Network) {
	for nodeType, count := range n.CountByType() {
		r.NetworkNodes.WithLabelValues(nodeType.String()).Set(float64(count))
	}
	r.NetworkEdges.Set(float64(n.EdgeCount()))
}

// RecordSimulation records one propagation run and the bottlenecks it flagged
func (r *Registry) RecordSimulation(mode string, duration time.Duration, result *dto.SimulationResult) {
	r.SimulationRunsTotal.WithLabelValues(mode).Inc()
	r.SimulationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if result == nil || result.Bottlenecks == nil {
		return
	}
	r.BottlenecksTotal.WithLabelValues("subassembly").Add(float64(result.Bottlenecks.Subassembly.Count()))
	r.BottlenecksTotal.WithLabelValues("product_offering").Add(float64(result.Bottlenecks.Offering.Count()))
}

// RecordAllocation records a storage optimization outcome
func (r *Registry) RecordAllocation(result *dto.AllocationResult) {
	r.OptimizerRunsTotal.WithLabelValues(result.Status).Inc()
	if result.Optimal() {
		r.OptimizerObjective.Set(result.Objective)
	}
}

// WriteToTextfile dumps every metric in the text exposition format, for the
// node exporter textfile collector
func (r *Registry) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
