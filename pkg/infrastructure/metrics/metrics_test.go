package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
	fixtures "github.com/Surya-0/SCM-Builder/pkg/infrastructure/testing"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.OperationsTotal == nil {
		t.Error("OperationsTotal not initialized")
	}
	if r.NetworkNodes == nil {
		t.Error("NetworkNodes not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestRegistry_CountsLogOperations(t *testing.T) {
	r := NewRegistry()
	net, _ := fixtures.BuildFixtureNetwork()

	l := events.NewLog(events.BaselineLog, "NSS_V1")
	l.Subscribe(r)
	for _, n := range net.Nodes() {
		l.NodeCreated(n)
	}
	for _, e := range net.Edges() {
		l.EdgeCreated(e)
	}
	l.NodeUpdated("PO_001", entities.ProductOfferingNode, map[string]any{"demand": 1.0})

	if got := testutil.ToFloat64(r.OperationsTotal.WithLabelValues("create", "node")); got != float64(net.NodeCount()) {
		t.Errorf("Expected %d node creates, got %v", net.NodeCount(), got)
	}
	if got := testutil.ToFloat64(r.OperationsTotal.WithLabelValues("create", "edge")); got != float64(net.EdgeCount()) {
		t.Errorf("Expected %d edge creates, got %v", net.EdgeCount(), got)
	}
	if got := testutil.ToFloat64(r.OperationsTotal.WithLabelValues("update", "node")); got != 1 {
		t.Errorf("Expected 1 node update, got %v", got)
	}
}

func TestRegistry_RecordNetwork(t *testing.T) {
	r := NewRegistry()
	net, _ := fixtures.BuildFixtureNetwork()
	r.RecordNetwork(net)

	if got := testutil.ToFloat64(r.NetworkNodes.WithLabelValues("part")); got != 6 {
		t.Errorf("Expected 6 parts, got %v", got)
	}
	if got := testutil.ToFloat64(r.NetworkEdges); got != float64(net.EdgeCount()) {
		t.Errorf("Expected %d edges, got %v", net.EdgeCount(), got)
	}
}

func TestRegistry_RecordSimulationAndAllocation(t *testing.T) {
	r := NewRegistry()

	b := dto.NewBottlenecks()
	b.Offering.Add("PO_001", dto.Bottleneck{Timestamp: 0, Demand: 150, AggregateCapacity: 100})
	r.RecordSimulation("static", 20*time.Millisecond, &dto.SimulationResult{Bottlenecks: b})
	r.RecordSimulation("static", 10*time.Millisecond, nil)

	if got := testutil.ToFloat64(r.SimulationRunsTotal.WithLabelValues("static")); got != 2 {
		t.Errorf("Expected 2 static runs, got %v", got)
	}
	if got := testutil.ToFloat64(r.BottlenecksTotal.WithLabelValues("product_offering")); got != 1 {
		t.Errorf("Expected 1 offering bottleneck, got %v", got)
	}

	r.RecordAllocation(&dto.AllocationResult{Status: dto.StatusOptimal, Objective: 300})
	r.RecordAllocation(&dto.AllocationResult{Status: dto.StatusInfeasible})
	if got := testutil.ToFloat64(r.OptimizerObjective); got != 300 {
		t.Errorf("Expected objective 300, got %v", got)
	}
	if got := testutil.ToFloat64(r.OptimizerRunsTotal.WithLabelValues(dto.StatusInfeasible)); got != 1 {
		t.Errorf("Expected 1 infeasible run, got %v", got)
	}
}

func TestRegistry_WriteToTextfile(t *testing.T) {
	r := NewRegistry()
	net, _ := fixtures.BuildFixtureNetwork()
	r.RecordNetwork(net)

	path := filepath.Join(t.TempDir(), "scm.prom")
	if err := r.WriteToTextfile(path); err != nil {
		t.Fatalf("Failed to write textfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read textfile: %v", err)
	}
	if !strings.Contains(string(data), `scm_network_nodes{node_type="part"} 6`) {
		t.Errorf("Expected part gauge in textfile, got:\n%s", data)
	}
}
