package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	fixtures "github.com/Surya-0/SCM-Builder/pkg/infrastructure/testing"
)

func fixtureReport() *Report {
	net, _ := fixtures.BuildFixtureNetwork()
	report := NewReport("Simulation", 42, net)
	report.Periods = []int{0, 1}
	report.Operations["simulation"] = 12

	b := dto.NewBottlenecks()
	b.Offering.Add("PO_001", dto.Bottleneck{Timestamp: 0, Demand: 150, AggregateCapacity: 100})
	report.Bottlenecks = b
	report.Simulations = []SimulationSummary{Summarize(&dto.SimulationResult{
		Timestamp: 0,
		Aggregates: dto.AggregateSet{
			OfferingDemand: map[entities.EntityID]float64{"PO_001": 100, "PO_002": 60},
			OfferingCost:   map[entities.EntityID]float64{"PO_001": 120, "PO_002": 90},
		},
		Bottlenecks: b,
	})}
	report.Allocation = &dto.AllocationResult{
		Status:      dto.StatusOptimal,
		Objective:   300,
		Allocations: map[entities.EntityID]map[entities.EntityID]float64{"W_003": {"PO_001": 100}},
	}
	return report
}

func TestSummarize(t *testing.T) {
	s := fixtureReport().Simulations[0]
	if s.Offerings != 2 {
		t.Errorf("Expected 2 offerings, got %d", s.Offerings)
	}
	if s.TotalDemand != 160 {
		t.Errorf("Expected total demand 160, got %v", s.TotalDemand)
	}
	if s.TotalCost != 210 {
		t.Errorf("Expected total cost 210, got %v", s.TotalCost)
	}
	if s.Bottlenecks != 1 {
		t.Errorf("Expected 1 bottleneck, got %d", s.Bottlenecks)
	}
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(fixtureReport(), Config{Format: "text", Verbose: true, Elapsed: time.Second, Out: &buf})
	if err != nil {
		t.Fatalf("Failed to generate text output: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Supply Chain Simulation Summary", "Seed: 42", "part", "Product offering bottlenecks", "Objective: 300.00", "W_003"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestGenerate_JSONToFile(t *testing.T) {
	dir := t.TempDir()
	err := Generate(fixtureReport(), Config{Format: "json", OutputDir: dir, Out: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("Failed to generate JSON output: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if decoded["command"] != "Simulation" {
		t.Errorf("Expected command Simulation, got %v", decoded["command"])
	}
	if nodes := decoded["nodes"].(map[string]any); nodes["part"] != 6.0 {
		t.Errorf("Expected 6 parts, got %v", nodes["part"])
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	if err := Generate(fixtureReport(), Config{Format: "xml", Out: &bytes.Buffer{}}); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
