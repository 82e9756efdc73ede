package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Elapsed   time.Duration
	Out       io.Writer
}

// SimulationSummary condenses one propagation run
type SimulationSummary struct {
	Timestamp   int     `json:"timestamp"`
	Offerings   int     `json:"offerings"`
	TotalDemand float64 `json:"total_demand"`
	TotalCost   float64 `json:"total_cost"`
	Bottlenecks int     `json:"bottlenecks"`
}

// DisasterSummary describes one applied disaster
type DisasterSummary struct {
	Kind         string                        `json:"kind"`
	ImpactFactor float64                       `json:"impact_factor"`
	Fraction     float64                       `json:"fraction"`
	Timestamp    int                           `json:"timestamp"`
	Affected     []entities.EntityID           `json:"affected"`
	CostImpact   map[entities.EntityID]float64 `json:"cost_impact"`
}

// Report is everything a command prints
type Report struct {
	Command             string                `json:"command"`
	Seed                int64                 `json:"seed"`
	Periods             []int                 `json:"periods"`
	Nodes               map[string]int        `json:"nodes"`
	Edges               int                   `json:"edges"`
	Operations          map[string]int        `json:"operations"`
	Added               []entities.EntityID   `json:"added,omitempty"`
	Simulations         []SimulationSummary   `json:"simulations,omitempty"`
	Bottlenecks         *dto.Bottlenecks      `json:"bottlenecks,omitempty"`
	Disaster            *DisasterSummary      `json:"disaster,omitempty"`
	Allocation          *dto.AllocationResult `json:"allocation,omitempty"`
	UnhealthyWarehouses []entities.EntityID   `json:"unhealthy_warehouses,omitempty"`
	Files               []string              `json:"files,omitempty"`
	Elapsed             string                `json:"elapsed"`
}

// NewReport creates a report with the node and edge counts of n
func NewReport(command string, seed int64, n *network.Network) *Report {
	nodes := make(map[string]int)
	for nodeType, count := range n.CountByType() {
		nodes[nodeType.String()] = count
	}
	return &Report{
		Command:    command,
		Seed:       seed,
		Nodes:      nodes,
		Edges:      n.EdgeCount(),
		Operations: make(map[string]int),
	}
}

// Summarize condenses a simulation result
func Summarize(result *dto.SimulationResult) SimulationSummary {
	summary := SimulationSummary{
		Timestamp: result.Timestamp,
		Offerings: len(result.Aggregates.OfferingDemand),
	}
	for _, demand := range result.Aggregates.OfferingDemand {
		summary.TotalDemand += demand
	}
	for _, cost := range result.Aggregates.OfferingCost {
		summary.TotalCost += cost
	}
	if result.Bottlenecks != nil {
		summary.Bottlenecks = result.Bottlenecks.Subassembly.Count() + result.Bottlenecks.Offering.Count()
	}
	return summary
}

// Generate creates output in the specified format
func Generate(report *Report, config Config) error {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	report.Elapsed = config.Elapsed.String()

	switch config.Format {
	case "text":
		generateTextOutput(report, config)
		return nil
	case "json":
		return generateJSONOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(report *Report, config Config) {
	w := config.Out
	fmt.Fprintf(w, "📊 Supply Chain %s Summary\n", report.Command)
	fmt.Fprintf(w, "==============================\n\n")

	fmt.Fprintf(w, "Seed: %d\n", report.Seed)
	fmt.Fprintf(w, "Periods: %d\n", len(report.Periods))
	fmt.Fprintf(w, "Edges: %d\n", report.Edges)
	fmt.Fprintf(w, "Elapsed: %s\n\n", report.Elapsed)

	fmt.Fprintf(w, "%-20s %-8s\n", "Node Type", "Count")
	fmt.Fprintf(w, "%-20s %-8s\n", "--------------------", "--------")
	for _, name := range sortedKeys(report.Nodes) {
		fmt.Fprintf(w, "%-20s %-8d\n", name, report.Nodes[name])
	}
	fmt.Fprintln(w)

	for _, name := range sortedKeys(report.Operations) {
		fmt.Fprintf(w, "Operations (%s): %d\n", name, report.Operations[name])
	}
	fmt.Fprintln(w)

	if len(report.Added) > 0 {
		fmt.Fprintf(w, "➕ Added: %v\n\n", report.Added)
	}

	if len(report.Simulations) > 0 {
		fmt.Fprintf(w, "🔄 Simulations:\n")
		fmt.Fprintf(w, "%-10s %-10s %-14s %-14s %-12s\n", "Timestamp", "Offerings", "Demand", "Cost", "Bottlenecks")
		fmt.Fprintf(w, "%-10s %-10s %-14s %-14s %-12s\n", "----------", "----------", "--------------", "--------------", "------------")
		for _, s := range report.Simulations {
			fmt.Fprintf(w, "%-10d %-10d %-14.2f %-14.2f %-12d\n", s.Timestamp, s.Offerings, s.TotalDemand, s.TotalCost, s.Bottlenecks)
		}
		fmt.Fprintln(w)
	}

	if report.Bottlenecks != nil && config.Verbose {
		writeBottlenecks(w, "Subassembly", report.Bottlenecks.Subassembly)
		writeBottlenecks(w, "Product offering", report.Bottlenecks.Offering)
	}

	if d := report.Disaster; d != nil {
		fmt.Fprintf(w, "🌪️  Disaster %s (factor %.2f, fraction %.2f) at timestamp %d\n", d.Kind, d.ImpactFactor, d.Fraction, d.Timestamp)
		fmt.Fprintf(w, "Affected: %d entities\n", len(d.Affected))
		fmt.Fprintf(w, "%-15s %-14s\n", "Offering", "Cost Impact")
		fmt.Fprintf(w, "%-15s %-14s\n", "---------------", "--------------")
		for _, id := range network.SortedIDs(d.CostImpact) {
			fmt.Fprintf(w, "%-15s %-14.2f\n", id, d.CostImpact[id])
		}
		fmt.Fprintln(w)
	}

	if a := report.Allocation; a != nil {
		fmt.Fprintf(w, "📦 Storage allocation: %s\n", a.Status)
		if a.Optimal() {
			fmt.Fprintf(w, "Objective: %.2f\n", a.Objective)
			fmt.Fprintf(w, "%-12s %-12s %-12s\n", "Warehouse", "Offering", "Units")
			fmt.Fprintf(w, "%-12s %-12s %-12s\n", "------------", "------------", "------------")
			for _, wh := range network.SortedIDs(a.Allocations) {
				for _, po := range network.SortedIDs(a.Allocations[wh]) {
					fmt.Fprintf(w, "%-12s %-12s %-12.0f\n", wh, po, a.Allocations[wh][po])
				}
			}
		}
		fmt.Fprintln(w)
	}

	if len(report.UnhealthyWarehouses) > 0 {
		fmt.Fprintf(w, "⚠️  Unhealthy warehouses: %v\n\n", report.UnhealthyWarehouses)
	}

	if len(report.Files) > 0 && config.Verbose {
		fmt.Fprintf(w, "💾 Files written:\n")
		for _, f := range report.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
}

func writeBottlenecks(w io.Writer, tier string, report dto.BottleneckReport) {
	if report.Count() == 0 {
		return
	}
	fmt.Fprintf(w, "⚠️  %s bottlenecks:\n", tier)
	fmt.Fprintf(w, "%-10s %-12s %-12s %-12s\n", "Timestamp", "Entity", "Demand", "Capacity")
	fmt.Fprintf(w, "%-10s %-12s %-12s %-12s\n", "----------", "------------", "------------", "------------")
	timestamps := make([]int, 0, len(report))
	for ts := range report {
		timestamps = append(timestamps, ts)
	}
	slices.Sort(timestamps)
	for _, ts := range timestamps {
		for _, id := range network.SortedIDs(report[ts]) {
			b := report[ts][id]
			fmt.Fprintf(w, "%-10d %-12s %-12.2f %-12.2f\n", ts, id, b.Demand, b.AggregateCapacity)
		}
	}
	fmt.Fprintln(w)
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report *Report, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.Out, string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "report.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Out, "💾 JSON report saved to: %s\n", filename)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
