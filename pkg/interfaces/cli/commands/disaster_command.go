package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/Surya-0/SCM-Builder/pkg/application/services/scenario"
	"github.com/Surya-0/SCM-Builder/pkg/interfaces/cli/output"
)

// DisasterCommand runs a static simulation and then applies one disaster
type DisasterCommand struct {
	config Config
}

// NewDisasterCommand creates a new disaster command
func NewDisasterCommand(config Config) *DisasterCommand {
	return &DisasterCommand{config: config}
}

// Execute runs the disaster command
func (cmd *DisasterCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	kind, err := scenario.ParseDisasterKind(cmd.config.Kind)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	d := scenario.Disaster{Kind: kind, ImpactFactor: cmd.config.ImpactFactor, Fraction: cmd.config.Fraction}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	s, err := newSession(cmd.config)
	if err != nil {
		return err
	}
	report, err := s.generate(ctx, "Disaster")
	if err != nil {
		return err
	}

	start := time.Now()
	before, err := s.service.SimulateStatic(ctx)
	if err != nil {
		return err
	}
	s.metrics.RecordSimulation("static", time.Since(start), before)

	start = time.Now()
	result, err := s.service.ApplyDisaster(ctx, d)
	if err != nil {
		return err
	}
	s.metrics.RecordSimulation("disaster", time.Since(start), result.After)

	report.Simulations = []output.SimulationSummary{output.Summarize(result.Before), output.Summarize(result.After)}
	report.Bottlenecks = s.service.Bottlenecks()
	report.Disaster = &output.DisasterSummary{
		Kind:         string(d.Kind),
		ImpactFactor: d.ImpactFactor,
		Fraction:     d.Fraction,
		Timestamp:    result.After.Timestamp,
		Affected:     result.Affected,
		CostImpact:   result.CostImpact(),
	}

	if err := writeSimulationFiles(s, report); err != nil {
		return err
	}
	return s.finish(report)
}

func (cmd *DisasterCommand) printHelp() {
	fmt.Printf(`Supply Chain Disaster Simulation

USAGE:
    scm disaster -kind <kind> [options]

OPTIONS:
    -kind <kind>            cost_increase, demand_surge or capacity_reduction
    -impact-factor <f>      Multiplier applied to the affected entities (default: 1.5)
    -fraction <f>           Share of the pool affected, in (0, 1] (default: 0.2)
    -config <file>          YAML configuration file (defaults are built in)
    -seed <n>               Random seed
    -nodes <n>              Total number of variable nodes
    -output <dir>           Write aggregates.json, bottlenecks.json and simulation.batches
    -format <fmt>           Output format: text, json (default: text)
    -metrics-file <file>    Write Prometheus metrics in textfile format
    -verbose                Enable verbose output
    -help                   Show this help message

EXAMPLES:
    scm disaster -kind demand_surge -impact-factor 2 -fraction 0.3
    scm disaster -kind capacity_reduction -format json -output out/
`)
}
