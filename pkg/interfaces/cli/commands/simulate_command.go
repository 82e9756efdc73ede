package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/export"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/repositories/csv"
	"github.com/Surya-0/SCM-Builder/pkg/interfaces/cli/output"
)

// SimulateCommand runs demand and cost propagation over a generated network
type SimulateCommand struct {
	config Config
}

// NewSimulateCommand creates a new simulate command
func NewSimulateCommand(config Config) *SimulateCommand {
	return &SimulateCommand{config: config}
}

// Execute runs the simulate command
func (cmd *SimulateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	s, err := newSession(cmd.config)
	if err != nil {
		return err
	}

	report, err := s.generate(ctx, "Simulation")
	if err != nil {
		return err
	}

	if cmd.config.DemandsFile != "" {
		orders, err := csv.NewLoader().LoadDemands(cmd.config.DemandsFile)
		if err != nil {
			return fmt.Errorf("error loading demands: %w", err)
		}
		if err := s.service.PlaceOrders(orders); err != nil {
			return err
		}
	}

	mode := "static"
	if cmd.config.Temporal {
		mode = "temporal"
	}

	start := time.Now()
	var results []*dto.SimulationResult
	if cmd.config.Temporal {
		results, err = s.service.SimulateTemporal(ctx)
	} else {
		var result *dto.SimulationResult
		result, err = s.service.SimulateStatic(ctx)
		results = []*dto.SimulationResult{result}
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, result := range results {
		s.metrics.RecordSimulation(mode, elapsed/time.Duration(len(results)), result)
		report.Simulations = append(report.Simulations, output.Summarize(result))
	}
	report.Bottlenecks = s.service.Bottlenecks()

	if cmd.config.Optimize {
		allocation, err := s.service.OptimizeStorage(ctx)
		if err != nil {
			return err
		}
		s.metrics.RecordAllocation(allocation)
		report.Allocation = allocation
	}

	if err := writeSimulationFiles(s, report); err != nil {
		return err
	}
	return s.finish(report)
}

// writeSimulationFiles exports aggregates, bottlenecks and the simulation batches
func writeSimulationFiles(s *session, report *output.Report) error {
	if s.config.OutputDir == "" {
		return nil
	}

	path, err := s.writeBatches("simulation.batches", s.service.SimulationLog())
	if err != nil {
		return err
	}
	report.Files = append(report.Files, path)

	aggregates := filepath.Join(s.config.OutputDir, "aggregates.json")
	if err := export.WriteAggregates(aggregates, s.service.Aggregates()); err != nil {
		return err
	}
	bottlenecks := filepath.Join(s.config.OutputDir, "bottlenecks.json")
	if err := export.WriteBottlenecks(bottlenecks, s.service.Bottlenecks()); err != nil {
		return err
	}
	report.Files = append(report.Files, aggregates, bottlenecks)
	return nil
}

func (cmd *SimulateCommand) printHelp() {
	fmt.Printf(`Supply Chain Propagation Engine

USAGE:
    scm simulate [options]

OPTIONS:
    -config <file>          YAML configuration file (defaults are built in)
    -seed <n>               Random seed
    -nodes <n>              Total number of variable nodes
    -periods <n>            Number of periods for temporal simulation
    -temporal               Simulate every period instead of once
    -demands <file>         CSV of offering orders overriding generated demand
    -optimize               Allocate offering demand to lam warehouses
    -output <dir>           Write aggregates.json, bottlenecks.json and simulation.batches
    -format <fmt>           Output format: text, json (default: text)
    -metrics-file <file>    Write Prometheus metrics in textfile format
    -verbose                Enable verbose output
    -help                   Show this help message

demands.csv:
    offering_id,demand
    PO_001,120

EXAMPLES:
    scm simulate -temporal -periods 12 -output out/
    scm simulate -demands orders.csv -optimize -verbose
`)
}
