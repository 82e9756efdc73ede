package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/Surya-0/SCM-Builder/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := os.Args[1]
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	config := commands.Config{}

	// Flags shared by every subcommand
	fs.StringVar(&config.ConfigFile, "config", "", "YAML configuration file")
	fs.Int64Var(&config.Seed, "seed", 0, "Random seed (0 keeps the configured seed)")
	fs.IntVar(&config.Nodes, "nodes", 0, "Total number of variable nodes")
	fs.IntVar(&config.Periods, "periods", 0, "Number of periods")
	fs.StringVar(&config.OutputDir, "output", "", "Output directory for results (optional)")
	fs.StringVar(&config.Format, "format", "text", "Output format: text, json")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable verbose output")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	fs.Float64Var(&config.HealthFactor, "health-factor", 1, "Warehouse health threshold as a multiple of safety stock")
	fs.BoolVar(&config.Help, "help", false, "Show help message")

	switch name {
	case "generate":
		fs.IntVar(&config.AddSuppliers, "add-suppliers", 0, "Suppliers to add to the latest period")
		fs.StringVar(&config.SupplierSize, "supplier-size", "medium", "Size of added suppliers")
		fs.IntVar(&config.AddRawParts, "add-raw-parts", 0, "Raw parts to add to the latest period")
		fs.IntVar(&config.AddSubassemblies, "add-subassemblies", 0, "Subassembly parts to add to the latest period")
		fs.IntVar(&config.AddLamWarehouses, "add-lam-warehouses", 0, "Lam warehouses to add to the latest period")
		fs.IntVar(&config.ExtraPeriods, "extra-periods", 0, "Periods to project after the additions")
	case "simulate":
		fs.BoolVar(&config.Temporal, "temporal", false, "Simulate every period")
		fs.BoolVar(&config.Optimize, "optimize", false, "Optimize lam warehouse storage")
		fs.StringVar(&config.DemandsFile, "demands", "", "CSV of offering orders")
	case "disaster":
		fs.StringVar(&config.Kind, "kind", "", "Disaster kind")
		fs.Float64Var(&config.ImpactFactor, "impact-factor", 1.5, "Impact factor")
		fs.Float64Var(&config.Fraction, "fraction", 0.2, "Share of the pool affected")
	case "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", name)
		usage()
		os.Exit(2)
	}

	fs.Parse(os.Args[2:])
	commands.ConfigureLogging(config.Verbose)

	var cmd command
	switch name {
	case "generate":
		cmd = commands.NewGenerateCommand(config)
	case "simulate":
		cmd = commands.NewSimulateCommand(config)
	case "disaster":
		cmd = commands.NewDisasterCommand(config)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Supply Chain Network Generator and Propagation Engine

USAGE:
    scm <command> [options]

COMMANDS:
    generate    Generate the baseline network and its periods
    simulate    Propagate demand and cost, detect bottlenecks
    disaster    Apply a disaster scenario after a static simulation

Run "scm <command> -help" for the options of a command.
`)
}
