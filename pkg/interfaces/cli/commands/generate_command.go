package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Surya-0/SCM-Builder/pkg/application/services/manager"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

// GenerateCommand builds the baseline network and its periods
type GenerateCommand struct {
	config Config
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config Config) *GenerateCommand {
	return &GenerateCommand{config: config}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	s, err := newSession(cmd.config)
	if err != nil {
		return err
	}

	report, err := s.generate(ctx, "Generation")
	if err != nil {
		return err
	}

	batch, err := cmd.batch()
	if err != nil {
		return err
	}
	if batch.Size() > 0 {
		extended, err := s.service.Extend(batch)
		if err != nil {
			return fmt.Errorf("failed to extend network: %w", err)
		}
		report.Added = extended.Added
	}

	for i := 0; i < cmd.config.ExtraPeriods; i++ {
		next, err := s.service.NextPeriod()
		if err != nil {
			return err
		}
		log.Debug().Int("period", next.Timestamp).Msg("extra period projected")
	}

	latest, err := s.snapshots.LatestBaseline()
	if err != nil {
		return err
	}
	s.metrics.RecordNetwork(latest)
	report.Periods = s.snapshots.BaselineTimestamps()

	if err := s.checkHealth(report); err != nil {
		return err
	}
	if err := s.exportBaseline(report); err != nil {
		return err
	}

	return s.finish(report)
}

// batch turns the -add-* flags into a manager batch
func (cmd *GenerateCommand) batch() (manager.Batch, error) {
	batch := manager.Batch{
		RawParts:         cmd.config.AddRawParts,
		SubassemblyParts: cmd.config.AddSubassemblies,
		Warehouses:       map[entities.WarehouseType]int{entities.LamWarehouse: cmd.config.AddLamWarehouses},
	}
	if cmd.config.AddSuppliers > 0 {
		size, err := entities.ParseSizeCategory(cmd.config.SupplierSize)
		if err != nil {
			return batch, err
		}
		batch.Suppliers = map[entities.SizeCategory]int{size: cmd.config.AddSuppliers}
	}
	return batch, nil
}

func (cmd *GenerateCommand) printHelp() {
	fmt.Printf(`Supply Chain Network Generator

USAGE:
    scm generate [options]

OPTIONS:
    -config <file>             YAML configuration file (defaults are built in)
    -seed <n>                  Random seed
    -nodes <n>                 Total number of variable nodes
    -periods <n>               Number of periods to project
    -output <dir>              Write per-period CSV directories and baseline.batches
    -format <fmt>              Output format: text, json (default: text)
    -metrics-file <file>       Write Prometheus metrics in textfile format
    -health-factor <f>         Flag warehouses below f times their safety stock (default: 1)
    -add-suppliers <n>         Add n suppliers to the latest period
    -supplier-size <size>      Size of added suppliers: small, medium, large (default: medium)
    -add-raw-parts <n>         Add n raw parts to the latest period
    -add-subassemblies <n>     Add n subassembly parts to the latest period
    -add-lam-warehouses <n>    Add n lam warehouses to the latest period
    -extra-periods <n>         Project n more periods after the additions
    -verbose                   Enable verbose output
    -help                      Show this help message

EXAMPLES:
    scm generate -nodes 1000 -periods 12 -output out/
    scm generate -seed 7 -add-raw-parts 5 -extra-periods 1 -format json
`)
}
