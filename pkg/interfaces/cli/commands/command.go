package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Surya-0/SCM-Builder/pkg/application/services"
	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/export"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/metrics"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/repositories/csv"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/repositories/memory"
	"github.com/Surya-0/SCM-Builder/pkg/interfaces/cli/output"
)

// Config holds the flags shared by every subcommand plus the ones specific
// to simulate and disaster
type Config struct {
	ConfigFile  string
	Seed        int64
	Nodes       int
	Periods     int
	OutputDir   string
	Format      string
	Verbose     bool
	MetricsFile string
	Help        bool

	// Health check factor applied to warehouse safety stock
	HealthFactor float64

	// generate
	AddSuppliers     int
	SupplierSize     string
	AddRawParts      int
	AddSubassemblies int
	AddLamWarehouses int
	ExtraPeriods     int

	// simulate
	Temporal    bool
	Optimize    bool
	DemandsFile string

	// disaster
	Kind         string
	ImpactFactor float64
	Fraction     float64
}

// ConfigureLogging sets the global logger: a console writer at debug level
// when verbose, JSON at info level otherwise
func ConfigureLogging(verbose bool) {
	if verbose {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// session is the state every subcommand builds before running
type session struct {
	config    Config
	cfg       *config.Config
	snapshots *memory.SnapshotRepository
	service   *services.SupplyChainService
	metrics   *metrics.Registry
	start     time.Time
}

func newSession(c Config) (*session, error) {
	cfg := config.Default()
	if c.ConfigFile != "" {
		loaded, err := config.LoadFromPath(c.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if c.Nodes > 0 {
		cfg.TotalVariableNodes = c.Nodes
	}
	if c.Periods > 0 {
		cfg.Periods = c.Periods
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	snapshots := memory.NewSnapshotRepository()
	service := services.NewSupplyChainService(cfg, snapshots, memory.NewDemandRepository())

	registry := metrics.NewRegistry()
	service.BaselineLog().Subscribe(registry)
	service.SimulationLog().Subscribe(registry)

	return &session{
		config:    c,
		cfg:       cfg,
		snapshots: snapshots,
		service:   service,
		metrics:   registry,
		start:     time.Now(),
	}, nil
}

// generate builds the baseline and starts the report
func (s *session) generate(ctx context.Context, command string) (*output.Report, error) {
	result, err := s.service.Generate(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordNetwork(result.Network)

	report := output.NewReport(command, s.cfg.Seed, result.Network)
	report.Periods = s.snapshots.BaselineTimestamps()
	return report, nil
}

// checkHealth lists unhealthy warehouses of the latest baseline
func (s *session) checkHealth(report *output.Report) error {
	unhealthy, err := s.service.UnhealthyWarehouses(s.config.HealthFactor)
	if err != nil {
		return err
	}
	for _, w := range unhealthy {
		report.UnhealthyWarehouses = append(report.UnhealthyWarehouses, w.ID)
	}
	return nil
}

// exportBaseline writes every baseline period as CSV plus the replayable
// baseline batches
func (s *session) exportBaseline(report *output.Report) error {
	if s.config.OutputDir == "" {
		return nil
	}

	var snapshots []*network.Network
	for _, ts := range s.snapshots.BaselineTimestamps() {
		n, err := s.snapshots.Baseline(ts)
		if err != nil {
			return err
		}
		snapshots = append(snapshots, n)
	}
	if err := csv.NewExporter(filepath.Join(s.config.OutputDir, "baseline")).ExportSeries(snapshots); err != nil {
		return fmt.Errorf("failed to export baseline: %w", err)
	}
	report.Files = append(report.Files, filepath.Join(s.config.OutputDir, "baseline"))

	path, err := s.writeBatches("baseline.batches", s.service.BaselineLog())
	if err != nil {
		return err
	}
	report.Files = append(report.Files, path)
	return nil
}

func (s *session) writeBatches(name string, l *events.Log) (string, error) {
	if err := os.MkdirAll(s.config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(s.config.OutputDir, name)
	w, err := export.NewBatchWriter(path)
	if err != nil {
		return "", err
	}
	if _, err := w.WriteLog(l, s.cfg.ExportBatchSize); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to export %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// finish writes the metrics file and prints the report
func (s *session) finish(report *output.Report) error {
	report.Operations["baseline"] = s.service.BaselineLog().Len()
	report.Operations["simulation"] = s.service.SimulationLog().Len()

	if s.config.MetricsFile != "" {
		if err := s.metrics.WriteToTextfile(s.config.MetricsFile); err != nil {
			return err
		}
		report.Files = append(report.Files, s.config.MetricsFile)
	}

	return output.Generate(report, output.Config{
		Format:    s.config.Format,
		OutputDir: s.config.OutputDir,
		Verbose:   s.config.Verbose,
		Elapsed:   time.Since(s.start),
	})
}
