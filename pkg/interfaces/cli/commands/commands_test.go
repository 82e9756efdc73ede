package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/export"
)

func baseConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Seed:         42,
		Nodes:        50,
		Periods:      2,
		OutputDir:    t.TempDir(),
		Format:       "json",
		HealthFactor: 1,
		SupplierSize: "medium",
		ImpactFactor: 1.5,
		Fraction:     0.2,
	}
}

func readReport(t *testing.T, dir string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal(data, &report))
	return report
}

func TestGenerateCommand_WritesBaseline(t *testing.T) {
	c := baseConfig(t)
	c.MetricsFile = filepath.Join(c.OutputDir, "scm.prom")
	c.AddRawParts = 2
	c.ExtraPeriods = 1

	require.NoError(t, NewGenerateCommand(c).Execute(context.Background()))

	assert.DirExists(t, filepath.Join(c.OutputDir, "baseline", "20240101"))
	assert.DirExists(t, filepath.Join(c.OutputDir, "baseline", "20240131"))
	assert.DirExists(t, filepath.Join(c.OutputDir, "baseline", "20240301"))
	assert.FileExists(t, c.MetricsFile)

	batches, err := export.ReadBatches(filepath.Join(c.OutputDir, "baseline.batches"))
	require.NoError(t, err)
	assert.NotEmpty(t, batches)

	report := readReport(t, c.OutputDir)
	assert.Equal(t, "Generation", report["command"])
	assert.Len(t, report["added"], 2)
	assert.Len(t, report["periods"], 3)
}

func TestSimulateCommand_Temporal(t *testing.T) {
	c := baseConfig(t)
	c.Temporal = true
	c.Optimize = true

	require.NoError(t, NewSimulateCommand(c).Execute(context.Background()))

	assert.FileExists(t, filepath.Join(c.OutputDir, "aggregates.json"))
	assert.FileExists(t, filepath.Join(c.OutputDir, "bottlenecks.json"))
	assert.FileExists(t, filepath.Join(c.OutputDir, "simulation.batches"))

	report := readReport(t, c.OutputDir)
	assert.Len(t, report["simulations"], 2)
	assert.NotNil(t, report["allocation"])
}

func TestSimulateCommand_WithDemands(t *testing.T) {
	c := baseConfig(t)
	c.DemandsFile = filepath.Join(c.OutputDir, "orders.csv")
	require.NoError(t, os.WriteFile(c.DemandsFile, []byte("offering_id,demand\nPO_001,500\n"), 0o644))

	require.NoError(t, NewSimulateCommand(c).Execute(context.Background()))

	data, err := os.ReadFile(filepath.Join(c.OutputDir, "aggregates.json"))
	require.NoError(t, err)
	var aggregates map[string]map[string]map[string]float64
	require.NoError(t, json.Unmarshal(data, &aggregates))
	assert.Equal(t, 500.0, aggregates["product_offering_demand"]["0"]["PO_001"])
}

func TestDisasterCommand(t *testing.T) {
	c := baseConfig(t)
	c.Kind = "demand_surge"

	require.NoError(t, NewDisasterCommand(c).Execute(context.Background()))

	report := readReport(t, c.OutputDir)
	disaster := report["disaster"].(map[string]any)
	assert.Equal(t, "demand_surge", disaster["kind"])
	assert.Equal(t, 1.0, disaster["timestamp"])
}

func TestDisasterCommand_RejectsInvalidInput(t *testing.T) {
	c := baseConfig(t)
	c.Kind = "meteor"
	assert.Error(t, NewDisasterCommand(c).Execute(context.Background()))

	c.Kind = "cost_increase"
	c.Fraction = 1.5
	assert.Error(t, NewDisasterCommand(c).Execute(context.Background()))
}

func TestNewSession_RejectsInvalidOverrides(t *testing.T) {
	c := baseConfig(t)
	c.ConfigFile = filepath.Join(c.OutputDir, "missing.yaml")
	_, err := newSession(c)
	assert.Error(t, err)
}
