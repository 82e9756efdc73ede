package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 21, cfg.Catalog.OfferingCount())
	assert.Equal(t, "NSS_V1", cfg.Version)
	assert.Equal(t, "20240131", cfg.PeriodDate(1).Format("20060102"))
}

func TestVariation_FallsBackToDefault(t *testing.T) {
	cfg := Default()

	demand := cfg.Variation("demand")
	if demand.MaxChange != 0.15 || demand.Trend != 0.03 {
		t.Errorf("Expected demand variation 0.15/0.03, got %v/%v", demand.MaxChange, demand.Trend)
	}

	opCost := cfg.Variation("operating_cost")
	if opCost != DefaultVariation {
		t.Errorf("Expected default variation for operating_cost, got %+v", opCost)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero node budget", func(c *Config) { c.TotalVariableNodes = 0 }},
		{"inverted range", func(c *Config) { c.Ranges.Cost = Range{Min: 10, Max: 5} }},
		{"node ratios off", func(c *Config) { c.Ratios.Parts = 0.6 }},
		{"facility ratios off", func(c *Config) { c.Ratios.LamFacilities = 0.5 }},
		{"no locations", func(c *Config) { c.Catalog.Locations = nil }},
		{"duplicate offering", func(c *Config) {
			c.Catalog.ProductFamilies[1].Offerings = append(c.Catalog.ProductFamilies[1].Offerings, "Kyo® C Series")
		}},
		{"reliability above one", func(c *Config) { c.Ranges.Reliability = Range{Min: 0.6, Max: 1.2} }},
		{"missing version", func(c *Config) { c.Version = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scm.yaml")

	content := `
total_variable_nodes: 50
seed: 42
bottleneck_factor: 0.1
temporal_variation:
  demand:
    max_change: 0.05
    trend: 0.01
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.TotalVariableNodes)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 0.1, cfg.BottleneckFactor)
	assert.Equal(t, 0.05, cfg.Variation("demand").MaxChange)
	// untouched keys keep their defaults
	assert.Equal(t, 0.12, cfg.Variation("revenue").MaxChange)
	assert.Equal(t, 12, cfg.Periods)
	assert.Len(t, cfg.Catalog.ProductFamilies, 4)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scm.yaml")

	cfg := Default()
	cfg.Seed = 7
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), loaded.Seed)
	assert.True(t, cfg.BaseDate.Equal(loaded.BaseDate))
	assert.Equal(t, cfg.Catalog.OfferingCount(), loaded.Catalog.OfferingCount())
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}
