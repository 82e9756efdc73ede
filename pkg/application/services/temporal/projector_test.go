package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/services"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
	fixtures "github.com/Surya-0/SCM-Builder/pkg/infrastructure/testing"
)

func TestSeasonal(t *testing.T) {
	tests := []struct {
		category string
		period   int
		expected float64
	}{
		{Demand, 3, 1.0},
		{Demand, 6, 1.15},
		{Cost, 0, 0.85},
		{Cost, 12, 0.85},
		{Revenue, 6, 1.0},
		{Capacity, 0, 1.0},
	}

	for _, tt := range tests {
		got := Seasonal(tt.category, tt.period)
		if math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Seasonal(%s, %d): expected %v, got %v", tt.category, tt.period, tt.expected, got)
		}
	}
}

func TestModel_ValueStaysWithinBand(t *testing.T) {
	cfg := config.Default()
	model := NewModel(cfg, services.NewRandom(11))

	period := 4
	center := 100 * (1 + 0.02*float64(period)) * Seasonal(Cost, period)
	for i := 0; i < 500; i++ {
		v := model.Value(100, Cost, period)
		if v < center*0.9 || v > center*1.1 {
			t.Fatalf("Expected value within 10%% of %v, got %v", center, v)
		}
	}
}

func TestModel_StartAfterHoldsBaseValue(t *testing.T) {
	model := NewModel(config.Default(), services.NewRandom(3))
	assert.Equal(t, 4.0, model.Value(4, "quantity", 2))
	assert.Equal(t, 4.0, model.Value(4, "quantity", 3))
}

func TestModel_UnknownCategoryUsesDefaultVariation(t *testing.T) {
	model := NewModel(config.Default(), services.NewRandom(3))
	for i := 0; i < 100; i++ {
		v := model.Value(50, OperatingCost, 7)
		assert.InDelta(t, 50, v, 5.0+1e-9)
	}
}

func TestProjector_IsReproducible(t *testing.T) {
	cfg := config.Default()
	base, _ := fixtures.BuildFixtureNetwork()

	first, err := NewProjector(cfg, services.NewRandom(99)).Project(base, 5, events.Discard)
	require.NoError(t, err)
	second, err := NewProjector(cfg, services.NewRandom(99)).Project(base, 5, events.Discard)
	require.NoError(t, err)

	for _, n := range first.Nodes() {
		other, _ := second.Node(n.NodeID())
		assert.Equal(t, n.Properties(), other.Properties(), "node %s", n.NodeID())
	}
	for _, e := range first.Edges() {
		other, _ := second.Edge(e.Source, e.Target)
		assert.Equal(t, e.Properties(), other.Properties())
	}
}

func TestProjector_LeavesBaseUntouched(t *testing.T) {
	base, _ := fixtures.BuildFixtureNetwork()
	projected, err := NewProjector(config.Default(), services.NewRandom(1)).Project(base, 2, events.Discard)
	require.NoError(t, err)

	assert.Equal(t, 150.0, base.BusinessGroup().Revenue)
	assert.NotEqual(t, base.BusinessGroup().Revenue, projected.BusinessGroup().Revenue)
	assert.Equal(t, 2, projected.Timestamp)
	assert.Equal(t, "2024-03-01", projected.Date.Format(entities.DateLayout))
	assert.Equal(t, 0, base.Timestamp)
}

func TestProjector_StructuralCountersAndClamps(t *testing.T) {
	cfg := config.Default()
	cfg.Temporal[Capacity] = config.Variation{MaxChange: 0.5}
	cfg.Temporal[Reliability] = config.Variation{MaxChange: 0.5}

	base, _ := fixtures.BuildFixtureNetwork()
	w, _ := base.Warehouse("W_003")
	w.CurrentCapacity = w.MaxCapacity

	projector := NewProjector(cfg, services.NewRandom(5))
	for period := 1; period < 12; period++ {
		next, err := projector.Project(base, period, events.Discard)
		require.NoError(t, err)

		for _, p := range next.Parts() {
			ref, _ := base.Part(p.ID)
			assert.Equal(t, ref.UnitsInChain+entities.Quantity(period), p.UnitsInChain)
		}
		for _, wh := range next.Warehouses() {
			assert.LessOrEqual(t, wh.CurrentCapacity, wh.MaxCapacity, "warehouse %s at period %d", wh.ID, period)
		}
		for _, s := range next.Suppliers() {
			assert.GreaterOrEqual(t, s.Reliability, cfg.Ranges.Reliability.Min)
			assert.LessOrEqual(t, s.Reliability, cfg.Ranges.Reliability.Max)
		}
	}
}

func TestProjector_LogsUpdatesAtPeriodTimestamp(t *testing.T) {
	base, _ := fixtures.BuildFixtureNetwork()
	log := events.NewLog(events.BaselineLog, "NSS_V1")

	_, err := NewProjector(config.Default(), services.NewRandom(8)).Project(base, 2, log)
	require.NoError(t, err)

	// 1 group, 2 families, 2 offerings, 4 warehouses, 1 supplier, 6 parts
	// plus 1 supply route and 5 stock edges
	assert.Len(t, log.Updates()[2], 22)
	assert.Empty(t, log.Creates())

	var sawInventory bool
	for _, op := range log.Updates()[2] {
		if op.Payload.EdgeType == entities.WarehouseToProduct.String() {
			sawInventory = true
			assert.Contains(t, op.Payload.Properties, "inventory_level")
		}
	}
	assert.True(t, sawInventory)
}

func TestProjector_ProjectOntoCarriesNewEntities(t *testing.T) {
	cfg := config.Default()
	base, _ := fixtures.BuildFixtureNetwork()

	latest := base.Clone()
	added, err := entities.NewPart("P_007", "Part_7", entities.RawPart, "chemical", 12, 0.4,
		fixtures.FixtureDate, fixtures.FixtureDate.AddDate(0, 0, 360), 70, 11)
	require.NoError(t, err)
	require.NoError(t, latest.AddNode(added))

	next, err := NewProjector(cfg, services.NewRandom(4)).ProjectOnto(base, latest, 3, events.Discard)
	require.NoError(t, err)

	p, err := next.Part("P_007")
	require.NoError(t, err)
	assert.Equal(t, entities.Quantity(14), p.UnitsInChain)

	_, err = NewProjector(cfg, services.NewRandom(4)).Project(base, 0, events.Discard)
	assert.Error(t, err)
}

func TestProjector_RebaseKeepsBaseValues(t *testing.T) {
	cfg := config.Default()
	base, _ := fixtures.BuildFixtureNetwork()
	projector := NewProjector(cfg, services.NewRandom(6))

	latest, err := projector.Project(base, 4, events.Discard)
	require.NoError(t, err)
	added, err := entities.NewPart("P_007", "Part_7", entities.RawPart, "chemical", 12, 0.4,
		fixtures.FixtureDate, fixtures.FixtureDate.AddDate(0, 0, 360), 70, 11)
	require.NoError(t, err)
	require.NoError(t, latest.AddNode(added))

	rebased := projector.Rebase(base, latest)
	assert.Equal(t, 0, rebased.Timestamp)
	assert.Equal(t, base.Date, rebased.Date)

	for _, po := range base.ProductOfferings() {
		got, err := rebased.ProductOffering(po.ID)
		require.NoError(t, err)
		assert.Equal(t, po.Demand, got.Demand, "offering %s", po.ID)
		assert.Equal(t, po.Cost, got.Cost, "offering %s", po.ID)
	}
	for _, p := range base.Parts() {
		got, _ := rebased.Part(p.ID)
		assert.Equal(t, p.UnitsInChain, got.UnitsInChain, "part %s", p.ID)
	}

	p, err := rebased.Part("P_007")
	require.NoError(t, err)
	assert.Equal(t, entities.Quantity(11), p.UnitsInChain)
	assert.Equal(t, 4, latest.Timestamp)
}

func TestProjector_Series(t *testing.T) {
	base, _ := fixtures.BuildFixtureNetwork()
	series, err := NewProjector(config.Default(), services.NewRandom(2)).Series(base, 4, events.Discard)
	require.NoError(t, err)

	require.Len(t, series, 4)
	assert.Same(t, base, series[0])
	for i, snapshot := range series {
		assert.Equal(t, i, snapshot.Timestamp)
	}
}
