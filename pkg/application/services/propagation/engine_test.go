package propagation

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
	fixtures "github.com/Surya-0/SCM-Builder/pkg/infrastructure/testing"
)

func runFixture(t *testing.T) (*Context, *Engine) {
	t.Helper()
	base, topo := fixtures.BuildFixtureNetwork()
	c := NewContext(base.Clone(), topo, events.Discard)
	engine := NewEngine()
	_, err := engine.Run(context.Background(), c)
	require.NoError(t, err)
	return c, engine
}

func assertDecimal(t *testing.T, expected float64, got decimal.Decimal) {
	t.Helper()
	if !decimal.NewFromFloat(expected).Equal(got) {
		t.Errorf("Expected %v, got %s", expected, got)
	}
}

func TestEngine_DemandPropagation(t *testing.T) {
	c, _ := runFixture(t)

	assertDecimal(t, 75, c.LamFacilityDemand["F_003"])
	assertDecimal(t, 25, c.LamFacilityDemand["F_004"])
	assertDecimal(t, 60, c.LamFacilityDemand["F_005"])

	tests := []struct {
		id       entities.EntityID
		expected entities.Quantity
	}{
		{"P_005", 175},
		{"P_006", 255},
	}
	for _, tt := range tests {
		if got := c.SubassemblyDemand[tt.id]; got != tt.expected {
			t.Errorf("Expected %s demand %d, got %d", tt.id, tt.expected, got)
		}
	}

	assertDecimal(t, 100, c.ExternalFacilityDemand["F_001"])
	assertDecimal(t, 75, c.ExternalFacilityDemand["F_002"])

	raw := map[entities.EntityID]entities.Quantity{"P_001": 200, "P_002": 100, "P_003": 225, "P_004": 75}
	for id, expected := range raw {
		if got := c.RawDemand[id]; got != expected {
			t.Errorf("Expected %s demand %d, got %d", id, expected, got)
		}
	}
}

func TestEngine_DemandCountsIntoUnitsInChain(t *testing.T) {
	c, _ := runFixture(t)

	expected := map[entities.EntityID]entities.Quantity{
		"P_001": 210, "P_003": 235, "P_005": 190, "P_006": 270,
	}
	for id, units := range expected {
		p, err := c.Network.Part(id)
		require.NoError(t, err)
		assert.Equal(t, units, p.UnitsInChain, "part %s", id)
	}
}

func TestEngine_CostPropagation(t *testing.T) {
	c, _ := runFixture(t)

	assertDecimal(t, 4050, c.ExternalFacilityCost["F_001"])
	assertDecimal(t, 1755, c.ExternalFacilityCost["F_002"])
	assertDecimal(t, 5805, c.SubassemblyCost["P_005"])
	assertDecimal(t, 40, c.SubassemblyCost["P_006"])
	assertDecimal(t, 873850, c.LamFacilityCost["F_003"])
	assertDecimal(t, 145145, c.LamFacilityCost["F_004"])
	assertDecimal(t, 7240, c.LamFacilityCost["F_005"])
	assertDecimal(t, 1018995, c.OfferingCost["PO_001"])
	assertDecimal(t, 7240, c.OfferingCost["PO_002"])

	sa, _ := c.Network.Part("P_005")
	assert.Equal(t, 5805.0, sa.Cost)
}

func TestEngine_HierarchyRollup(t *testing.T) {
	c, _ := runFixture(t)

	po1, _ := c.Network.ProductOffering("PO_001")
	po2, _ := c.Network.ProductOffering("PO_002")
	assert.InDelta(t, 10189.95, po1.Cost, 1e-9)
	assert.InDelta(t, 7240.0/60, po2.Cost, 1e-9)

	pf1, _ := c.Network.ProductFamily("PF_001")
	pf2, _ := c.Network.ProductFamily("PF_002")
	assert.Equal(t, 1018995.0, pf1.Revenue)
	assert.Equal(t, 7240.0, pf2.Revenue)
	assert.Equal(t, 1026235.0, c.Network.BusinessGroup().Revenue)
}

func TestEngine_FixtureBottlenecks(t *testing.T) {
	base, topo := fixtures.BuildFixtureNetwork()
	result, err := NewEngine().Simulate(context.Background(), base, topo, 0, events.Discard)
	require.NoError(t, err)

	b := result.Bottlenecks
	assert.True(t, b.Subassembly.Has(0, "P_005"))
	assert.False(t, b.Subassembly.Has(0, "P_006"), "no producing capacity")
	assert.True(t, b.Offering.Has(0, "PO_001"))
	assert.True(t, b.Offering.Has(0, "PO_002"))

	entry := b.Offering[0]["PO_001"]
	assert.Equal(t, 100.0, entry.Demand)
	assert.Equal(t, 400.0, entry.AggregateCapacity)
	assert.Equal(t, DefaultBottleneckFactor, entry.BottleneckFactor)
	assert.InDelta(t, 0.25, entry.Ratio(), 1e-12)
}

func TestDetectBottlenecks_Threshold(t *testing.T) {
	tests := []struct {
		name    string
		demand  entities.Quantity
		flagged bool
	}{
		{"above factor", 150, true},
		{"below factor", 50, false},
		{"equal to factor", 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, topo := fixtures.BuildFixtureNetwork()
			f1, _ := base.Facility("F_001")
			f2, _ := base.Facility("F_002")
			f1.MaxCapacity = 600
			f2.MaxCapacity = 400

			c := NewContext(base, topo, events.Discard)
			c.Timestamp = 4
			c.SubassemblyDemand["P_005"] = tt.demand

			report := DetectBottlenecks(c, 0.1)
			if got := report.Subassembly.Has(4, "P_005"); got != tt.flagged {
				t.Errorf("Expected flagged=%v for demand %d, got %v", tt.flagged, tt.demand, got)
			}
			if tt.flagged {
				assert.Equal(t, 1000.0, report.Subassembly[4]["P_005"].AggregateCapacity)
			}
		})
	}
}

func TestContext_RefreshCapacitiesIsEager(t *testing.T) {
	base, topo := fixtures.BuildFixtureNetwork()
	c := NewContext(base, topo, events.Discard)
	assertDecimal(t, 400, c.OfferingCapacity("PO_001"))

	f, _ := base.Facility("F_004")
	f.MaxCapacity = 50
	assertDecimal(t, 400, c.OfferingCapacity("PO_001"))

	c.RefreshCapacities()
	assertDecimal(t, 350, c.OfferingCapacity("PO_001"))
	assertDecimal(t, 1750, c.SubassemblyCapacity("P_005"))
	assert.True(t, c.SubassemblyCapacity("P_006").IsZero())
}

func TestEngine_ZeroCapacitySkipsSplit(t *testing.T) {
	base, topo := fixtures.BuildFixtureNetwork()
	for _, id := range []entities.EntityID{"F_003", "F_004"} {
		f, _ := base.Facility(id)
		f.MaxCapacity = 0
	}

	c := NewContext(base, topo, events.Discard)
	result, err := NewEngine().Run(context.Background(), c)
	require.NoError(t, err)

	_, ok := c.LamFacilityDemand["F_003"]
	assert.False(t, ok)
	assert.Equal(t, entities.Quantity(0), c.SubassemblyDemand["P_005"])
	assert.Equal(t, entities.Quantity(180), c.SubassemblyDemand["P_006"])
	assert.False(t, result.Bottlenecks.Offering.Has(0, "PO_001"))

	// only operating cost remains
	assertDecimal(t, 120, c.OfferingCost["PO_001"])
}

func TestEngine_SimulateLeavesBaseUntouched(t *testing.T) {
	base, topo := fixtures.BuildFixtureNetwork()
	log := events.NewLog(events.SimulationLog, "NSS_V1")

	result, err := NewEngine().Simulate(context.Background(), base, topo, 3, log)
	require.NoError(t, err)

	assert.Equal(t, 150.0, base.BusinessGroup().Revenue)
	p, _ := base.Part("P_005")
	assert.Equal(t, entities.Quantity(15), p.UnitsInChain)

	assert.Equal(t, 3, result.Timestamp)
	assert.Equal(t, 3, result.Network.Timestamp)
	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Equal(t, 1026235.0, result.Network.BusinessGroup().Revenue)
	assert.NotEmpty(t, log.Updates()[3])
	assert.Empty(t, log.Updates()[0])

	assert.Equal(t, 1018995.0, result.Aggregates.OfferingCost["PO_001"])
	assert.Equal(t, 175.0, result.Aggregates.SubassemblyDemand["P_005"])
	assert.Equal(t, 10.0, result.Aggregates.RawCost["P_001"])
}

func TestEngine_RespectsCancellation(t *testing.T) {
	base, topo := fixtures.BuildFixtureNetwork()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().Simulate(ctx, base, topo, 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEngineWithConfig_DefaultsFactor(t *testing.T) {
	if got := NewEngineWithConfig(EngineConfig{}).BottleneckFactor(); math.Abs(got-DefaultBottleneckFactor) > 0 {
		t.Errorf("Expected factor %v, got %v", DefaultBottleneckFactor, got)
	}
}
