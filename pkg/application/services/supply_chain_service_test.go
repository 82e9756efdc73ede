package services

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/application/services/manager"
	"github.com/Surya-0/SCM-Builder/pkg/application/services/scenario"
	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/repositories/memory"
)

func newTestService(t *testing.T) (*SupplyChainService, *memory.SnapshotRepository) {
	t.Helper()
	cfg := config.Default()
	cfg.TotalVariableNodes = 50
	cfg.Periods = 3
	cfg.Seed = 42

	repo := memory.NewSnapshotRepository()
	return NewSupplyChainService(cfg, repo, memory.NewDemandRepository()), repo
}

func generated(t *testing.T) (*SupplyChainService, *memory.SnapshotRepository) {
	t.Helper()
	svc, repo := newTestService(t)
	_, err := svc.Generate(context.Background())
	require.NoError(t, err)
	return svc, repo
}

func TestSupplyChainService_RequiresGeneration(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SimulateStatic(ctx)
	assert.True(t, errors.Is(err, ErrNotGenerated), "Expected ErrNotGenerated, got %v", err)

	_, err = svc.NextPeriod()
	assert.True(t, errors.Is(err, ErrNotGenerated))

	_, err = svc.Extend(manager.Batch{RawParts: 1})
	assert.True(t, errors.Is(err, ErrNotGenerated))
}

func TestSupplyChainService_GenerateStoresEveryPeriod(t *testing.T) {
	svc, repo := generated(t)

	assert.Equal(t, []int{0, 1, 2}, repo.BaselineTimestamps())
	assert.Equal(t, []int{0, 1, 2}, svc.BaselineLog().Timestamps())
	assert.NotEmpty(t, svc.BaselineLog().Creates()[0])
	assert.Empty(t, svc.BaselineLog().Creates()[1])
	assert.NotNil(t, svc.Topology())
}

func TestSupplyChainService_SimulateStatic(t *testing.T) {
	svc, repo := generated(t)

	result, err := svc.SimulateStatic(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Timestamp)
	assert.Equal(t, []int{0}, repo.SimulationTimestamps())
	assert.NotEmpty(t, result.Aggregates.OfferingDemand)
	assert.Contains(t, svc.Aggregates(), 0)
	assert.NotEmpty(t, svc.SimulationLog().Updates()[0])

	// the simulation starts from period 0 and never writes back to it
	first, err := repo.Baseline(0)
	require.NoError(t, err)
	for _, p := range first.Parts() {
		stored, _ := result.Network.Part(p.ID)
		assert.GreaterOrEqual(t, stored.UnitsInChain, p.UnitsInChain)
	}
}

func TestSupplyChainService_SimulationStartsFromPeriodZero(t *testing.T) {
	svc, repo := generated(t)

	result, err := svc.SimulateStatic(context.Background())
	require.NoError(t, err)

	first, err := repo.Baseline(0)
	require.NoError(t, err)
	for _, po := range first.ProductOfferings() {
		simulated, err := result.Network.ProductOffering(po.ID)
		require.NoError(t, err)
		if simulated.Demand != po.Demand {
			t.Errorf("Expected %s demand %v, got %v", po.ID, po.Demand, simulated.Demand)
		}
		assert.Equal(t, po.Demand, result.Aggregates.OfferingDemand[po.ID], "offering %s", po.ID)
	}
}

func TestSupplyChainService_OrdersOverrideDemand(t *testing.T) {
	svc, _ := generated(t)

	order, err := entities.NewDemandOrder("PO_001", 0)
	require.NoError(t, err)
	require.NoError(t, svc.PlaceOrders([]*entities.DemandOrder{order}))

	result, err := svc.SimulateStatic(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Aggregates.OfferingDemand["PO_001"])

	unknown, _ := entities.NewDemandOrder("PO_999", 10)
	require.NoError(t, svc.PlaceOrders([]*entities.DemandOrder{unknown}))
	_, err = svc.SimulateStatic(context.Background())
	assert.True(t, errors.Is(err, entities.ErrNodeNotFound), "Expected ErrNodeNotFound, got %v", err)
}

func TestSupplyChainService_TemporalThenDisaster(t *testing.T) {
	svc, repo := generated(t)
	ctx := context.Background()

	results, err := svc.SimulateTemporal(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []int{0, 1, 2}, svc.Aggregates().Timestamps())

	d := scenario.Disaster{Kind: scenario.DemandSurge, ImpactFactor: 2, Fraction: 0.5}
	outcome, err := svc.ApplyDisaster(ctx, d)
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.After.Timestamp)
	assert.Same(t, results[2], outcome.Before)
	assert.Equal(t, []int{0, 1, 2, 3}, repo.SimulationTimestamps())
	assert.NotEmpty(t, outcome.Affected)
}

func TestSupplyChainService_DisasterRunsStaticFirst(t *testing.T) {
	svc, _ := generated(t)

	d := scenario.Disaster{Kind: scenario.CapacityReduction, ImpactFactor: 4, Fraction: 1}
	outcome, err := svc.ApplyDisaster(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.Before.Timestamp)
	assert.Equal(t, 1, outcome.After.Timestamp)
}

func TestSupplyChainService_OptimizeStorage(t *testing.T) {
	svc, repo := generated(t)

	simulated, err := svc.SimulateStatic(context.Background())
	require.NoError(t, err)

	allocation, err := svc.OptimizeStorage(context.Background())
	require.NoError(t, err)
	require.Equal(t, dto.StatusOptimal, allocation.Status)

	allocated := make(map[entities.EntityID]float64)
	for _, byOffering := range allocation.Allocations {
		for po, units := range byOffering {
			allocated[po] += units
		}
	}
	for _, po := range simulated.Network.ProductOfferings() {
		if slices.Contains(allocation.Unallocated, po.ID) {
			assert.Zero(t, allocated[po.ID])
			continue
		}
		if allocated[po.ID] != math.Ceil(po.Demand) {
			t.Errorf("Expected %s allocated %v, got %v", po.ID, math.Ceil(po.Demand), allocated[po.ID])
		}
	}

	stored, err := repo.Simulation(0)
	require.NoError(t, err)
	for _, w := range stored.Warehouses() {
		assert.LessOrEqual(t, w.CurrentCapacity, w.MaxCapacity, "warehouse %s", w.ID)
	}
}

func TestSupplyChainService_OptimizeFractionalDemand(t *testing.T) {
	svc, _ := generated(t)

	order, err := entities.NewDemandOrder("PO_001", 120.6)
	require.NoError(t, err)
	require.NoError(t, svc.PlaceOrders([]*entities.DemandOrder{order}))

	allocation, err := svc.OptimizeStorage(context.Background())
	require.NoError(t, err)
	require.Equal(t, dto.StatusOptimal, allocation.Status)

	if slices.Contains(allocation.Unallocated, "PO_001") {
		return
	}
	total := 0.0
	for _, byOffering := range allocation.Allocations {
		total += byOffering["PO_001"]
	}
	assert.Equal(t, 121.0, total)
}

func TestSupplyChainService_ExtendThenNextPeriod(t *testing.T) {
	svc, repo := generated(t)

	extended, err := svc.Extend(manager.Batch{RawParts: 1})
	require.NoError(t, err)
	require.Len(t, extended.Added, 1)
	added := extended.Added[0]

	latest, err := repo.LatestBaseline()
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Timestamp)
	assert.True(t, latest.HasNode(added))

	next, err := svc.NextPeriod()
	require.NoError(t, err)
	assert.Equal(t, 3, next.Timestamp)
	assert.True(t, next.HasNode(added), "added entities carry into the next period")
	assert.Equal(t, []int{0, 1, 2, 3}, repo.BaselineTimestamps())

	// new entities take part in later simulations
	result, err := svc.SimulateStatic(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Network.HasNode(added))
}

func TestSupplyChainService_UnhealthyWarehouses(t *testing.T) {
	svc, _ := generated(t)

	none, err := svc.UnhealthyWarehouses(0)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := svc.UnhealthyWarehouses(1e9)
	require.NoError(t, err)
	assert.NotEmpty(t, all)
}
