package optimizer

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// StorageOptimizer allocates offering demand to the lam warehouses already
// stocking each offering at minimum storage cost
type StorageOptimizer struct {
	solver Solver
}

// NewStorageOptimizer creates an optimizer backed by the simplex solver
func NewStorageOptimizer() *StorageOptimizer {
	return NewStorageOptimizerWithSolver(SimplexSolver{})
}

// NewStorageOptimizerWithSolver creates an optimizer with a custom solver
func NewStorageOptimizerWithSolver(solver Solver) *StorageOptimizer {
	return &StorageOptimizer{solver: solver}
}

type variable struct {
	warehouse entities.EntityID
	offering  entities.EntityID
}

// Optimize solves the allocation over n. Demand is rounded up and free
// space rounded down so that the problem has integer data. Offerings with
// no lam warehouse are left out and listed as unallocated. When the status
// is optimal, every allocated quantity is added to its warehouse's current
// capacity; any other status leaves the network untouched.
func (o *StorageOptimizer) Optimize(n *network.Network, topo *network.Topology, rec events.Recorder) (*dto.AllocationResult, error) {
	if rec == nil {
		rec = events.Discard
	}

	var vars []variable
	var unallocated []entities.EntityID
	problem := &Problem{}
	demands := make(map[entities.EntityID]float64)
	free := make(map[entities.EntityID]float64)
	warehouseRows := make(map[entities.EntityID]int)
	var warehouseOrder []entities.EntityID

	for _, po := range n.ProductOfferings() {
		demand := math.Ceil(math.Max(0, po.Demand))
		warehouses := topo.OfferingWarehouses[po.ID]
		if len(warehouses) == 0 {
			if demand > 0 {
				log.Debug().Str("offering", string(po.ID)).Msg("offering has demand but no lam warehouse")
				unallocated = append(unallocated, po.ID)
			}
			continue
		}

		demands[po.ID] = demand
		eq := Constraint{Coefficients: make(map[int]float64, len(warehouses)), RHS: demand}
		available := 0.0
		for _, wid := range warehouses {
			if _, ok := free[wid]; !ok {
				w, err := n.Warehouse(wid)
				if err != nil {
					return nil, fmt.Errorf("failed to build allocation problem: %w", err)
				}
				free[wid] = math.Floor(w.RemainingCapacity())
				warehouseRows[wid] = len(warehouseOrder)
				warehouseOrder = append(warehouseOrder, wid)
			}
			available += math.Max(0, free[wid])

			idx := len(vars)
			vars = append(vars, variable{warehouse: wid, offering: po.ID})
			problem.Objective = append(problem.Objective, topo.LamStorageCost[po.ID][wid])
			eq.Coefficients[idx] = 1
		}
		if available < demand {
			return infeasible(unallocated, "offering %s demand %.0f exceeds free storage %.0f", po.ID, demand, available), nil
		}
		problem.Equalities = append(problem.Equalities, eq)
	}
	if len(vars) == 0 {
		return &dto.AllocationResult{
			Status:      dto.StatusOptimal,
			Allocations: map[entities.EntityID]map[entities.EntityID]float64{},
			Unallocated: unallocated,
		}, nil
	}

	problem.UpperBounds = make([]Constraint, len(warehouseOrder))
	for i, wid := range warehouseOrder {
		if free[wid] < 0 {
			return infeasible(unallocated, "warehouse %s is over capacity", wid), nil
		}
		problem.UpperBounds[i] = Constraint{Coefficients: make(map[int]float64), RHS: free[wid]}
	}
	for idx, v := range vars {
		problem.UpperBounds[warehouseRows[v.warehouse]].Coefficients[idx] = 1
	}

	solution, err := o.solver.Solve(problem)
	if err != nil {
		return nil, fmt.Errorf("failed to solve storage allocation: %w", err)
	}
	if solution.Status != dto.StatusOptimal {
		log.Warn().Str("status", solution.Status).Msg("storage allocation not applied")
		return &dto.AllocationResult{Status: solution.Status, Unallocated: unallocated}, nil
	}

	result, totals := allocate(topo, vars, solution)
	result.Unallocated = unallocated
	if reason := check(result, totals, demands, free); reason != "" {
		log.Warn().Str("reason", reason).Msg("storage allocation not applied")
		return &dto.AllocationResult{Status: dto.StatusNotSolved, Unallocated: unallocated}, nil
	}
	if err := book(n, totals, rec); err != nil {
		return nil, err
	}

	log.Info().Float64("objective", result.Objective).Int("warehouses", len(totals)).Msg("storage allocation applied")
	return result, nil
}

// allocate rounds the relaxed solution, which is integral at every vertex of
// a transportation polytope with integer data
func allocate(topo *network.Topology, vars []variable, solution *Solution) (*dto.AllocationResult, map[entities.EntityID]float64) {
	result := &dto.AllocationResult{
		Status:      dto.StatusOptimal,
		Allocations: make(map[entities.EntityID]map[entities.EntityID]float64),
	}

	objective := decimal.Zero
	totals := make(map[entities.EntityID]float64)
	for idx, v := range vars {
		units := math.Round(solution.X[idx])
		if units == 0 {
			continue
		}
		if result.Allocations[v.warehouse] == nil {
			result.Allocations[v.warehouse] = make(map[entities.EntityID]float64)
		}
		result.Allocations[v.warehouse][v.offering] = units
		totals[v.warehouse] += units
		objective = objective.Add(decimal.NewFromFloat(units).Mul(decimal.NewFromFloat(topo.LamStorageCost[v.offering][v.warehouse])))
	}
	result.Objective = objective.InexactFloat64()
	return result, totals
}

// check verifies the rounded allocation against both constraint families
// and returns a reason when it breaks either
func check(result *dto.AllocationResult, totals, demands, free map[entities.EntityID]float64) string {
	allocated := make(map[entities.EntityID]float64, len(demands))
	for _, byOffering := range result.Allocations {
		for po, units := range byOffering {
			if units < 0 {
				return fmt.Sprintf("negative allocation for offering %s", po)
			}
			allocated[po] += units
		}
	}
	for _, po := range network.SortedIDs(demands) {
		if allocated[po] != demands[po] {
			return fmt.Sprintf("offering %s allocated %.0f of demand %.0f", po, allocated[po], demands[po])
		}
	}
	for _, wid := range network.SortedIDs(totals) {
		if totals[wid] > free[wid] {
			return fmt.Sprintf("warehouse %s allocated %.0f with %.0f free", wid, totals[wid], free[wid])
		}
	}
	return ""
}

// book adds the allocated totals to the warehouses. Totals are checked
// against free space first, so a failure here leaves nothing booked.
func book(n *network.Network, totals map[entities.EntityID]float64, rec events.Recorder) error {
	ids := network.SortedIDs(totals)
	warehouses := make([]*entities.Warehouse, 0, len(ids))
	for _, wid := range ids {
		w, err := n.Warehouse(wid)
		if err != nil {
			return err
		}
		if totals[wid] > w.RemainingCapacity() {
			return fmt.Errorf("failed to book allocation into %s: %.0f units with %.0f free", wid, totals[wid], w.RemainingCapacity())
		}
		warehouses = append(warehouses, w)
	}

	for _, w := range warehouses {
		if err := w.AddStock(totals[w.ID]); err != nil {
			return fmt.Errorf("failed to book allocation into %s: %w", w.ID, err)
		}
		rec.NodeUpdated(w.ID, entities.WarehouseNode, map[string]any{"current_capacity": w.CurrentCapacity})
	}
	return nil
}

func infeasible(unallocated []entities.EntityID, format string, args ...any) *dto.AllocationResult {
	log.Warn().Msgf("storage allocation infeasible: "+format, args...)
	return &dto.AllocationResult{Status: dto.StatusInfeasible, Unallocated: unallocated}
}
