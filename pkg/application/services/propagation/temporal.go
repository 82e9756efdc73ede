package propagation

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/application/services/temporal"
	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// TemporalRunner repeats propagation over every period, varying the
// demand, cost and capacity inputs of the base network before each run
type TemporalRunner struct {
	cfg    *config.Config
	engine *Engine
	model  *temporal.Model
}

// NewTemporalRunner creates a runner sharing the projector's value model
func NewTemporalRunner(cfg *config.Config, engine *Engine, model *temporal.Model) *TemporalRunner {
	return &TemporalRunner{cfg: cfg, engine: engine, model: model}
}

// Run simulates period 0 on base, then periods 1..Periods-1 on varied copies.
// Results are returned in period order and the aggregates of every run are
// collected by timestamp.
func (r *TemporalRunner) Run(ctx context.Context, base *network.Network, topo *network.Topology, rec events.Recorder) ([]*dto.SimulationResult, dto.Aggregates, error) {
	if rec == nil {
		rec = events.Discard
	}
	aggregates := make(dto.Aggregates, r.cfg.Periods)
	results := make([]*dto.SimulationResult, 0, r.cfg.Periods)

	first, err := r.engine.Simulate(ctx, base, topo, 0, rec)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to simulate period 0: %w", err)
	}
	results = append(results, first)
	aggregates[0] = first.Aggregates

	for period := 1; period < r.cfg.Periods; period++ {
		snapshot := base.Clone()
		snapshot.Timestamp = period
		snapshot.Date = r.cfg.PeriodDate(period)
		rec.SetTimestamp(period)

		r.vary(snapshot, base, period, rec)

		result, err := r.engine.Run(ctx, NewContext(snapshot, topo, rec))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to simulate period %d: %w", period, err)
		}
		results = append(results, result)
		aggregates[period] = result.Aggregates

		log.Debug().Int("period", period).Msg("temporal simulation period complete")
	}
	return results, aggregates, nil
}

// vary applies the temporal model to the propagation inputs of snapshot,
// always starting from the base values
func (r *TemporalRunner) vary(snapshot, base *network.Network, period int, rec events.Recorder) {
	for _, po := range snapshot.ProductOfferings() {
		ref, err := base.ProductOffering(po.ID)
		if err != nil {
			continue
		}
		po.Demand = math.Ceil(r.model.Value(ref.Demand, temporal.Demand, period))
		rec.NodeUpdated(po.ID, entities.ProductOfferingNode, map[string]any{"demand": po.Demand})
	}

	for _, f := range snapshot.Facilities() {
		ref, err := base.Facility(f.ID)
		if err != nil {
			continue
		}
		f.OperatingCost = r.model.Value(ref.OperatingCost, temporal.OperatingCost, period)
		f.MaxCapacity = r.model.Value(ref.MaxCapacity, temporal.Capacity, period)
		if f.Type == entities.LamFacility {
			f.MaxCapacity = math.Ceil(f.MaxCapacity)
		}
		rec.NodeUpdated(f.ID, entities.FacilityNode, map[string]any{
			"operating_cost": f.OperatingCost,
			"max_capacity":   f.MaxCapacity,
		})
	}

	for _, p := range snapshot.PartsOfType(entities.RawPart) {
		ref, err := base.Part(p.ID)
		if err != nil {
			continue
		}
		p.Cost = r.model.Value(ref.Cost, temporal.Cost, period)
		rec.NodeUpdated(p.ID, entities.PartNode, map[string]any{"cost": p.Cost})
	}
}
