package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/application/services/propagation"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/domain/services"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// Result pairs the snapshot a disaster was applied to with the re-propagated one
type Result struct {
	Disaster Disaster
	Affected []entities.EntityID
	Before   *dto.SimulationResult
	After    *dto.SimulationResult
}

// CostImpact returns the change in total cost per offering
func (r *Result) CostImpact() map[entities.EntityID]float64 {
	impact := make(map[entities.EntityID]float64, len(r.After.Aggregates.OfferingCost))
	for id, after := range r.After.Aggregates.OfferingCost {
		impact[id] = after - r.Before.Aggregates.OfferingCost[id]
	}
	return impact
}

// Simulator applies disasters and re-runs propagation
type Simulator struct {
	engine *propagation.Engine
	rnd    *services.Random
}

// NewSimulator creates a simulator sampling affected entities from rnd
func NewSimulator(engine *propagation.Engine, rnd *services.Random) *Simulator {
	return &Simulator{engine: engine, rnd: rnd}
}

// Apply perturbs a copy of the previous snapshot and propagates it again.
// The new snapshot is tagged with the previous timestamp plus one.
func (s *Simulator) Apply(ctx context.Context, previous *dto.SimulationResult, topo *network.Topology, d Disaster, rec events.Recorder) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = events.Discard
	}

	snapshot := previous.Network.Clone()
	snapshot.Timestamp = previous.Timestamp + 1
	rec.SetTimestamp(snapshot.Timestamp)

	affected, err := s.perturb(snapshot, d, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", d.Kind, err)
	}

	// capacities are derived after the perturbation, never before
	after, err := s.engine.Run(ctx, propagation.NewContext(snapshot, topo, rec))
	if err != nil {
		return nil, fmt.Errorf("failed to propagate %s: %w", d.Kind, err)
	}

	log.Info().
		Str("kind", string(d.Kind)).
		Float64("impact_factor", d.ImpactFactor).
		Int("affected", len(affected)).
		Int("timestamp", after.Timestamp).
		Msg("disaster applied")

	return &Result{Disaster: d, Affected: affected, Before: previous, After: after}, nil
}

// sampleCount returns ceil(fraction × pool)
func sampleCount(fraction float64, pool int) int {
	return min(pool, int(math.Ceil(fraction*float64(pool))))
}

func (s *Simulator) perturb(n *network.Network, d Disaster, rec events.Recorder) ([]entities.EntityID, error) {
	switch d.Kind {
	case CostIncrease:
		parts, err := sample(s.rnd, n.PartsOfType(entities.RawPart), d.Fraction)
		if err != nil {
			return nil, err
		}
		ids := make([]entities.EntityID, 0, len(parts))
		for _, p := range parts {
			p.Cost *= d.ImpactFactor
			rec.NodeUpdated(p.ID, entities.PartNode, map[string]any{"cost": p.Cost})
			ids = append(ids, p.ID)
		}
		return ids, nil

	case DemandSurge:
		offerings, err := sample(s.rnd, n.ProductOfferings(), d.Fraction)
		if err != nil {
			return nil, err
		}
		ids := make([]entities.EntityID, 0, len(offerings))
		for _, po := range offerings {
			po.Demand *= d.ImpactFactor
			rec.NodeUpdated(po.ID, entities.ProductOfferingNode, map[string]any{"demand": po.Demand})
			ids = append(ids, po.ID)
		}
		return ids, nil

	case CapacityReduction:
		facilities, err := sample(s.rnd, n.Facilities(), d.Fraction)
		if err != nil {
			return nil, err
		}
		ids := make([]entities.EntityID, 0, len(facilities))
		for _, f := range facilities {
			f.MaxCapacity /= d.ImpactFactor
			rec.NodeUpdated(f.ID, entities.FacilityNode, map[string]any{"max_capacity": f.MaxCapacity})
			ids = append(ids, f.ID)
		}
		return ids, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidDisaster, d.Kind)
}

func sample[T any](rnd *services.Random, pool []T, fraction float64) ([]T, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: nothing to affect", entities.ErrPoolTooSmall)
	}
	return services.SampleOf(rnd, pool, sampleCount(fraction, len(pool)))
}
