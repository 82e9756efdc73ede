package temporal

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/domain/services"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// Projector derives period snapshots from the period 0 network
type Projector struct {
	cfg   *config.Config
	model *Model
}

// NewProjector creates a projector drawing from rnd
func NewProjector(cfg *config.Config, rnd *services.Random) *Projector {
	return &Projector{cfg: cfg, model: NewModel(cfg, rnd)}
}

// Model returns the value model shared with the temporal simulation
func (p *Projector) Model() *Model {
	return p.model
}

// Project returns a new snapshot of base with every mutable attribute varied
// for period. The base network is not modified.
func (p *Projector) Project(base *network.Network, period int, rec events.Recorder) (*network.Network, error) {
	if period < 1 {
		return nil, fmt.Errorf("projection period must be positive, got %d", period)
	}
	return p.project(base, base, period, p.model.Value, rec), nil
}

// ProjectOnto varies the base values over the structure of latest, so that
// entities added after generation carry into the new period. Entities
// missing from base vary their own latest values.
func (p *Projector) ProjectOnto(base, latest *network.Network, period int, rec events.Recorder) (*network.Network, error) {
	if period < 1 {
		return nil, fmt.Errorf("projection period must be positive, got %d", period)
	}
	return p.project(latest, base, period, p.model.Value, rec), nil
}

// Rebase returns a copy of latest carrying the unvaried values of base, tagged
// with the base timestamp. Entities missing from base keep their latest values.
func (p *Projector) Rebase(base, latest *network.Network) *network.Network {
	next := p.project(latest, base, base.Timestamp, unvaried, events.Discard)
	next.Date = base.Date
	return next
}

func unvaried(base float64, _ string, _ int) float64 {
	return base
}

// Series projects periods 1..n-1 from base
func (p *Projector) Series(base *network.Network, n int, rec events.Recorder) ([]*network.Network, error) {
	series := make([]*network.Network, 0, n)
	series = append(series, base)
	for period := 1; period < n; period++ {
		next, err := p.Project(base, period, rec)
		if err != nil {
			return nil, err
		}
		series = append(series, next)
	}
	return series, nil
}

type valueFunc func(base float64, category string, period int) float64

func (p *Projector) project(structure, reference *network.Network, period int, value valueFunc, rec events.Recorder) *network.Network {
	next := structure.Clone()
	next.Timestamp = period
	next.Date = p.cfg.PeriodDate(period)
	rec.SetTimestamp(period)

	for _, node := range next.Nodes() {
		ref := node
		if n, ok := reference.Node(node.NodeID()); ok {
			ref = n
		}
		p.projectNode(node, ref, period, value, rec)
	}

	for _, edge := range next.Edges() {
		ref := edge
		if e, ok := reference.Edge(edge.Source, edge.Target); ok {
			ref = e
		}
		p.projectEdge(edge, ref, period, value, rec)
	}

	log.Debug().Int("period", period).Int("nodes", next.NodeCount()).Msg("period projected")
	return next
}

func (p *Projector) projectNode(node, ref entities.Node, period int, value valueFunc, rec events.Recorder) {
	if node.NodeType() != ref.NodeType() {
		ref = node
	}

	var changes map[string]any
	switch n := node.(type) {
	case *entities.BusinessGroup:
		n.Revenue = value(ref.(*entities.BusinessGroup).Revenue, Revenue, period)
		changes = map[string]any{"revenue": n.Revenue}

	case *entities.ProductFamily:
		n.Revenue = value(ref.(*entities.ProductFamily).Revenue, Revenue, period)
		changes = map[string]any{"revenue": n.Revenue}

	case *entities.ProductOffering:
		r := ref.(*entities.ProductOffering)
		n.Cost = value(r.Cost, Cost, period)
		n.Demand = value(r.Demand, Demand, period)
		changes = map[string]any{"cost": n.Cost, "demand": n.Demand}

	case *entities.Warehouse:
		projected := value(ref.(*entities.Warehouse).CurrentCapacity, Capacity, period)
		n.CurrentCapacity = min(projected, n.MaxCapacity)
		changes = map[string]any{"current_capacity": n.CurrentCapacity}

	case *entities.Supplier:
		rg := p.cfg.Ranges.Reliability
		projected := value(ref.(*entities.Supplier).Reliability, Reliability, period)
		n.Reliability = max(rg.Min, min(projected, rg.Max))
		changes = map[string]any{"reliability": n.Reliability}

	case *entities.Part:
		r := ref.(*entities.Part)
		n.Cost = value(r.Cost, Cost, period)
		n.UnitsInChain = r.UnitsInChain + entities.Quantity(period)
		changes = map[string]any{"cost": n.Cost, "units_in_chain": int64(n.UnitsInChain)}

	default:
		return
	}

	rec.NodeUpdated(node.NodeID(), node.NodeType(), changes)
}

func (p *Projector) projectEdge(edge, ref *entities.Edge, period int, value valueFunc, rec events.Recorder) {
	switch a := edge.Attributes.(type) {
	case *entities.SupplyRoute:
		r, ok := ref.Attributes.(*entities.SupplyRoute)
		if !ok {
			r = a
		}
		a.TransportationCost = value(r.TransportationCost, TransportationCost, period)
		rec.EdgeUpdated(edge, map[string]any{"transportation_cost": a.TransportationCost})

	case *entities.Stock:
		r, ok := ref.Attributes.(*entities.Stock)
		if !ok {
			r = a
		}
		a.InventoryLevel = value(r.InventoryLevel, Inventory, period)
		rec.EdgeUpdated(edge, map[string]any{"inventory_level": a.InventoryLevel})
	}
}
