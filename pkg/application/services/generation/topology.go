package generation

import (
	"fmt"
	"math"

	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/domain/services"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// TopologyBuilder wires the entities of a network together and records the
// resulting lookup indices.
type TopologyBuilder struct {
	cfg  *config.Config
	rnd  *services.Random
	net  *network.Network
	rec  events.Recorder
	topo *network.Topology
}

// NewTopologyBuilder creates a builder writing into net
func NewTopologyBuilder(cfg *config.Config, rnd *services.Random, net *network.Network, rec events.Recorder) *TopologyBuilder {
	return &TopologyBuilder{
		cfg:  cfg,
		rnd:  rnd,
		net:  net,
		rec:  rec,
		topo: network.NewTopology(),
	}
}

// Extend returns a builder that adds to an existing network and its indices
func Extend(cfg *config.Config, rnd *services.Random, net *network.Network, rec events.Recorder, topo *network.Topology) *TopologyBuilder {
	return &TopologyBuilder{cfg: cfg, rnd: rnd, net: net, rec: rec, topo: topo}
}

// Build runs every wiring step in order
func (b *TopologyBuilder) Build() (*network.Topology, error) {
	steps := []struct {
		name string
		run  func() error
	}{
		{"assign subassemblies", b.assignSubassemblies},
		{"assign raw materials", b.assignRawMaterials},
		{"connect suppliers", b.connectSuppliersToWarehouses},
		{"stock parts", b.connectWarehousesToParts},
		{"connect external facilities", b.connectExternalFacilities},
		{"connect lam facilities", b.connectLamFacilities},
		{"stock offerings", b.connectLamWarehouses},
		{"connect hierarchy", b.connectHierarchy},
		{"annotate distances", b.annotateDistances},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			return nil, fmt.Errorf("failed to %s: %w", step.name, err)
		}
	}
	return b.topo, nil
}

// Connect logs the edge, then applies it to the network and the indices
func (b *TopologyBuilder) Connect(kind entities.EdgeKind, source, target entities.EntityID, attrs entities.EdgeAttributes) error {
	edge, err := entities.NewEdge(kind, source, target, attrs)
	if err != nil {
		return err
	}
	b.rec.EdgeCreated(edge)
	if err := b.net.AddEdge(edge); err != nil {
		return err
	}
	return b.topo.Record(b.net, edge)
}

func partIDs(parts []*entities.Part) []entities.EntityID {
	ids := make([]entities.EntityID, len(parts))
	for i, p := range parts {
		ids[i] = p.ID
	}
	return ids
}

func (b *TopologyBuilder) shuffled(ids []entities.EntityID) []entities.EntityID {
	b.rnd.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids
}

func (b *TopologyBuilder) assignSubassemblies() error {
	pool := b.shuffled(partIDs(b.net.PartsOfType(entities.SubassemblyPart)))
	ring, err := services.NewRing(pool)
	if err != nil {
		return fmt.Errorf("no subassembly parts: %w", err)
	}

	perOffering := b.cfg.TotalVariableNodes/(10*b.cfg.Catalog.OfferingCount()) + 2
	for _, po := range b.net.ProductOfferings() {
		slice, err := ring.Take(perOffering)
		if err != nil {
			return err
		}
		b.topo.OfferingSubassemblies[po.ID] = slice
	}
	return nil
}

func (b *TopologyBuilder) assignRawMaterials() error {
	subassemblies := b.net.PartsOfType(entities.SubassemblyPart)
	pool := b.shuffled(partIDs(b.net.PartsOfType(entities.RawPart)))
	ring, err := services.NewRing(pool)
	if err != nil {
		return fmt.Errorf("no raw parts: %w", err)
	}

	perSubassembly := len(pool)/len(subassemblies) + 5
	for _, sa := range subassemblies {
		slice, err := ring.Take(perSubassembly)
		if err != nil {
			return err
		}
		b.topo.SubassemblyRawMaterials[sa.ID] = slice
	}
	return nil
}

// SupplyRoute draws a supplier to warehouse payload
func (b *TopologyBuilder) SupplyRoute() *entities.SupplyRoute {
	rg := b.cfg.Ranges
	return &entities.SupplyRoute{
		TransportationCost: b.rnd.Uniform(rg.TransportationCost.Min, rg.TransportationCost.Max),
		LeadTime:           b.rnd.Uniform(rg.TransportationTime.Min, rg.TransportationTime.Max),
	}
}

func (b *TopologyBuilder) connectSuppliersToWarehouses() error {
	supplierWarehouses := b.net.WarehousesOfType(entities.SupplierWarehouse)
	subassemblyWarehouses := b.net.WarehousesOfType(entities.SubassemblyWarehouse)

	for _, s := range b.net.Suppliers() {
		bucket, ok := b.cfg.SupplierSize(s.SizeCategory.String())
		if !ok {
			return fmt.Errorf("%w: no supplier size bucket %s", config.ErrInvalid, s.SizeCategory)
		}

		for _, group := range []struct {
			subtypes   []string
			warehouses []*entities.Warehouse
		}{
			{b.cfg.Catalog.RawSubtypes, supplierWarehouses},
			{b.cfg.Catalog.SubassemblySubtypes, subassemblyWarehouses},
		} {
			if !s.Supplies(group.subtypes) || len(group.warehouses) == 0 {
				continue
			}
			targets, err := services.SampleOf(b.rnd, group.warehouses, min(bucket.MaxConnections, len(group.warehouses)))
			if err != nil {
				return err
			}
			for _, w := range targets {
				if err := b.Connect(entities.SupplierToWarehouse, s.ID, w.ID, b.SupplyRoute()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Stock fills a warehouse with randomly sized lots of the candidates until
// the available space runs out
func (b *TopologyBuilder) Stock(w *entities.Warehouse, kind entities.EdgeKind, candidates []entities.EntityID, available float64, storage config.Range) error {
	selected, err := services.SampleOf(b.rnd, candidates, min(w.MaxParts, len(candidates)))
	if err != nil {
		return err
	}

	inv := b.cfg.Ranges.Inventory
	for _, target := range selected {
		level := min(float64(b.rnd.IntBetween(inv.Min, inv.Max)), available-w.CurrentCapacity)
		if level <= 0 {
			continue
		}

		stock := &entities.Stock{
			InventoryLevel: level,
			StorageCost:    b.rnd.Uniform(storage.Min, storage.Max),
		}
		if err := b.Connect(kind, w.ID, target, stock); err != nil {
			return err
		}
		if err := w.AddStock(level); err != nil {
			return err
		}
		b.rec.NodeUpdated(w.ID, entities.WarehouseNode, map[string]any{"current_capacity": w.CurrentCapacity})
	}
	return nil
}

func (b *TopologyBuilder) connectWarehousesToParts() error {
	raw := partIDs(b.net.PartsOfType(entities.RawPart))
	subassemblies := partIDs(b.net.PartsOfType(entities.SubassemblyPart))

	for _, w := range b.net.Warehouses() {
		var candidates []entities.EntityID
		switch w.Type {
		case entities.SupplierWarehouse:
			candidates = raw
		case entities.SubassemblyWarehouse:
			candidates = subassemblies
		default:
			continue
		}
		if err := b.Stock(w, entities.WarehouseToPart, candidates, w.MaxCapacity, b.cfg.Ranges.StorageCost); err != nil {
			return err
		}
	}
	return nil
}

// Transfer draws a part to facility payload
func (b *TopologyBuilder) Transfer() *entities.Transfer {
	rg := b.cfg.Ranges
	return &entities.Transfer{
		Quantity:      entities.Quantity(b.rnd.IntBetween(rg.Quantity.Min, rg.Quantity.Max)),
		Distance:      b.rnd.IntBetween(rg.Distance.Min, rg.Distance.Max),
		TransportCost: b.rnd.Uniform(rg.TransportationCost.Min, rg.TransportationCost.Max),
		LeadTime:      b.rnd.Uniform(rg.TransportationTime.Min, rg.TransportationTime.Max),
	}
}

func (b *TopologyBuilder) connectExternalFacilities() error {
	subassemblies := partIDs(b.net.PartsOfType(entities.SubassemblyPart))
	rg := b.cfg.Ranges

	for _, f := range b.net.FacilitiesOfType(entities.ExternalFacility) {
		sa, err := services.Pick(b.rnd, subassemblies)
		if err != nil {
			return err
		}

		for _, raw := range b.topo.SubassemblyRawMaterials[sa] {
			if err := b.Connect(entities.PartToFacility, raw, f.ID, b.Transfer()); err != nil {
				return err
			}
		}

		production := &entities.Production{
			ProductionCost: b.rnd.Uniform(rg.Cost.Min, rg.Cost.Max),
			LeadTime:       b.rnd.Uniform(rg.TransportationTime.Min, rg.TransportationTime.Max),
			Quantity:       entities.Quantity(b.rnd.IntBetween(rg.Quantity.Min, rg.Quantity.Max)),
		}
		if err := b.Connect(entities.FacilityToPart, f.ID, sa, production); err != nil {
			return err
		}
	}
	return nil
}

func (b *TopologyBuilder) connectLamFacilities() error {
	offerings := b.net.ProductOfferings()
	rg := b.cfg.Ranges

	for _, f := range b.net.FacilitiesOfType(entities.LamFacility) {
		po, err := services.Pick(b.rnd, offerings)
		if err != nil {
			return err
		}

		for _, sa := range b.topo.OfferingSubassemblies[po.ID] {
			if err := b.Connect(entities.PartToFacility, sa, f.ID, b.Transfer()); err != nil {
				return err
			}
		}

		assembly := &entities.Assembly{
			ProductCost: b.rnd.Uniform(rg.Cost.Min, rg.Cost.Max),
			LeadTime:    b.rnd.Uniform(rg.TransportationTime.Min, rg.TransportationTime.Max),
			Quantity:    entities.Quantity(b.rnd.IntBetween(rg.Quantity.Min, rg.Quantity.Max)),
		}
		if err := b.Connect(entities.FacilityToProduct, f.ID, po.ID, assembly); err != nil {
			return err
		}
	}
	return nil
}

func (b *TopologyBuilder) connectLamWarehouses() error {
	offerings := make([]entities.EntityID, 0)
	for _, po := range b.net.ProductOfferings() {
		offerings = append(offerings, po.ID)
	}

	for _, w := range b.net.WarehousesOfType(entities.LamWarehouse) {
		// part of the space stays free for demand simulation
		available := math.Ceil(b.cfg.LamWarehouseFill * w.MaxCapacity)
		if err := b.Stock(w, entities.WarehouseToProduct, offerings, available, b.cfg.Ranges.Cost); err != nil {
			return err
		}
	}
	return nil
}

func (b *TopologyBuilder) connectHierarchy() error {
	bg := b.net.BusinessGroup()
	if bg == nil {
		return fmt.Errorf("%w: business group", entities.ErrNodeNotFound)
	}

	families := b.net.ProductFamilies()
	for _, pf := range families {
		if err := b.Connect(entities.GroupToFamily, bg.ID, pf.ID, nil); err != nil {
			return err
		}
	}
	offerings := b.net.ProductOfferings()
	for _, pf := range families {
		for _, po := range offerings {
			if po.Family != pf.Name {
				continue
			}
			if err := b.Connect(entities.FamilyToOffering, pf.ID, po.ID, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *TopologyBuilder) annotateDistances() error {
	for _, w := range b.net.Warehouses() {
		b.AnnotateDistances(w)
	}
	return nil
}

// AnnotateDistances draws a distance from w to every facility, shorter when
// both share a location
func (b *TopologyBuilder) AnnotateDistances(w *entities.Warehouse) {
	rg := b.cfg.Ranges
	facilities := b.net.Facilities()
	changes := make(map[string]any, len(facilities))
	for _, f := range facilities {
		span := rg.Distance
		if w.Location == f.Location {
			span = rg.SameLocationDistance
		}
		d := b.rnd.IntBetween(span.Min, span.Max)
		w.Distances[f.ID] = d
		changes[string(f.ID)] = d
	}
	if len(changes) > 0 {
		b.rec.NodeUpdated(w.ID, entities.WarehouseNode, map[string]any{"distances": changes})
	}
}
