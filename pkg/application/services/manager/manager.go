package manager

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/Surya-0/SCM-Builder/pkg/application/services/generation"
	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/domain/services"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// Batch lists the entities to add in one step
type Batch struct {
	Suppliers        map[entities.SizeCategory]int
	RawParts         int
	SubassemblyParts int
	Warehouses       map[entities.WarehouseType]int
}

// Size returns the number of entities the batch adds
func (b Batch) Size() int {
	total := b.RawParts + b.SubassemblyParts
	for _, n := range b.Suppliers {
		total += n
	}
	for _, n := range b.Warehouses {
		total += n
	}
	return total
}

// Result is the extended snapshot with its updated indices
type Result struct {
	Network  *network.Network
	Topology *network.Topology
	Added    []entities.EntityID
}

// Manager adds entities to the latest period snapshot and connects them
// into the existing network
type Manager struct {
	cfg *config.Config
	rnd *services.Random
}

// NewManager creates a manager drawing from rnd
func NewManager(cfg *config.Config, rnd *services.Random) *Manager {
	return &Manager{cfg: cfg, rnd: rnd}
}

// Apply adds the batch to copies of latest and topo. Creations are logged at
// the latest timestamp. The inputs are not modified.
func (m *Manager) Apply(latest *network.Network, topo *network.Topology, batch Batch, rec events.Recorder) (*Result, error) {
	if batch.Size() == 0 {
		return nil, fmt.Errorf("%w: empty batch", config.ErrInvalid)
	}
	if rec == nil {
		rec = events.Discard
	}

	net := latest.Clone()
	indices := topo.Clone()
	rec.SetTimestamp(net.Timestamp)

	a := &adder{
		cfg:     m.cfg,
		rnd:     m.rnd,
		net:     net,
		topo:    indices,
		factory: generation.NewEntityFactory(m.cfg, m.rnd, net, rec),
		builder: generation.Extend(m.cfg, m.rnd, net, rec, indices),
	}

	for _, category := range entities.SizeCategories {
		for i := 0; i < batch.Suppliers[category]; i++ {
			if err := a.addSupplier(category); err != nil {
				return nil, fmt.Errorf("failed to add supplier: %w", err)
			}
		}
	}
	for i := 0; i < batch.RawParts; i++ {
		if err := a.addPart(entities.RawPart); err != nil {
			return nil, fmt.Errorf("failed to add raw part: %w", err)
		}
	}
	for i := 0; i < batch.SubassemblyParts; i++ {
		if err := a.addPart(entities.SubassemblyPart); err != nil {
			return nil, fmt.Errorf("failed to add subassembly part: %w", err)
		}
	}
	for _, wtype := range entities.WarehouseTypes {
		for i := 0; i < batch.Warehouses[wtype]; i++ {
			if err := a.addWarehouse(wtype); err != nil {
				return nil, fmt.Errorf("failed to add warehouse: %w", err)
			}
		}
	}

	log.Info().Int("timestamp", net.Timestamp).Int("added", len(a.added)).Msg("network extended")
	return &Result{Network: net, Topology: indices, Added: a.added}, nil
}

type adder struct {
	cfg     *config.Config
	rnd     *services.Random
	net     *network.Network
	topo    *network.Topology
	factory *generation.EntityFactory
	builder *generation.TopologyBuilder
	added   []entities.EntityID
}

func (a *adder) addSupplier(category entities.SizeCategory) error {
	s, err := a.factory.CreateSupplier(category)
	if err != nil {
		return err
	}
	a.added = append(a.added, s.ID)

	var pool []*entities.Warehouse
	if s.Supplies(a.cfg.Catalog.RawSubtypes) {
		pool = append(pool, a.net.WarehousesOfType(entities.SupplierWarehouse)...)
	}
	if s.Supplies(a.cfg.Catalog.SubassemblySubtypes) {
		pool = append(pool, a.net.WarehousesOfType(entities.SubassemblyWarehouse)...)
	}
	if len(pool) == 0 {
		return nil
	}

	bucket, ok := a.cfg.SupplierSize(category.String())
	if !ok {
		return fmt.Errorf("%w: no supplier size bucket %s", config.ErrInvalid, category)
	}
	targets, err := services.SampleOf(a.rnd, pool, min(bucket.MaxConnections, len(pool)))
	if err != nil {
		return err
	}
	for _, w := range targets {
		if err := a.builder.Connect(entities.SupplierToWarehouse, s.ID, w.ID, a.builder.SupplyRoute()); err != nil {
			return err
		}
	}
	return nil
}

// addPart stocks the new part in every warehouse of its tier that has both
// space and a free stock slot. Raw parts may also feed external facilities.
func (a *adder) addPart(ptype entities.PartType) error {
	p, err := a.factory.CreatePart(ptype)
	if err != nil {
		return err
	}
	a.added = append(a.added, p.ID)

	wtype := entities.SupplierWarehouse
	if ptype == entities.SubassemblyPart {
		wtype = entities.SubassemblyWarehouse
	}
	for _, w := range a.net.WarehousesOfType(wtype) {
		if w.RemainingCapacity() <= 0 || len(a.topo.WarehouseParts[w.ID]) >= w.MaxParts {
			continue
		}
		if err := a.builder.Stock(w, entities.WarehouseToPart, []entities.EntityID{p.ID}, w.MaxCapacity, a.cfg.Ranges.StorageCost); err != nil {
			return err
		}
	}

	if ptype != entities.RawPart {
		return nil
	}
	for _, f := range a.net.FacilitiesOfType(entities.ExternalFacility) {
		if !a.rnd.Chance(a.cfg.ExternalFacilityLinkProbability) {
			continue
		}
		if err := a.builder.Connect(entities.PartToFacility, p.ID, f.ID, a.builder.Transfer()); err != nil {
			return err
		}
	}
	return nil
}

func (a *adder) addWarehouse(wtype entities.WarehouseType) error {
	w, err := a.factory.CreateWarehouse(wtype)
	if err != nil {
		return err
	}
	a.added = append(a.added, w.ID)

	switch wtype {
	case entities.SupplierWarehouse, entities.SubassemblyWarehouse:
		subtypes, ptype := a.cfg.Catalog.RawSubtypes, entities.RawPart
		if wtype == entities.SubassemblyWarehouse {
			subtypes, ptype = a.cfg.Catalog.SubassemblySubtypes, entities.SubassemblyPart
		}
		for _, s := range a.net.Suppliers() {
			if !s.Supplies(subtypes) || !a.rnd.Chance(a.cfg.SupplierLinkProbability) {
				continue
			}
			if err := a.builder.Connect(entities.SupplierToWarehouse, s.ID, w.ID, a.builder.SupplyRoute()); err != nil {
				return err
			}
		}
		parts := make([]entities.EntityID, 0)
		for _, p := range a.net.PartsOfType(ptype) {
			parts = append(parts, p.ID)
		}
		if err := a.builder.Stock(w, entities.WarehouseToPart, parts, w.MaxCapacity, a.cfg.Ranges.StorageCost); err != nil {
			return err
		}

	case entities.LamWarehouse:
		offerings := make([]entities.EntityID, 0)
		for _, po := range a.net.ProductOfferings() {
			offerings = append(offerings, po.ID)
		}
		available := math.Ceil(a.cfg.LamWarehouseFill * w.MaxCapacity)
		if err := a.builder.Stock(w, entities.WarehouseToProduct, offerings, available, a.cfg.Ranges.Cost); err != nil {
			return err
		}
	}

	a.builder.AnnotateDistances(w)
	return nil
}
