package generation

import (
	"fmt"

	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/domain/services"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// EntityFactory creates entities with randomized attributes, logs each one and
// inserts it into the network.
type EntityFactory struct {
	cfg      *config.Config
	rnd      *services.Random
	net      *network.Network
	rec      events.Recorder
	counters map[entities.NodeType]int
}

// NewEntityFactory creates a factory whose sequence numbers continue after the
// highest identifier already present on the network.
func NewEntityFactory(cfg *config.Config, rnd *services.Random, net *network.Network, rec events.Recorder) *EntityFactory {
	f := &EntityFactory{
		cfg:      cfg,
		rnd:      rnd,
		net:      net,
		rec:      rec,
		counters: make(map[entities.NodeType]int),
	}
	for _, node := range net.Nodes() {
		if t, seq, err := entities.ParseEntityID(node.NodeID()); err == nil && seq > f.counters[t] {
			f.counters[t] = seq
		}
	}
	return f
}

func (f *EntityFactory) nextID(t entities.NodeType) (entities.EntityID, int) {
	f.counters[t]++
	seq := f.counters[t]
	return entities.NewEntityID(t, seq), seq
}

func (f *EntityFactory) insert(node entities.Node) error {
	if f.net.HasNode(node.NodeID()) {
		return fmt.Errorf("%w: %s", entities.ErrDuplicateNode, node.NodeID())
	}
	f.rec.NodeCreated(node)
	return f.net.AddNode(node)
}

// CreateBusinessHierarchy creates the business group, its families and their offerings
func (f *EntityFactory) CreateBusinessHierarchy() error {
	c := f.cfg.Catalog
	rg := f.cfg.Ranges

	id, _ := f.nextID(entities.BusinessGroupNode)
	bg, err := entities.NewBusinessGroup(id, c.BusinessGroup, c.Description, f.rnd.Uniform(rg.Revenue.Min, rg.Revenue.Max))
	if err != nil {
		return fmt.Errorf("failed to create business group: %w", err)
	}
	if err := f.insert(bg); err != nil {
		return err
	}

	for _, family := range c.ProductFamilies {
		id, _ := f.nextID(entities.ProductFamilyNode)
		pf, err := entities.NewProductFamily(id, family.Name, f.rnd.Uniform(rg.Revenue.Min, rg.Revenue.Max))
		if err != nil {
			return fmt.Errorf("failed to create product family %s: %w", family.Name, err)
		}
		if err := f.insert(pf); err != nil {
			return err
		}
	}

	for _, family := range c.ProductFamilies {
		for _, name := range family.Offerings {
			id, _ := f.nextID(entities.ProductOfferingNode)
			po, err := entities.NewProductOffering(id, name, family.Name,
				f.rnd.Uniform(rg.Cost.Min, rg.Cost.Max),
				float64(f.rnd.IntBetween(rg.Demand.Min, rg.Demand.Max)))
			if err != nil {
				return fmt.Errorf("failed to create product offering %s: %w", name, err)
			}
			if err := f.insert(po); err != nil {
				return err
			}
		}
	}

	return nil
}

// CreateSuppliers creates suppliers per size bucket
func (f *EntityFactory) CreateSuppliers(d Distribution) error {
	for _, category := range entities.SizeCategories {
		for i := 0; i < d.Suppliers[category]; i++ {
			if _, err := f.CreateSupplier(category); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateSupplier creates one supplier in the given size bucket
func (f *EntityFactory) CreateSupplier(category entities.SizeCategory) (*entities.Supplier, error) {
	bucket, ok := f.cfg.SupplierSize(category.String())
	if !ok {
		return nil, fmt.Errorf("%w: no supplier size bucket %s", config.ErrInvalid, category)
	}

	size := f.rnd.IntBetween(bucket.Size.Min, bucket.Size.Max)

	var supplied []string
	if f.rnd.Chance(f.cfg.RawSupplierProbability) {
		supplied = append(supplied, f.subtypeSubset(f.cfg.Catalog.RawSubtypes)...)
	}
	if f.rnd.Chance(f.cfg.SubassemblySupplierProbability) {
		supplied = append(supplied, f.subtypeSubset(f.cfg.Catalog.SubassemblySubtypes)...)
	}
	if len(supplied) == 0 {
		// every supplier must supply something; fall back to raw materials
		supplied = f.subtypeSubset(f.cfg.Catalog.RawSubtypes)
	}

	location, err := services.Pick(f.rnd, f.cfg.Catalog.Locations)
	if err != nil {
		return nil, err
	}

	rg := f.cfg.Ranges.Reliability
	id, seq := f.nextID(entities.SupplierNode)
	supplier, err := entities.NewSupplier(id, fmt.Sprintf("Supplier_%d", seq), location,
		f.rnd.Uniform(rg.Min, rg.Max), size, category, supplied)
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier %s: %w", id, err)
	}
	return supplier, f.insert(supplier)
}

func (f *EntityFactory) subtypeSubset(pool []string) []string {
	k := f.rnd.IntBetween(1, len(pool))
	subset, _ := services.SampleOf(f.rnd, pool, k)
	return subset
}

// CreateWarehouses creates warehouses per type
func (f *EntityFactory) CreateWarehouses(d Distribution) error {
	for _, wtype := range entities.WarehouseTypes {
		for i := 0; i < d.Warehouses[wtype]; i++ {
			if _, err := f.CreateWarehouse(wtype); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateWarehouse creates one empty warehouse with a random size bucket
func (f *EntityFactory) CreateWarehouse(wtype entities.WarehouseType) (*entities.Warehouse, error) {
	category, _ := services.Pick(f.rnd, entities.SizeCategories)
	bucket, ok := f.cfg.WarehouseSize(category.String())
	if !ok {
		return nil, fmt.Errorf("%w: no warehouse size bucket %s", config.ErrInvalid, category)
	}

	location, err := services.Pick(f.rnd, f.cfg.Catalog.Locations)
	if err != nil {
		return nil, err
	}

	rg := f.cfg.Ranges.SafetyStock
	id, seq := f.nextID(entities.WarehouseNode)
	warehouse, err := entities.NewWarehouse(id, fmt.Sprintf("Warehouse_%d", seq), wtype, location, category,
		float64(f.rnd.IntBetween(bucket.Capacity.Min, bucket.Capacity.Max)),
		float64(f.rnd.IntBetween(rg.Min, rg.Max)),
		bucket.MaxParts)
	if err != nil {
		return nil, fmt.Errorf("failed to create warehouse %s: %w", id, err)
	}
	return warehouse, f.insert(warehouse)
}

// CreateFacilities creates facilities per type
func (f *EntityFactory) CreateFacilities(d Distribution) error {
	for _, ftype := range entities.FacilityTypes {
		for i := 0; i < d.Facilities[ftype]; i++ {
			location, err := services.Pick(f.rnd, f.cfg.Catalog.Locations)
			if err != nil {
				return err
			}

			rg := f.cfg.Ranges
			id, seq := f.nextID(entities.FacilityNode)
			facility, err := entities.NewFacility(id, fmt.Sprintf("Facility_%d", seq), ftype, location,
				float64(f.rnd.IntBetween(rg.Capacity.Min, rg.Capacity.Max)),
				f.rnd.Uniform(rg.OperatingCost.Min, rg.OperatingCost.Max))
			if err != nil {
				return fmt.Errorf("failed to create facility %s: %w", id, err)
			}
			if err := f.insert(facility); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateParts creates raw and subassembly parts
func (f *EntityFactory) CreateParts(d Distribution) error {
	for _, ptype := range entities.PartTypes {
		for i := 0; i < d.Parts[ptype]; i++ {
			if _, err := f.CreatePart(ptype); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreatePart creates one part valid from the base date for a random number of months
func (f *EntityFactory) CreatePart(ptype entities.PartType) (*entities.Part, error) {
	pool := f.cfg.Catalog.RawSubtypes
	if ptype == entities.SubassemblyPart {
		pool = f.cfg.Catalog.SubassemblySubtypes
	}
	subtype, err := services.Pick(f.rnd, pool)
	if err != nil {
		return nil, err
	}

	rg := f.cfg.Ranges
	validFrom := f.cfg.BaseDate
	months := f.rnd.IntBetween(rg.ValidityMonths.Min, rg.ValidityMonths.Max)
	validTill := validFrom.AddDate(0, 0, f.cfg.PeriodDays*months)

	id, seq := f.nextID(entities.PartNode)
	part, err := entities.NewPart(id, fmt.Sprintf("Part_%d", seq), ptype, subtype,
		f.rnd.Uniform(rg.Cost.Min, rg.Cost.Max),
		f.rnd.Uniform(rg.ImportanceFactor.Min, rg.ImportanceFactor.Max),
		validFrom, validTill,
		f.rnd.IntBetween(rg.Expiry.Min, rg.Expiry.Max),
		entities.Quantity(f.rnd.IntBetween(rg.UnitsInChain.Min, rg.UnitsInChain.Max)))
	if err != nil {
		return nil, fmt.Errorf("failed to create part %s: %w", id, err)
	}
	return part, f.insert(part)
}
