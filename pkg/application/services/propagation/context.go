package propagation

import (
	"github.com/shopspring/decimal"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// Context holds the state of one propagation run. The network is owned by
// the context and mutated in place, so callers pass a private copy.
type Context struct {
	Network   *network.Network
	Topology  *network.Topology
	Timestamp int

	rec events.Recorder

	OfferingDemand         map[entities.EntityID]decimal.Decimal
	LamFacilityDemand      map[entities.EntityID]decimal.Decimal
	SubassemblyDemand      map[entities.EntityID]entities.Quantity
	ExternalFacilityDemand map[entities.EntityID]decimal.Decimal
	RawDemand              map[entities.EntityID]entities.Quantity

	RawCost              map[entities.EntityID]decimal.Decimal
	OperatingCost        map[entities.EntityID]decimal.Decimal
	ExternalFacilityCost map[entities.EntityID]decimal.Decimal
	SubassemblyCost      map[entities.EntityID]decimal.Decimal
	LamFacilityCost      map[entities.EntityID]decimal.Decimal
	OfferingCost         map[entities.EntityID]decimal.Decimal

	facilityCapacity    map[entities.EntityID]decimal.Decimal
	offeringCapacity    map[entities.EntityID]decimal.Decimal
	subassemblyCapacity map[entities.EntityID]decimal.Decimal
}

// NewContext reads the propagation inputs from net and derives the
// aggregate capacities
func NewContext(net *network.Network, topo *network.Topology, rec events.Recorder) *Context {
	if rec == nil {
		rec = events.Discard
	}
	c := &Context{
		Network:   net,
		Topology:  topo,
		Timestamp: net.Timestamp,
		rec:       rec,
	}
	c.Reset()
	return c
}

// Reset clears every intermediate map and reloads demand, costs and
// capacities from the network
func (c *Context) Reset() {
	c.OfferingDemand = make(map[entities.EntityID]decimal.Decimal)
	c.LamFacilityDemand = make(map[entities.EntityID]decimal.Decimal)
	c.SubassemblyDemand = make(map[entities.EntityID]entities.Quantity)
	c.ExternalFacilityDemand = make(map[entities.EntityID]decimal.Decimal)
	c.RawDemand = make(map[entities.EntityID]entities.Quantity)

	c.RawCost = make(map[entities.EntityID]decimal.Decimal)
	c.OperatingCost = make(map[entities.EntityID]decimal.Decimal)
	c.ExternalFacilityCost = make(map[entities.EntityID]decimal.Decimal)
	c.SubassemblyCost = make(map[entities.EntityID]decimal.Decimal)
	c.LamFacilityCost = make(map[entities.EntityID]decimal.Decimal)
	c.OfferingCost = make(map[entities.EntityID]decimal.Decimal)

	for _, po := range c.Network.ProductOfferings() {
		c.OfferingDemand[po.ID] = decimal.NewFromFloat(po.Demand)
	}
	for _, p := range c.Network.Parts() {
		if p.IsRaw() {
			c.RawCost[p.ID] = decimal.NewFromFloat(p.Cost)
		} else {
			c.SubassemblyCost[p.ID] = decimal.NewFromFloat(p.Cost)
		}
	}
	for _, f := range c.Network.Facilities() {
		c.OperatingCost[f.ID] = decimal.NewFromFloat(f.OperatingCost)
	}
	c.RefreshCapacities()
}

// RefreshCapacities recomputes the per-offering and per-subassembly aggregate
// capacities from the current facility records. It must run after any
// capacity change and before the next demand split.
func (c *Context) RefreshCapacities() {
	c.facilityCapacity = make(map[entities.EntityID]decimal.Decimal)
	for _, f := range c.Network.Facilities() {
		c.facilityCapacity[f.ID] = decimal.NewFromFloat(f.MaxCapacity)
	}
	c.offeringCapacity = c.aggregate(c.Topology.OfferingLamFacilities)
	c.subassemblyCapacity = c.aggregate(c.Topology.SubassemblyExternalFacilities)
}

func (c *Context) aggregate(index map[entities.EntityID][]entities.EntityID) map[entities.EntityID]decimal.Decimal {
	result := make(map[entities.EntityID]decimal.Decimal, len(index))
	for target, facilities := range index {
		total := decimal.Zero
		for _, f := range facilities {
			total = total.Add(c.facilityCapacity[f])
		}
		result[target] = total
	}
	return result
}

// OfferingCapacity returns the summed capacity of the lam facilities serving an offering
func (c *Context) OfferingCapacity(id entities.EntityID) decimal.Decimal {
	return c.offeringCapacity[id]
}

// SubassemblyCapacity returns the summed capacity of the external facilities producing a subassembly
func (c *Context) SubassemblyCapacity(id entities.EntityID) decimal.Decimal {
	return c.subassemblyCapacity[id]
}

// SetOfferingDemand overrides the demand of one offering on the node and in the run inputs
func (c *Context) SetOfferingDemand(id entities.EntityID, demand float64) error {
	po, err := c.Network.ProductOffering(id)
	if err != nil {
		return err
	}
	po.Demand = demand
	c.OfferingDemand[id] = decimal.NewFromFloat(demand)
	return nil
}

// Aggregates returns the six demand and cost dictionaries of the run
func (c *Context) Aggregates() dto.AggregateSet {
	return dto.AggregateSet{
		OfferingDemand:    floats(c.OfferingDemand),
		OfferingCost:      floats(c.OfferingCost),
		SubassemblyDemand: quantities(c.SubassemblyDemand),
		SubassemblyCost:   floats(c.SubassemblyCost),
		RawDemand:         quantities(c.RawDemand),
		RawCost:           floats(c.RawCost),
	}
}

func floats(m map[entities.EntityID]decimal.Decimal) map[entities.EntityID]float64 {
	result := make(map[entities.EntityID]float64, len(m))
	for k, v := range m {
		result[k] = v.InexactFloat64()
	}
	return result
}

func quantities(m map[entities.EntityID]entities.Quantity) map[entities.EntityID]float64 {
	result := make(map[entities.EntityID]float64, len(m))
	for k, v := range m {
		result[k] = float64(v)
	}
	return result
}
