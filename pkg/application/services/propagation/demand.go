package propagation

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

// propagateDemand runs the four top-down stages in order, each consuming
// the output of the previous one
func propagateDemand(c *Context) error {
	splitOfferingDemand(c)
	if err := accumulateSubassemblyDemand(c); err != nil {
		return fmt.Errorf("failed to propagate subassembly demand: %w", err)
	}
	splitSubassemblyDemand(c)
	if err := accumulateRawDemand(c); err != nil {
		return fmt.Errorf("failed to propagate raw material demand: %w", err)
	}
	return nil
}

// split divides demand across facilities in proportion to their capacity.
// The last facility takes the remainder so the shares add up to demand.
func split(demand, total decimal.Decimal, facilities []entities.EntityID, capacity map[entities.EntityID]decimal.Decimal, into map[entities.EntityID]decimal.Decimal) {
	allocated := decimal.Zero
	for i, f := range facilities {
		share := demand.Sub(allocated)
		if i < len(facilities)-1 {
			share = demand.Mul(capacity[f]).Div(total)
		}
		allocated = allocated.Add(share)
		into[f] = into[f].Add(share)
	}
}

func splitOfferingDemand(c *Context) {
	for _, po := range c.Network.ProductOfferings() {
		facilities := c.Topology.OfferingLamFacilities[po.ID]
		total := c.offeringCapacity[po.ID]
		if len(facilities) == 0 || !total.IsPositive() {
			log.Debug().Str("offering", string(po.ID)).Msg("no lam facility capacity, demand not split")
			continue
		}
		split(c.OfferingDemand[po.ID], total, facilities, c.facilityCapacity, c.LamFacilityDemand)
	}
}

func splitSubassemblyDemand(c *Context) {
	for _, sa := range c.Network.PartsOfType(entities.SubassemblyPart) {
		facilities := c.Topology.SubassemblyExternalFacilities[sa.ID]
		total := c.subassemblyCapacity[sa.ID]
		if len(facilities) == 0 || !total.IsPositive() {
			continue
		}
		demand := decimal.NewFromInt(int64(c.SubassemblyDemand[sa.ID]))
		split(demand, total, facilities, c.facilityCapacity, c.ExternalFacilityDemand)
	}
}

func accumulateSubassemblyDemand(c *Context) error {
	for _, f := range c.Network.FacilitiesOfType(entities.LamFacility) {
		demand, ok := c.LamFacilityDemand[f.ID]
		if !ok {
			continue
		}
		for _, pq := range c.Topology.LamFacilitySubassemblies[f.ID] {
			if err := c.accumulate(c.SubassemblyDemand, pq.Part, ceilUnits(demand, pq.Quantity)); err != nil {
				return err
			}
		}
	}
	return nil
}

func accumulateRawDemand(c *Context) error {
	for _, f := range c.Network.FacilitiesOfType(entities.ExternalFacility) {
		demand, ok := c.ExternalFacilityDemand[f.ID]
		if !ok {
			continue
		}
		for _, pq := range c.Topology.ExternalFacilityRawMaterials[f.ID] {
			if err := c.accumulate(c.RawDemand, pq.Part, ceilUnits(demand, pq.Quantity)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ceilUnits rounds fractional unit demand up
func ceilUnits(demand decimal.Decimal, qty entities.Quantity) entities.Quantity {
	return entities.Quantity(demand.Mul(decimal.NewFromInt(int64(qty))).Ceil().IntPart())
}

// accumulate adds demand to a part and counts it into the part's units in chain
func (c *Context) accumulate(into map[entities.EntityID]entities.Quantity, id entities.EntityID, added entities.Quantity) error {
	part, err := c.Network.Part(id)
	if err != nil {
		return err
	}
	into[id] += added
	part.UnitsInChain += added
	c.rec.NodeUpdated(id, entities.PartNode, map[string]any{"units_in_chain": int64(part.UnitsInChain)})
	return nil
}
