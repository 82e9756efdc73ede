package propagation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

// propagateCost runs the four bottom-up stages, then rolls totals up the
// business hierarchy
func propagateCost(c *Context) error {
	costExternalFacilities(c)
	costSubassemblies(c)
	costLamFacilities(c)
	costOfferings(c)
	return rollup(c)
}

func costExternalFacilities(c *Context) {
	for _, f := range c.Network.FacilitiesOfType(entities.ExternalFacility) {
		perUnit := decimal.Zero
		for _, pq := range c.Topology.ExternalFacilityRawMaterials[f.ID] {
			perUnit = perUnit.Add(decimal.NewFromInt(int64(pq.Quantity)).Mul(c.RawCost[pq.Part]))
		}
		c.ExternalFacilityCost[f.ID] = c.ExternalFacilityDemand[f.ID].Mul(perUnit).Add(c.OperatingCost[f.ID])
	}
}

// costSubassemblies sums the cost of every producing facility. Subassemblies
// without a producer keep their catalog cost.
func costSubassemblies(c *Context) {
	for _, sa := range c.Network.PartsOfType(entities.SubassemblyPart) {
		facilities := c.Topology.SubassemblyExternalFacilities[sa.ID]
		if len(facilities) == 0 {
			continue
		}

		total := decimal.Zero
		for _, f := range facilities {
			total = total.Add(c.ExternalFacilityCost[f])
		}
		c.SubassemblyCost[sa.ID] = total

		sa.Cost = total.InexactFloat64()
		c.rec.NodeUpdated(sa.ID, entities.PartNode, map[string]any{"cost": sa.Cost})
	}
}

func costLamFacilities(c *Context) {
	for _, f := range c.Network.FacilitiesOfType(entities.LamFacility) {
		demand := c.LamFacilityDemand[f.ID]
		cost := decimal.Zero
		for _, pq := range c.Topology.LamFacilitySubassemblies[f.ID] {
			cost = cost.Add(demand.Mul(c.SubassemblyCost[pq.Part]).Mul(decimal.NewFromInt(int64(pq.Quantity))))
		}
		c.LamFacilityCost[f.ID] = cost.Add(c.OperatingCost[f.ID])
	}
}

func costOfferings(c *Context) {
	for _, po := range c.Network.ProductOfferings() {
		total := decimal.Zero
		for _, f := range c.Topology.OfferingLamFacilities[po.ID] {
			total = total.Add(c.LamFacilityCost[f])
		}
		c.OfferingCost[po.ID] = total
	}
}

// rollup sets each offering's unit cost and accumulates the offering totals
// into the family and business group revenue fields
func rollup(c *Context) error {
	for _, po := range c.Network.ProductOfferings() {
		unit := decimal.Zero
		if demand := c.OfferingDemand[po.ID]; !demand.IsZero() {
			unit = c.OfferingCost[po.ID].Div(demand)
		}
		po.Cost = unit.InexactFloat64()
		c.rec.NodeUpdated(po.ID, entities.ProductOfferingNode, map[string]any{"cost": po.Cost})
	}

	groupTotal := decimal.Zero
	for _, pf := range c.Network.ProductFamilies() {
		total := decimal.Zero
		for _, po := range c.Network.OfferingsOfFamily(pf.ID) {
			total = total.Add(c.OfferingCost[po.ID])
		}
		groupTotal = groupTotal.Add(total)

		// revenue holds the accumulated cost of the family
		pf.Revenue = total.InexactFloat64()
		c.rec.NodeUpdated(pf.ID, entities.ProductFamilyNode, map[string]any{"revenue": pf.Revenue})
	}

	bg := c.Network.BusinessGroup()
	if bg == nil {
		return fmt.Errorf("failed to roll up cost: %w: business group", entities.ErrNodeNotFound)
	}
	bg.Revenue = groupTotal.InexactFloat64()
	c.rec.NodeUpdated(bg.ID, entities.BusinessGroupNode, map[string]any{"revenue": bg.Revenue})
	return nil
}
