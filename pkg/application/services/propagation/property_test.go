package propagation

import (
	"context"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
	fixtures "github.com/Surya-0/SCM-Builder/pkg/infrastructure/testing"
)

func TestPropagationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("offering demand split is conserved", prop.ForAll(
		func(demand float64, capA, capB int) bool {
			base, topo := fixtures.BuildFixtureNetwork()
			fa, _ := base.Facility("F_003")
			fb, _ := base.Facility("F_004")
			fa.MaxCapacity = float64(capA)
			fb.MaxCapacity = float64(capB)

			c := NewContext(base, topo, events.Discard)
			if err := c.SetOfferingDemand("PO_001", demand); err != nil {
				return false
			}
			splitOfferingDemand(c)

			sum := c.LamFacilityDemand["F_003"].Add(c.LamFacilityDemand["F_004"])
			return sum.Equal(decimal.NewFromFloat(demand))
		},
		gen.Float64Range(0, 1e6),
		gen.IntRange(1, 100000),
		gen.IntRange(1, 100000),
	))

	properties.Property("group revenue is the sum of family revenue", prop.ForAll(
		func(demandA, demandB int) bool {
			base, topo := fixtures.BuildFixtureNetwork()
			c := NewContext(base, topo, events.Discard)
			_ = c.SetOfferingDemand("PO_001", float64(demandA))
			_ = c.SetOfferingDemand("PO_002", float64(demandB))

			if _, err := NewEngine().Run(context.Background(), c); err != nil {
				return false
			}

			families := 0.0
			for _, pf := range c.Network.ProductFamilies() {
				members := decimal.Zero
				for _, po := range c.Network.OfferingsOfFamily(pf.ID) {
					members = members.Add(c.OfferingCost[po.ID])
				}
				if members.InexactFloat64() != pf.Revenue {
					return false
				}
				families += pf.Revenue
			}
			bg := c.Network.BusinessGroup().Revenue
			return math.Abs(bg-families) <= 1e-9*math.Max(1, bg)
		},
		gen.IntRange(0, 50000),
		gen.IntRange(0, 50000),
	))

	properties.TestingRun(t)
}
