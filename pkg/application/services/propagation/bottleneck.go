package propagation

import (
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

// DetectBottlenecks flags every subassembly and offering whose demand over
// aggregate facility capacity exceeds factor. Entities without capacity
// are never flagged.
func DetectBottlenecks(c *Context, factor float64) *dto.Bottlenecks {
	result := dto.NewBottlenecks()
	threshold := decimal.NewFromFloat(factor)

	for _, sa := range c.Network.PartsOfType(entities.SubassemblyPart) {
		demand := decimal.NewFromInt(int64(c.SubassemblyDemand[sa.ID]))
		check(result.Subassembly, c.Timestamp, sa.ID, demand, c.subassemblyCapacity[sa.ID], threshold)
	}
	for _, po := range c.Network.ProductOfferings() {
		check(result.Offering, c.Timestamp, po.ID, c.OfferingDemand[po.ID], c.offeringCapacity[po.ID], threshold)
	}
	return result
}

func check(report dto.BottleneckReport, timestamp int, id entities.EntityID, demand, capacity, factor decimal.Decimal) {
	if !capacity.IsPositive() {
		return
	}
	if demand.Div(capacity).LessThanOrEqual(factor) {
		return
	}

	b := dto.Bottleneck{
		Timestamp:         timestamp,
		Demand:            demand.InexactFloat64(),
		AggregateCapacity: capacity.InexactFloat64(),
		BottleneckFactor:  factor.InexactFloat64(),
	}
	report.Add(id, b)
	log.Warn().
		Int("timestamp", timestamp).
		Str("entity", string(id)).
		Float64("ratio", b.Ratio()).
		Msg("bottleneck detected")
}
