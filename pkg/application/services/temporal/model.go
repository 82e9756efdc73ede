package temporal

import (
	"math"

	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/services"
)

// SeasonalAmplitude is the peak relative swing of seasonal categories
const SeasonalAmplitude = 0.15

// Attribute categories with their own variation coefficients
const (
	Revenue            = "revenue"
	Cost               = "cost"
	Demand             = "demand"
	Capacity           = "capacity"
	Inventory          = "inventory"
	Reliability        = "reliability"
	TransportationCost = "transportation_cost"
	OperatingCost      = "operating_cost"
)

// Seasonal returns the seasonal multiplier of a category at a period.
// Only demand and cost follow the yearly cycle, peaking mid-year.
func Seasonal(category string, period int) float64 {
	if category != Demand && category != Cost {
		return 1.0
	}
	return 1 + SeasonalAmplitude*math.Sin(2*math.Pi*float64(period-3)/12)
}

// Model applies trend, seasonality and bounded noise to base values
type Model struct {
	cfg *config.Config
	rnd *services.Random
}

// NewModel creates a model drawing its noise from rnd
func NewModel(cfg *config.Config, rnd *services.Random) *Model {
	return &Model{cfg: cfg, rnd: rnd}
}

// Value returns base × (1 + trend × t) × seasonal(t) × (1 + U(-max_change, max_change))
func (m *Model) Value(base float64, category string, period int) float64 {
	v := m.cfg.Variation(category)
	if v.StartAfter > 0 && period <= v.StartAfter {
		return base
	}

	trend := 1 + v.Trend*float64(period)
	noise := 1 + m.rnd.Uniform(-v.MaxChange, v.MaxChange)
	return base * trend * Seasonal(category, period) * noise
}
