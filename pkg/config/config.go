package config

import (
	"time"
)

// Range is an inclusive floating point interval used for uniform sampling
type Range struct {
	Min float64 `yaml:"min" validate:"gte=0"`
	Max float64 `yaml:"max" validate:"gtefield=Min"`
}

// IntRange is an inclusive integer interval used for uniform sampling
type IntRange struct {
	Min int `yaml:"min" validate:"gte=0"`
	Max int `yaml:"max" validate:"gtefield=Min"`
}

// Variation holds the temporal variation coefficients of one attribute category
type Variation struct {
	MaxChange  float64 `yaml:"max_change" validate:"gte=0,lt=1"`
	Trend      float64 `yaml:"trend"`
	StartAfter int     `yaml:"start_after,omitempty" validate:"gte=0"`
}

// ProductFamily lists the offerings that belong to one family
type ProductFamily struct {
	Name      string   `yaml:"name" validate:"required"`
	Offerings []string `yaml:"offerings" validate:"required,min=1,dive,required"`
}

// Catalog is the static business and part taxonomy
type Catalog struct {
	BusinessGroup       string          `yaml:"business_group" validate:"required"`
	Description         string          `yaml:"description"`
	ProductFamilies     []ProductFamily `yaml:"product_families" validate:"required,min=1,dive"`
	RawSubtypes         []string        `yaml:"raw_subtypes" validate:"required,min=1,dive,required"`
	SubassemblySubtypes []string        `yaml:"subassembly_subtypes" validate:"required,min=1,dive,required"`
	Locations           []string        `yaml:"locations" validate:"required,min=1,dive,required"`
}

// OfferingCount returns the number of product offerings across all families
func (c Catalog) OfferingCount() int {
	count := 0
	for _, family := range c.ProductFamilies {
		count += len(family.Offerings)
	}
	return count
}

// Ranges holds every numeric sampling range used during generation
type Ranges struct {
	Inventory            IntRange `yaml:"inventory"`
	SafetyStock          IntRange `yaml:"safety_stock"`
	Demand               IntRange `yaml:"demand"`
	Cost                 Range    `yaml:"cost"`
	Revenue              Range    `yaml:"revenue"`
	Capacity             IntRange `yaml:"capacity"`
	OperatingCost        Range    `yaml:"operating_cost"`
	Reliability          Range    `yaml:"reliability"`
	ImportanceFactor     Range    `yaml:"importance_factor"`
	Quantity             IntRange `yaml:"quantity"`
	TransportationCost   Range    `yaml:"transportation_cost"`
	TransportationTime   Range    `yaml:"transportation_time"`
	StorageCost          Range    `yaml:"storage_cost"`
	Distance             IntRange `yaml:"distance"`
	SameLocationDistance IntRange `yaml:"same_location_distance"`
	UnitsInChain         IntRange `yaml:"units_in_chain"`
	Expiry               IntRange `yaml:"expiry"`
	ValidityMonths       IntRange `yaml:"validity_months"`
}

// SupplierSize describes one supplier size bucket
type SupplierSize struct {
	Size           IntRange `yaml:"size"`
	MaxConnections int      `yaml:"max_connections" validate:"min=1"`
}

// SupplierSizes groups the three supplier size buckets
type SupplierSizes struct {
	Small  SupplierSize `yaml:"small"`
	Medium SupplierSize `yaml:"medium"`
	Large  SupplierSize `yaml:"large"`
}

// WarehouseSize describes one warehouse size bucket
type WarehouseSize struct {
	Capacity IntRange `yaml:"capacity"`
	MaxParts int      `yaml:"max_parts" validate:"min=1"`
}

// WarehouseSizes groups the three warehouse size buckets
type WarehouseSizes struct {
	Small  WarehouseSize `yaml:"small"`
	Medium WarehouseSize `yaml:"medium"`
	Large  WarehouseSize `yaml:"large"`
}

// Ratios are the fractions used to split the variable node budget
type Ratios struct {
	Parts      float64 `yaml:"parts" validate:"gt=0,lte=1"`
	Suppliers  float64 `yaml:"suppliers" validate:"gt=0,lte=1"`
	Warehouses float64 `yaml:"warehouses" validate:"gt=0,lte=1"`
	Facilities float64 `yaml:"facilities" validate:"gt=0,lte=1"`

	RawParts         float64 `yaml:"raw_parts" validate:"gt=0,lte=1"`
	SubassemblyParts float64 `yaml:"subassembly_parts" validate:"gt=0,lte=1"`

	SmallSuppliers  float64 `yaml:"small_suppliers" validate:"gte=0,lte=1"`
	MediumSuppliers float64 `yaml:"medium_suppliers" validate:"gte=0,lte=1"`
	LargeSuppliers  float64 `yaml:"large_suppliers" validate:"gte=0,lte=1"`

	SupplierWarehouses    float64 `yaml:"supplier_warehouses" validate:"gt=0,lte=1"`
	SubassemblyWarehouses float64 `yaml:"subassembly_warehouses" validate:"gt=0,lte=1"`
	LamWarehouses         float64 `yaml:"lam_warehouses" validate:"gt=0,lte=1"`

	ExternalFacilities float64 `yaml:"external_facilities" validate:"gt=0,lte=1"`
	LamFacilities      float64 `yaml:"lam_facilities" validate:"gt=0,lte=1"`
}

// Minimums are the per-category floors applied after ratio truncation
type Minimums struct {
	Suppliers             int `yaml:"suppliers" validate:"gte=0"`
	SupplierWarehouses    int `yaml:"supplier_warehouses" validate:"gte=1"`
	SubassemblyWarehouses int `yaml:"subassembly_warehouses" validate:"gte=1"`
	LamWarehouses         int `yaml:"lam_warehouses" validate:"gte=1"`
	ExternalFacilities    int `yaml:"external_facilities" validate:"gte=1"`
	LamFacilities         int `yaml:"lam_facilities" validate:"gte=1"`
	RawParts              int `yaml:"raw_parts" validate:"gte=1"`
	SubassemblyParts      int `yaml:"subassembly_parts" validate:"gte=1"`
}

// Config is the complete generator configuration
type Config struct {
	TotalVariableNodes int       `yaml:"total_variable_nodes" validate:"min=1"`
	Periods            int       `yaml:"periods" validate:"min=1"`
	Seed               int64     `yaml:"seed"`
	Version            string    `yaml:"version" validate:"required"`
	BaseDate           time.Time `yaml:"base_date" validate:"required"`
	PeriodDays         int       `yaml:"period_days" validate:"min=1"`
	BottleneckFactor   float64   `yaml:"bottleneck_factor" validate:"gt=0"`
	ExportBatchSize    int       `yaml:"export_batch_size" validate:"min=1"`

	// LamWarehouseFill bounds initial lam warehouse stock as a fraction of max capacity
	LamWarehouseFill float64 `yaml:"lam_warehouse_fill" validate:"gt=0,lte=1"`

	// RawSupplierProbability and SubassemblySupplierProbability are drawn independently per supplier
	RawSupplierProbability         float64 `yaml:"raw_supplier_probability" validate:"gte=0,lte=1"`
	SubassemblySupplierProbability float64 `yaml:"subassembly_supplier_probability" validate:"gte=0,lte=1"`

	// ExternalFacilityLinkProbability is the chance a newly added raw part feeds each external facility
	ExternalFacilityLinkProbability float64 `yaml:"external_facility_link_probability" validate:"gte=0,lte=1"`
	// SupplierLinkProbability is the chance each matching supplier feeds a newly added warehouse
	SupplierLinkProbability float64 `yaml:"supplier_link_probability" validate:"gte=0,lte=1"`

	Catalog        Catalog              `yaml:"catalog"`
	Ranges         Ranges               `yaml:"ranges"`
	Ratios         Ratios               `yaml:"ratios"`
	Minimums       Minimums             `yaml:"minimums"`
	SupplierSizes  SupplierSizes        `yaml:"supplier_sizes"`
	WarehouseSizes WarehouseSizes       `yaml:"warehouse_sizes"`
	Temporal       map[string]Variation `yaml:"temporal_variation" validate:"dive"`
}

// DefaultVariation applies to attribute categories without configured coefficients
var DefaultVariation = Variation{MaxChange: 0.1, Trend: 0}

// Variation returns the temporal coefficients for an attribute category
func (c *Config) Variation(category string) Variation {
	if v, ok := c.Temporal[category]; ok {
		return v
	}
	return DefaultVariation
}

// PeriodDate returns the calendar date of a period index
func (c *Config) PeriodDate(period int) time.Time {
	return c.BaseDate.AddDate(0, 0, c.PeriodDays*period)
}

// SupplierSize returns the bucket for a size category name
func (c *Config) SupplierSize(category string) (SupplierSize, bool) {
	switch category {
	case "small":
		return c.SupplierSizes.Small, true
	case "medium":
		return c.SupplierSizes.Medium, true
	case "large":
		return c.SupplierSizes.Large, true
	default:
		return SupplierSize{}, false
	}
}

// WarehouseSize returns the bucket for a size category name
func (c *Config) WarehouseSize(category string) (WarehouseSize, bool) {
	switch category {
	case "small":
		return c.WarehouseSizes.Small, true
	case "medium":
		return c.WarehouseSizes.Medium, true
	case "large":
		return c.WarehouseSizes.Large, true
	default:
		return WarehouseSize{}, false
	}
}

// Default returns the built-in catalog and generation parameters
func Default() *Config {
	return &Config{
		TotalVariableNodes:              1000,
		Periods:                         12,
		Version:                         "NSS_V1",
		BaseDate:                        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodDays:                      30,
		BottleneckFactor:                0.01,
		ExportBatchSize:                 1000,
		LamWarehouseFill:                0.75,
		RawSupplierProbability:          0.7,
		SubassemblySupplierProbability:  0.3,
		ExternalFacilityLinkProbability: 0.3,
		SupplierLinkProbability:         0.2,
		Catalog: Catalog{
			BusinessGroup: "Etch",
			Description:   "Etch business group",
			ProductFamilies: []ProductFamily{
				{Name: "Kyo", Offerings: []string{
					"Versys® Kyo®", "Versys® Kyo® C Series", "Kyo® C Series",
					"Kyo® E Series", "Kyo® F Series", "Kyo® G Series",
				}},
				{Name: "Coronus", Offerings: []string{"Coronus®", "Coronus® HP", "Coronus® DX"}},
				{Name: "Flex", Offerings: []string{
					"Exelan® Flex®", "Exelan® Flex45™", "Flex® D Series", "Flex® E Series",
					"Flex® F Series", "Flex® G Series", "Flex® H Series",
				}},
				{Name: "Versys Metal", Offerings: []string{
					"Versys® Metal", "Versys® Metal45™", "Versys® Metal L", "Versys® Metal M", "Versys® Metal N",
				}},
			},
			RawSubtypes:         []string{"metal_sheet", "metal_rod", "electronic_component", "plastic_component", "chemical"},
			SubassemblySubtypes: []string{"circuit_board", "housing_unit", "control_panel", "power_unit", "sensor_array"},
			Locations: []string{
				"California", "Texas", "Arizona", "Oregon", "New York",
				"Massachusetts", "Washington", "Florida", "Georgia",
			},
		},
		Ranges: Ranges{
			Inventory:            IntRange{Min: 700, Max: 1500},
			SafetyStock:          IntRange{Min: 700, Max: 1500},
			Demand:               IntRange{Min: 50, Max: 300},
			Cost:                 Range{Min: 10, Max: 200},
			Revenue:              Range{Min: 10, Max: 200},
			Capacity:             IntRange{Min: 1000, Max: 3000},
			OperatingCost:        Range{Min: 10, Max: 200},
			Reliability:          Range{Min: 0.6, Max: 0.99},
			ImportanceFactor:     Range{Min: 0.1, Max: 1.0},
			Quantity:             IntRange{Min: 1, Max: 5},
			TransportationCost:   Range{Min: 10, Max: 1000},
			TransportationTime:   Range{Min: 1, Max: 30},
			StorageCost:          Range{Min: 10, Max: 200},
			Distance:             IntRange{Min: 10, Max: 1000},
			SameLocationDistance: IntRange{Min: 10, Max: 50},
			UnitsInChain:         IntRange{Min: 10, Max: 20},
			Expiry:               IntRange{Min: 60, Max: 90},
			ValidityMonths:       IntRange{Min: 12, Max: 36},
		},
		Ratios: Ratios{
			Parts:                 0.45,
			Suppliers:             0.10,
			Warehouses:            0.15,
			Facilities:            0.30,
			RawParts:              0.8,
			SubassemblyParts:      0.2,
			SmallSuppliers:        0.40,
			MediumSuppliers:       0.35,
			LargeSuppliers:        0.25,
			SupplierWarehouses:    0.40,
			SubassemblyWarehouses: 0.35,
			LamWarehouses:         0.25,
			ExternalFacilities:    0.7,
			LamFacilities:         0.3,
		},
		Minimums: Minimums{
			Suppliers:             20,
			SupplierWarehouses:    3,
			SubassemblyWarehouses: 3,
			LamWarehouses:         3,
			ExternalFacilities:    2,
			LamFacilities:         2,
			RawParts:              10,
			SubassemblyParts:      15,
		},
		SupplierSizes: SupplierSizes{
			Small:  SupplierSize{Size: IntRange{Min: 100, Max: 300}, MaxConnections: 2},
			Medium: SupplierSize{Size: IntRange{Min: 301, Max: 600}, MaxConnections: 4},
			Large:  SupplierSize{Size: IntRange{Min: 601, Max: 1000}, MaxConnections: 6},
		},
		WarehouseSizes: WarehouseSizes{
			Small:  WarehouseSize{Capacity: IntRange{Min: 10000, Max: 15000}, MaxParts: 5},
			Medium: WarehouseSize{Capacity: IntRange{Min: 15001, Max: 20000}, MaxParts: 10},
			Large:  WarehouseSize{Capacity: IntRange{Min: 20001, Max: 30000}, MaxParts: 15},
		},
		Temporal: map[string]Variation{
			"revenue":             {MaxChange: 0.12, Trend: 0.03},
			"cost":                {MaxChange: 0.1, Trend: 0.02},
			"demand":              {MaxChange: 0.15, Trend: 0.03},
			"capacity":            {MaxChange: 0.005, Trend: 0},
			"inventory":           {MaxChange: 0.2, Trend: 0},
			"reliability":         {MaxChange: 0.05, Trend: 0},
			"transportation_cost": {MaxChange: 0.08, Trend: 0.01},
			"quantity":            {MaxChange: 0.2, Trend: 0.02, StartAfter: 3},
		},
	}
}
