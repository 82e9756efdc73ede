package generation

import (
	"fmt"

	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

// Distribution holds the node counts derived from the variable node budget
type Distribution struct {
	Suppliers  map[entities.SizeCategory]int
	Warehouses map[entities.WarehouseType]int
	Facilities map[entities.FacilityType]int
	Parts      map[entities.PartType]int
}

// Total returns the number of variable nodes the distribution will create
func (d Distribution) Total() int {
	total := 0
	for _, c := range d.Suppliers {
		total += c
	}
	for _, c := range d.Warehouses {
		total += c
	}
	for _, c := range d.Facilities {
		total += c
	}
	for _, c := range d.Parts {
		total += c
	}
	return total
}

// CalculateDistribution splits the budget by truncating each ratio, then raises
// every category to its configured minimum.
func CalculateDistribution(cfg *config.Config) (Distribution, error) {
	total := cfg.TotalVariableNodes
	if total <= 0 {
		return Distribution{}, fmt.Errorf("%w: total variable nodes must be positive, got %d", config.ErrInvalid, total)
	}

	r := cfg.Ratios
	m := cfg.Minimums

	parts := truncate(total, r.Parts)
	suppliers := atLeast(truncate(total, r.Suppliers), m.Suppliers)
	warehouses := truncate(total, r.Warehouses)
	facilities := truncate(total, r.Facilities)

	d := Distribution{
		Suppliers: map[entities.SizeCategory]int{
			entities.Small:  truncate(suppliers, r.SmallSuppliers),
			entities.Medium: truncate(suppliers, r.MediumSuppliers),
			entities.Large:  truncate(suppliers, r.LargeSuppliers),
		},
		Warehouses: map[entities.WarehouseType]int{
			entities.SupplierWarehouse:    atLeast(truncate(warehouses, r.SupplierWarehouses), m.SupplierWarehouses),
			entities.SubassemblyWarehouse: atLeast(truncate(warehouses, r.SubassemblyWarehouses), m.SubassemblyWarehouses),
			entities.LamWarehouse:         atLeast(truncate(warehouses, r.LamWarehouses), m.LamWarehouses),
		},
		Facilities: map[entities.FacilityType]int{
			entities.ExternalFacility: atLeast(truncate(facilities, r.ExternalFacilities), m.ExternalFacilities),
			entities.LamFacility:      atLeast(truncate(facilities, r.LamFacilities), m.LamFacilities),
		},
		Parts: map[entities.PartType]int{
			entities.RawPart:         atLeast(truncate(parts, r.RawParts), m.RawParts),
			entities.SubassemblyPart: atLeast(truncate(parts, r.SubassemblyParts), m.SubassemblyParts),
		},
	}

	supplierTotal := 0
	for _, c := range d.Suppliers {
		supplierTotal += c
	}
	if supplierTotal == 0 {
		return Distribution{}, fmt.Errorf("%w: supplier ratios produce no suppliers from %d", config.ErrInvalid, suppliers)
	}

	return d, nil
}

func truncate(total int, ratio float64) int {
	return int(float64(total) * ratio)
}

func atLeast(value, floor int) int {
	if value < floor {
		return floor
	}
	return value
}
