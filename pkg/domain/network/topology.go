package network

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

// PartQuantity pairs a part with the units consumed per produced unit
type PartQuantity struct {
	Part     entities.EntityID
	Quantity entities.Quantity
}

// Topology holds the lookup indices derived while wiring the network.
// Aggregate capacities are not stored here; they are derived from the
// facility records whenever a propagation run needs them.
type Topology struct {
	OfferingSubassemblies   map[entities.EntityID][]entities.EntityID
	SubassemblyRawMaterials map[entities.EntityID][]entities.EntityID

	SubassemblyExternalFacilities map[entities.EntityID][]entities.EntityID
	ExternalFacilityRawMaterials  map[entities.EntityID][]PartQuantity
	LamFacilitySubassemblies      map[entities.EntityID][]PartQuantity
	OfferingLamFacilities         map[entities.EntityID][]entities.EntityID

	SupplierWarehouses map[entities.EntityID][]entities.EntityID
	WarehouseParts     map[entities.EntityID][]entities.EntityID
	WarehouseOfferings map[entities.EntityID][]entities.EntityID
	OfferingWarehouses map[entities.EntityID][]entities.EntityID

	// LamInventory and LamStorageCost are keyed by offering, then warehouse
	LamInventory   map[entities.EntityID]map[entities.EntityID]float64
	LamStorageCost map[entities.EntityID]map[entities.EntityID]float64
}

// NewTopology creates empty indices
func NewTopology() *Topology {
	return &Topology{
		OfferingSubassemblies:         make(map[entities.EntityID][]entities.EntityID),
		SubassemblyRawMaterials:       make(map[entities.EntityID][]entities.EntityID),
		SubassemblyExternalFacilities: make(map[entities.EntityID][]entities.EntityID),
		ExternalFacilityRawMaterials:  make(map[entities.EntityID][]PartQuantity),
		LamFacilitySubassemblies:      make(map[entities.EntityID][]PartQuantity),
		OfferingLamFacilities:         make(map[entities.EntityID][]entities.EntityID),
		SupplierWarehouses:            make(map[entities.EntityID][]entities.EntityID),
		WarehouseParts:                make(map[entities.EntityID][]entities.EntityID),
		WarehouseOfferings:            make(map[entities.EntityID][]entities.EntityID),
		OfferingWarehouses:            make(map[entities.EntityID][]entities.EntityID),
		LamInventory:                  make(map[entities.EntityID]map[entities.EntityID]float64),
		LamStorageCost:                make(map[entities.EntityID]map[entities.EntityID]float64),
	}
}

// Record updates the indices for an edge that was just added to the network
func (t *Topology) Record(n *Network, e *entities.Edge) error {
	switch e.Kind {
	case entities.SupplierToWarehouse:
		t.SupplierWarehouses[e.Source] = append(t.SupplierWarehouses[e.Source], e.Target)

	case entities.WarehouseToPart:
		t.WarehouseParts[e.Source] = append(t.WarehouseParts[e.Source], e.Target)

	case entities.PartToFacility:
		facility, err := n.Facility(e.Target)
		if err != nil {
			return fmt.Errorf("failed to index %s -> %s: %w", e.Source, e.Target, err)
		}
		transfer, ok := e.Attributes.(*entities.Transfer)
		if !ok {
			return fmt.Errorf("%w: %s -> %s carries no transfer payload", entities.ErrInvalidEdge, e.Source, e.Target)
		}
		pq := PartQuantity{Part: e.Source, Quantity: transfer.Quantity}
		if facility.Type == entities.ExternalFacility {
			t.ExternalFacilityRawMaterials[e.Target] = append(t.ExternalFacilityRawMaterials[e.Target], pq)
		} else {
			t.LamFacilitySubassemblies[e.Target] = append(t.LamFacilitySubassemblies[e.Target], pq)
		}

	case entities.FacilityToPart:
		t.SubassemblyExternalFacilities[e.Target] = append(t.SubassemblyExternalFacilities[e.Target], e.Source)

	case entities.FacilityToProduct:
		t.OfferingLamFacilities[e.Target] = append(t.OfferingLamFacilities[e.Target], e.Source)

	case entities.WarehouseToProduct:
		stock, ok := e.Attributes.(*entities.Stock)
		if !ok {
			return fmt.Errorf("%w: %s -> %s carries no stock payload", entities.ErrInvalidEdge, e.Source, e.Target)
		}
		t.WarehouseOfferings[e.Source] = append(t.WarehouseOfferings[e.Source], e.Target)
		t.OfferingWarehouses[e.Target] = append(t.OfferingWarehouses[e.Target], e.Source)
		if t.LamInventory[e.Target] == nil {
			t.LamInventory[e.Target] = make(map[entities.EntityID]float64)
			t.LamStorageCost[e.Target] = make(map[entities.EntityID]float64)
		}
		t.LamInventory[e.Target][e.Source] = stock.InventoryLevel
		t.LamStorageCost[e.Target][e.Source] = stock.StorageCost
	}
	return nil
}

// SupplierParts returns the parts reachable from a supplier through its warehouses
func (t *Topology) SupplierParts(supplier entities.EntityID) []entities.EntityID {
	seen := make(map[entities.EntityID]bool)
	var result []entities.EntityID
	for _, w := range t.SupplierWarehouses[supplier] {
		for _, p := range t.WarehouseParts[w] {
			if !seen[p] {
				seen[p] = true
				result = append(result, p)
			}
		}
	}
	slices.Sort(result)
	return result
}

// Clone returns an independent copy of every index
func (t *Topology) Clone() *Topology {
	clone := &Topology{
		OfferingSubassemblies:         cloneIDLists(t.OfferingSubassemblies),
		SubassemblyRawMaterials:       cloneIDLists(t.SubassemblyRawMaterials),
		SubassemblyExternalFacilities: cloneIDLists(t.SubassemblyExternalFacilities),
		ExternalFacilityRawMaterials:  make(map[entities.EntityID][]PartQuantity, len(t.ExternalFacilityRawMaterials)),
		LamFacilitySubassemblies:      make(map[entities.EntityID][]PartQuantity, len(t.LamFacilitySubassemblies)),
		OfferingLamFacilities:         cloneIDLists(t.OfferingLamFacilities),
		SupplierWarehouses:            cloneIDLists(t.SupplierWarehouses),
		WarehouseParts:                cloneIDLists(t.WarehouseParts),
		WarehouseOfferings:            cloneIDLists(t.WarehouseOfferings),
		OfferingWarehouses:            cloneIDLists(t.OfferingWarehouses),
		LamInventory:                  make(map[entities.EntityID]map[entities.EntityID]float64, len(t.LamInventory)),
		LamStorageCost:                make(map[entities.EntityID]map[entities.EntityID]float64, len(t.LamStorageCost)),
	}
	for k, v := range t.ExternalFacilityRawMaterials {
		clone.ExternalFacilityRawMaterials[k] = slices.Clone(v)
	}
	for k, v := range t.LamFacilitySubassemblies {
		clone.LamFacilitySubassemblies[k] = slices.Clone(v)
	}
	for k, v := range t.LamInventory {
		clone.LamInventory[k] = maps.Clone(v)
	}
	for k, v := range t.LamStorageCost {
		clone.LamStorageCost[k] = maps.Clone(v)
	}
	return clone
}

func cloneIDLists(m map[entities.EntityID][]entities.EntityID) map[entities.EntityID][]entities.EntityID {
	result := make(map[entities.EntityID][]entities.EntityID, len(m))
	for k, v := range m {
		result[k] = slices.Clone(v)
	}
	return result
}

// SortedIDs returns the keys of an id-keyed map in ascending order
func SortedIDs[V any](m map[entities.EntityID]V) []entities.EntityID {
	keys := make([]entities.EntityID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
