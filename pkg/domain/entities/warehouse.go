package entities

import (
	"fmt"
	"maps"
)

// WarehouseType determines which tier a warehouse stocks
type WarehouseType int

const (
	SupplierWarehouse WarehouseType = iota
	SubassemblyWarehouse
	LamWarehouse
)

// WarehouseTypes lists every warehouse type in generation order
var WarehouseTypes = []WarehouseType{SupplierWarehouse, SubassemblyWarehouse, LamWarehouse}

func (w WarehouseType) String() string {
	switch w {
	case SupplierWarehouse:
		return "supplier"
	case SubassemblyWarehouse:
		return "subassembly"
	case LamWarehouse:
		return "lam"
	default:
		return "unknown"
	}
}

// Warehouse stores parts or product offerings
type Warehouse struct {
	ID              EntityID
	Name            string
	Type            WarehouseType
	Location        string
	SizeCategory    SizeCategory
	MaxCapacity     float64
	CurrentCapacity float64
	SafetyStock     float64
	MaxParts        int
	// Distances maps facility ids to the distance from this warehouse
	Distances map[EntityID]int
}

// NewWarehouse creates a validated, empty Warehouse
func NewWarehouse(id EntityID, name string, wtype WarehouseType, location string, category SizeCategory, maxCapacity, safetyStock float64, maxParts int) (*Warehouse, error) {
	if err := checkID(id, WarehouseNode); err != nil {
		return nil, err
	}
	if location == "" {
		return nil, fmt.Errorf("warehouse location cannot be empty")
	}
	if maxCapacity <= 0 {
		return nil, fmt.Errorf("max capacity must be positive, got %v", maxCapacity)
	}
	if safetyStock < 0 {
		return nil, fmt.Errorf("safety stock cannot be negative, got %v", safetyStock)
	}
	if maxParts <= 0 {
		return nil, fmt.Errorf("max parts must be positive, got %d", maxParts)
	}

	return &Warehouse{
		ID:           id,
		Name:         name,
		Type:         wtype,
		Location:     location,
		SizeCategory: category,
		MaxCapacity:  maxCapacity,
		SafetyStock:  safetyStock,
		MaxParts:     maxParts,
		Distances:    make(map[EntityID]int),
	}, nil
}

// RemainingCapacity returns the space left before reaching max capacity
func (w *Warehouse) RemainingCapacity() float64 {
	return w.MaxCapacity - w.CurrentCapacity
}

// AddStock increases current capacity, refusing to exceed max capacity
func (w *Warehouse) AddStock(quantity float64) error {
	if quantity < 0 {
		return fmt.Errorf("stock quantity cannot be negative, got %v", quantity)
	}
	if w.CurrentCapacity+quantity > w.MaxCapacity {
		return fmt.Errorf("warehouse %s cannot hold %v more units: %v of %v used",
			w.ID, quantity, w.CurrentCapacity, w.MaxCapacity)
	}
	w.CurrentCapacity += quantity
	return nil
}

// Healthy reports whether current stock covers factor times the safety stock
func (w *Warehouse) Healthy(factor float64) bool {
	return w.CurrentCapacity >= factor*w.SafetyStock
}

func (w *Warehouse) NodeID() EntityID   { return w.ID }
func (w *Warehouse) NodeType() NodeType { return WarehouseNode }

func (w *Warehouse) Properties() map[string]any {
	distances := make(map[string]int, len(w.Distances))
	for id, d := range w.Distances {
		distances[string(id)] = d
	}
	return map[string]any{
		"id":               string(w.ID),
		"name":             w.Name,
		"type":             w.Type.String(),
		"location":         w.Location,
		"size_category":    w.SizeCategory.String(),
		"max_capacity":     w.MaxCapacity,
		"current_capacity": w.CurrentCapacity,
		"safety_stock":     w.SafetyStock,
		"max_parts":        w.MaxParts,
		"distances":        distances,
	}
}

func (w *Warehouse) SetAttribute(name string, value float64) error {
	switch name {
	case "current_capacity":
		w.CurrentCapacity = value
	case "max_capacity":
		w.MaxCapacity = value
	case "safety_stock":
		w.SafetyStock = value
	default:
		return unknownAttribute(WarehouseNode, name)
	}
	return nil
}

func (w *Warehouse) CloneNode() Node {
	clone := *w
	clone.Distances = maps.Clone(w.Distances)
	if clone.Distances == nil {
		clone.Distances = make(map[EntityID]int)
	}
	return &clone
}
