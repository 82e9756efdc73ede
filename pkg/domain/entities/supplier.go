package entities

import (
	"fmt"
	"slices"
)

// SizeCategory buckets suppliers and warehouses by size
type SizeCategory int

const (
	Small SizeCategory = iota
	Medium
	Large
)

// SizeCategories lists every size bucket in ascending order
var SizeCategories = []SizeCategory{Small, Medium, Large}

func (s SizeCategory) String() string {
	switch s {
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	default:
		return "unknown"
	}
}

// ParseSizeCategory returns the size bucket with the given name
func ParseSizeCategory(name string) (SizeCategory, error) {
	for _, s := range SizeCategories {
		if s.String() == name {
			return s, nil
		}
	}
	return Small, fmt.Errorf("invalid size category: %s (expected: small, medium, or large)", name)
}

// Supplier provides raw or subassembly parts to warehouses
type Supplier struct {
	ID                EntityID
	Name              string
	Location          string
	Reliability       float64
	Size              int
	SizeCategory      SizeCategory
	SuppliedPartTypes []string
}

// NewSupplier creates a validated Supplier
func NewSupplier(id EntityID, name, location string, reliability float64, size int, category SizeCategory, supplied []string) (*Supplier, error) {
	if err := checkID(id, SupplierNode); err != nil {
		return nil, err
	}
	if location == "" {
		return nil, fmt.Errorf("supplier location cannot be empty")
	}
	if reliability <= 0 || reliability > 1 {
		return nil, fmt.Errorf("reliability must be in (0,1], got %v", reliability)
	}
	if size <= 0 {
		return nil, fmt.Errorf("supplier size must be positive, got %d", size)
	}
	if len(supplied) == 0 {
		return nil, fmt.Errorf("supplier %s must supply at least one part type", id)
	}

	return &Supplier{
		ID:                id,
		Name:              name,
		Location:          location,
		Reliability:       reliability,
		Size:              size,
		SizeCategory:      category,
		SuppliedPartTypes: slices.Clone(supplied),
	}, nil
}

// Supplies reports whether the supplier provides any of the given subtypes
func (s *Supplier) Supplies(subtypes []string) bool {
	for _, t := range s.SuppliedPartTypes {
		if slices.Contains(subtypes, t) {
			return true
		}
	}
	return false
}

func (s *Supplier) NodeID() EntityID   { return s.ID }
func (s *Supplier) NodeType() NodeType { return SupplierNode }

func (s *Supplier) Properties() map[string]any {
	return map[string]any{
		"id":                  string(s.ID),
		"name":                s.Name,
		"location":            s.Location,
		"reliability":         s.Reliability,
		"size":                s.Size,
		"size_category":       s.SizeCategory.String(),
		"supplied_part_types": slices.Clone(s.SuppliedPartTypes),
	}
}

func (s *Supplier) SetAttribute(name string, value float64) error {
	switch name {
	case "reliability":
		s.Reliability = value
	default:
		return unknownAttribute(SupplierNode, name)
	}
	return nil
}

func (s *Supplier) CloneNode() Node {
	clone := *s
	clone.SuppliedPartTypes = slices.Clone(s.SuppliedPartTypes)
	return &clone
}
