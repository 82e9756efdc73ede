package entities

import "fmt"

// FacilityType distinguishes subassembly production from final assembly
type FacilityType int

const (
	// ExternalFacility converts raw materials into a subassembly
	ExternalFacility FacilityType = iota
	// LamFacility converts subassemblies into a product offering
	LamFacility
)

// FacilityTypes lists every facility type in generation order
var FacilityTypes = []FacilityType{ExternalFacility, LamFacility}

func (f FacilityType) String() string {
	switch f {
	case ExternalFacility:
		return "external"
	case LamFacility:
		return "lam"
	default:
		return "unknown"
	}
}

// Facility is a production site
type Facility struct {
	ID            EntityID
	Name          string
	Type          FacilityType
	Location      string
	MaxCapacity   float64
	OperatingCost float64
}

// NewFacility creates a validated Facility
func NewFacility(id EntityID, name string, ftype FacilityType, location string, maxCapacity, operatingCost float64) (*Facility, error) {
	if err := checkID(id, FacilityNode); err != nil {
		return nil, err
	}
	if location == "" {
		return nil, fmt.Errorf("facility location cannot be empty")
	}
	if maxCapacity < 0 {
		return nil, fmt.Errorf("max capacity cannot be negative, got %v", maxCapacity)
	}
	if operatingCost < 0 {
		return nil, fmt.Errorf("operating cost cannot be negative, got %v", operatingCost)
	}

	return &Facility{
		ID:            id,
		Name:          name,
		Type:          ftype,
		Location:      location,
		MaxCapacity:   maxCapacity,
		OperatingCost: operatingCost,
	}, nil
}

func (f *Facility) NodeID() EntityID   { return f.ID }
func (f *Facility) NodeType() NodeType { return FacilityNode }

func (f *Facility) Properties() map[string]any {
	return map[string]any{
		"id":             string(f.ID),
		"name":           f.Name,
		"type":           f.Type.String(),
		"location":       f.Location,
		"max_capacity":   f.MaxCapacity,
		"operating_cost": f.OperatingCost,
	}
}

func (f *Facility) SetAttribute(name string, value float64) error {
	switch name {
	case "max_capacity":
		f.MaxCapacity = value
	case "operating_cost":
		f.OperatingCost = value
	default:
		return unknownAttribute(FacilityNode, name)
	}
	return nil
}

func (f *Facility) CloneNode() Node {
	clone := *f
	return &clone
}
