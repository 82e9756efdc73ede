package entities

import "fmt"

// BusinessGroup is the single root of the business hierarchy
type BusinessGroup struct {
	ID          EntityID
	Name        string
	Description string
	// Revenue holds the propagated cost rollup after a simulation
	Revenue float64
}

// NewBusinessGroup creates a validated BusinessGroup
func NewBusinessGroup(id EntityID, name, description string, revenue float64) (*BusinessGroup, error) {
	if err := checkID(id, BusinessGroupNode); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("business group name cannot be empty")
	}
	return &BusinessGroup{ID: id, Name: name, Description: description, Revenue: revenue}, nil
}

func (b *BusinessGroup) NodeID() EntityID   { return b.ID }
func (b *BusinessGroup) NodeType() NodeType { return BusinessGroupNode }

func (b *BusinessGroup) Properties() map[string]any {
	return map[string]any{
		"id":          string(b.ID),
		"name":        b.Name,
		"description": b.Description,
		"revenue":     b.Revenue,
	}
}

func (b *BusinessGroup) SetAttribute(name string, value float64) error {
	switch name {
	case "revenue":
		b.Revenue = value
	default:
		return unknownAttribute(BusinessGroupNode, name)
	}
	return nil
}

func (b *BusinessGroup) CloneNode() Node {
	clone := *b
	return &clone
}

// ProductFamily groups product offerings by name membership
type ProductFamily struct {
	ID      EntityID
	Name    string
	Revenue float64
}

// NewProductFamily creates a validated ProductFamily
func NewProductFamily(id EntityID, name string, revenue float64) (*ProductFamily, error) {
	if err := checkID(id, ProductFamilyNode); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("product family name cannot be empty")
	}
	return &ProductFamily{ID: id, Name: name, Revenue: revenue}, nil
}

func (f *ProductFamily) NodeID() EntityID   { return f.ID }
func (f *ProductFamily) NodeType() NodeType { return ProductFamilyNode }

func (f *ProductFamily) Properties() map[string]any {
	return map[string]any{
		"id":      string(f.ID),
		"name":    f.Name,
		"revenue": f.Revenue,
	}
}

func (f *ProductFamily) SetAttribute(name string, value float64) error {
	switch name {
	case "revenue":
		f.Revenue = value
	default:
		return unknownAttribute(ProductFamilyNode, name)
	}
	return nil
}

func (f *ProductFamily) CloneNode() Node {
	clone := *f
	return &clone
}

// ProductOffering is a finished product sold under a family
type ProductOffering struct {
	ID     EntityID
	Name   string
	Family string
	Cost   float64
	Demand float64
}

// NewProductOffering creates a validated ProductOffering
func NewProductOffering(id EntityID, name, family string, cost, demand float64) (*ProductOffering, error) {
	if err := checkID(id, ProductOfferingNode); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("product offering name cannot be empty")
	}
	if demand < 0 {
		return nil, fmt.Errorf("demand cannot be negative, got %v", demand)
	}
	return &ProductOffering{ID: id, Name: name, Family: family, Cost: cost, Demand: demand}, nil
}

func (o *ProductOffering) NodeID() EntityID   { return o.ID }
func (o *ProductOffering) NodeType() NodeType { return ProductOfferingNode }

func (o *ProductOffering) Properties() map[string]any {
	return map[string]any{
		"id":     string(o.ID),
		"name":   o.Name,
		"cost":   o.Cost,
		"demand": o.Demand,
	}
}

func (o *ProductOffering) SetAttribute(name string, value float64) error {
	switch name {
	case "cost":
		o.Cost = value
	case "demand":
		o.Demand = value
	default:
		return unknownAttribute(ProductOfferingNode, name)
	}
	return nil
}

func (o *ProductOffering) CloneNode() Node {
	clone := *o
	return &clone
}
