package entities

import (
	"fmt"
	"time"
)

// DateLayout is the calendar format used for part validity dates
const DateLayout = "2006-01-02"

// PartType distinguishes raw materials from subassemblies
type PartType int

const (
	RawPart PartType = iota
	SubassemblyPart
)

// PartTypes lists every part type in generation order
var PartTypes = []PartType{RawPart, SubassemblyPart}

func (p PartType) String() string {
	switch p {
	case RawPart:
		return "raw"
	case SubassemblyPart:
		return "subassembly"
	default:
		return "unknown"
	}
}

// Part is a raw material or an intermediate subassembly
type Part struct {
	ID               EntityID
	Name             string
	Type             PartType
	Subtype          string
	Cost             float64
	ImportanceFactor float64
	ValidFrom        time.Time
	ValidTill        time.Time
	Expiry           int
	UnitsInChain     Quantity
}

// NewPart creates a validated Part
func NewPart(id EntityID, name string, ptype PartType, subtype string, cost, importance float64, validFrom, validTill time.Time, expiry int, unitsInChain Quantity) (*Part, error) {
	if err := checkID(id, PartNode); err != nil {
		return nil, err
	}
	if subtype == "" {
		return nil, fmt.Errorf("part subtype cannot be empty")
	}
	if cost < 0 {
		return nil, fmt.Errorf("part cost cannot be negative, got %v", cost)
	}
	if importance <= 0 || importance > 1 {
		return nil, fmt.Errorf("importance factor must be in (0,1], got %v", importance)
	}
	if !validFrom.Before(validTill) {
		return nil, fmt.Errorf("valid from %s must be before valid till %s",
			validFrom.Format(DateLayout), validTill.Format(DateLayout))
	}
	if unitsInChain < 0 {
		return nil, fmt.Errorf("units in chain cannot be negative, got %d", unitsInChain)
	}

	return &Part{
		ID:               id,
		Name:             name,
		Type:             ptype,
		Subtype:          subtype,
		Cost:             cost,
		ImportanceFactor: importance,
		ValidFrom:        validFrom,
		ValidTill:        validTill,
		Expiry:           expiry,
		UnitsInChain:     unitsInChain,
	}, nil
}

// IsRaw reports whether the part is a raw material
func (p *Part) IsRaw() bool {
	return p.Type == RawPart
}

func (p *Part) NodeID() EntityID   { return p.ID }
func (p *Part) NodeType() NodeType { return PartNode }

func (p *Part) Properties() map[string]any {
	return map[string]any{
		"id":                string(p.ID),
		"name":              p.Name,
		"type":              p.Type.String(),
		"subtype":           p.Subtype,
		"cost":              p.Cost,
		"importance_factor": p.ImportanceFactor,
		"valid_from":        p.ValidFrom.Format(DateLayout),
		"valid_till":        p.ValidTill.Format(DateLayout),
		"expiry":            p.Expiry,
		"units_in_chain":    int64(p.UnitsInChain),
	}
}

func (p *Part) SetAttribute(name string, value float64) error {
	switch name {
	case "cost":
		p.Cost = value
	case "importance_factor":
		p.ImportanceFactor = value
	case "units_in_chain":
		p.UnitsInChain = Quantity(value)
	default:
		return unknownAttribute(PartNode, name)
	}
	return nil
}

func (p *Part) CloneNode() Node {
	clone := *p
	return &clone
}
