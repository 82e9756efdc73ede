package entities

import "fmt"

// EdgeKind identifies a connection kind and its attribute bundle
type EdgeKind int

const (
	SupplierToWarehouse EdgeKind = iota
	WarehouseToPart
	PartToFacility
	FacilityToPart
	FacilityToProduct
	WarehouseToProduct
	GroupToFamily
	FamilyToOffering
)

// EdgeKinds lists every connection kind
var EdgeKinds = []EdgeKind{
	SupplierToWarehouse,
	WarehouseToPart,
	PartToFacility,
	FacilityToPart,
	FacilityToProduct,
	WarehouseToProduct,
	GroupToFamily,
	FamilyToOffering,
}

// String returns the edge type name used in operation records
func (k EdgeKind) String() string {
	switch k {
	case SupplierToWarehouse:
		return "SUPPLIERSToWAREHOUSE"
	case WarehouseToPart:
		return "WAREHOUSEToPARTS"
	case PartToFacility:
		return "PARTSToFACILITY"
	case FacilityToPart:
		return "FACILITYToPARTS"
	case FacilityToProduct:
		return "FACILITYToPRODUCT_OFFERING"
	case WarehouseToProduct:
		return "WAREHOUSEToPRODUCT_OFFERING"
	case GroupToFamily:
		return "BUSINESS_GROUPToPRODUCT_FAMILY"
	case FamilyToOffering:
		return "PRODUCT_FAMILYToPRODUCT_OFFERING"
	default:
		return "UNKNOWN"
	}
}

// Endpoints returns the node types an edge of this kind connects
func (k EdgeKind) Endpoints() (NodeType, NodeType) {
	switch k {
	case SupplierToWarehouse:
		return SupplierNode, WarehouseNode
	case WarehouseToPart:
		return WarehouseNode, PartNode
	case PartToFacility:
		return PartNode, FacilityNode
	case FacilityToPart:
		return FacilityNode, PartNode
	case FacilityToProduct:
		return FacilityNode, ProductOfferingNode
	case WarehouseToProduct:
		return WarehouseNode, ProductOfferingNode
	case GroupToFamily:
		return BusinessGroupNode, ProductFamilyNode
	default:
		return ProductFamilyNode, ProductOfferingNode
	}
}

// EdgeAttributes is the typed payload carried by an edge
type EdgeAttributes interface {
	Properties() map[string]any
	SetAttribute(name string, value float64) error
	CloneAttributes() EdgeAttributes
}

// SupplyRoute is the payload of supplier to warehouse edges
type SupplyRoute struct {
	TransportationCost float64
	LeadTime           float64
}

func (r *SupplyRoute) Properties() map[string]any {
	return map[string]any{"transportation_cost": r.TransportationCost, "lead_time": r.LeadTime}
}

func (r *SupplyRoute) SetAttribute(name string, value float64) error {
	switch name {
	case "transportation_cost":
		r.TransportationCost = value
	case "lead_time":
		r.LeadTime = value
	default:
		return fmt.Errorf("%w: supply route has no attribute %q", ErrUnknownAttribute, name)
	}
	return nil
}

func (r *SupplyRoute) CloneAttributes() EdgeAttributes { c := *r; return &c }

// Stock is the payload of warehouse to part and warehouse to product edges
type Stock struct {
	InventoryLevel float64
	StorageCost    float64
}

func (s *Stock) Properties() map[string]any {
	return map[string]any{"inventory_level": s.InventoryLevel, "storage_cost": s.StorageCost}
}

func (s *Stock) SetAttribute(name string, value float64) error {
	switch name {
	case "inventory_level":
		s.InventoryLevel = value
	case "storage_cost":
		s.StorageCost = value
	default:
		return fmt.Errorf("%w: stock has no attribute %q", ErrUnknownAttribute, name)
	}
	return nil
}

func (s *Stock) CloneAttributes() EdgeAttributes { c := *s; return &c }

// Transfer is the payload of part to facility edges
type Transfer struct {
	Quantity      Quantity
	Distance      int
	TransportCost float64
	LeadTime      float64
}

func (t *Transfer) Properties() map[string]any {
	return map[string]any{
		"quantity":       int64(t.Quantity),
		"distance":       t.Distance,
		"transport_cost": t.TransportCost,
		"lead_time":      t.LeadTime,
	}
}

func (t *Transfer) SetAttribute(name string, value float64) error {
	switch name {
	case "quantity":
		t.Quantity = Quantity(value)
	case "transport_cost":
		t.TransportCost = value
	case "lead_time":
		t.LeadTime = value
	default:
		return fmt.Errorf("%w: transfer has no attribute %q", ErrUnknownAttribute, name)
	}
	return nil
}

func (t *Transfer) CloneAttributes() EdgeAttributes { c := *t; return &c }

// Production is the payload of facility to part edges
type Production struct {
	ProductionCost float64
	LeadTime       float64
	Quantity       Quantity
}

func (p *Production) Properties() map[string]any {
	return map[string]any{
		"production_cost": p.ProductionCost,
		"lead_time":       p.LeadTime,
		"quantity":        int64(p.Quantity),
	}
}

func (p *Production) SetAttribute(name string, value float64) error {
	switch name {
	case "production_cost":
		p.ProductionCost = value
	case "lead_time":
		p.LeadTime = value
	case "quantity":
		p.Quantity = Quantity(value)
	default:
		return fmt.Errorf("%w: production has no attribute %q", ErrUnknownAttribute, name)
	}
	return nil
}

func (p *Production) CloneAttributes() EdgeAttributes { c := *p; return &c }

// Assembly is the payload of facility to product offering edges
type Assembly struct {
	ProductCost float64
	LeadTime    float64
	Quantity    Quantity
}

func (a *Assembly) Properties() map[string]any {
	return map[string]any{
		"product_cost": a.ProductCost,
		"lead_time":    a.LeadTime,
		"quantity":     int64(a.Quantity),
	}
}

func (a *Assembly) SetAttribute(name string, value float64) error {
	switch name {
	case "product_cost":
		a.ProductCost = value
	case "lead_time":
		a.LeadTime = value
	case "quantity":
		a.Quantity = Quantity(value)
	default:
		return fmt.Errorf("%w: assembly has no attribute %q", ErrUnknownAttribute, name)
	}
	return nil
}

func (a *Assembly) CloneAttributes() EdgeAttributes { c := *a; return &c }

// Hierarchy is the empty payload of business hierarchy edges
type Hierarchy struct{}

func (Hierarchy) Properties() map[string]any { return map[string]any{} }

func (Hierarchy) SetAttribute(name string, _ float64) error {
	return fmt.Errorf("%w: hierarchy edges carry no attribute %q", ErrUnknownAttribute, name)
}

func (Hierarchy) CloneAttributes() EdgeAttributes { return Hierarchy{} }

// Edge is a directed connection between two nodes
type Edge struct {
	Source     EntityID
	Target     EntityID
	Kind       EdgeKind
	Attributes EdgeAttributes
}

// NewEdge creates an edge after checking the payload matches the connection kind
func NewEdge(kind EdgeKind, source, target EntityID, attrs EdgeAttributes) (*Edge, error) {
	if source == "" || target == "" {
		return nil, fmt.Errorf("%w: endpoints cannot be empty", ErrInvalidEdge)
	}
	if source == target {
		return nil, fmt.Errorf("%w: self loop on %s", ErrInvalidEdge, source)
	}

	var ok bool
	switch kind {
	case SupplierToWarehouse:
		_, ok = attrs.(*SupplyRoute)
	case WarehouseToPart, WarehouseToProduct:
		_, ok = attrs.(*Stock)
	case PartToFacility:
		_, ok = attrs.(*Transfer)
	case FacilityToPart:
		_, ok = attrs.(*Production)
	case FacilityToProduct:
		_, ok = attrs.(*Assembly)
	case GroupToFamily, FamilyToOffering:
		if attrs == nil {
			attrs = Hierarchy{}
		}
		_, ok = attrs.(Hierarchy)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a valid payload for %s", ErrInvalidEdge, attrs, kind)
	}

	return &Edge{Source: source, Target: target, Kind: kind, Attributes: attrs}, nil
}

// Properties returns the payload attributes of the edge
func (e *Edge) Properties() map[string]any {
	if e.Attributes == nil {
		return map[string]any{}
	}
	return e.Attributes.Properties()
}

// Clone returns a deep copy of the edge
func (e *Edge) Clone() *Edge {
	clone := *e
	if e.Attributes != nil {
		clone.Attributes = e.Attributes.CloneAttributes()
	}
	return &clone
}
