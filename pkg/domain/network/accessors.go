package network

import (
	"fmt"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

func nodesAs[T entities.Node](n *Network, t entities.NodeType) []T {
	var result []T
	for _, id := range n.nodeOrder {
		if typed, ok := n.nodes[id].(T); ok && n.nodes[id].NodeType() == t {
			result = append(result, typed)
		}
	}
	return result
}

func nodeAs[T entities.Node](n *Network, id entities.EntityID) (T, error) {
	var zero T
	node, ok := n.nodes[id]
	if !ok {
		return zero, fmt.Errorf("%w: %s", entities.ErrNodeNotFound, id)
	}
	typed, ok := node.(T)
	if !ok {
		return zero, fmt.Errorf("node %s is a %s, not %T", id, node.NodeType(), zero)
	}
	return typed, nil
}

// BusinessGroup returns the single business group, or nil before generation
func (n *Network) BusinessGroup() *entities.BusinessGroup {
	groups := nodesAs[*entities.BusinessGroup](n, entities.BusinessGroupNode)
	if len(groups) == 0 {
		return nil
	}
	return groups[0]
}

func (n *Network) ProductFamilies() []*entities.ProductFamily {
	return nodesAs[*entities.ProductFamily](n, entities.ProductFamilyNode)
}

func (n *Network) ProductOfferings() []*entities.ProductOffering {
	return nodesAs[*entities.ProductOffering](n, entities.ProductOfferingNode)
}

func (n *Network) Suppliers() []*entities.Supplier {
	return nodesAs[*entities.Supplier](n, entities.SupplierNode)
}

func (n *Network) Warehouses() []*entities.Warehouse {
	return nodesAs[*entities.Warehouse](n, entities.WarehouseNode)
}

func (n *Network) Facilities() []*entities.Facility {
	return nodesAs[*entities.Facility](n, entities.FacilityNode)
}

func (n *Network) Parts() []*entities.Part {
	return nodesAs[*entities.Part](n, entities.PartNode)
}

// WarehousesOfType filters warehouses by type
func (n *Network) WarehousesOfType(t entities.WarehouseType) []*entities.Warehouse {
	var result []*entities.Warehouse
	for _, w := range n.Warehouses() {
		if w.Type == t {
			result = append(result, w)
		}
	}
	return result
}

// FacilitiesOfType filters facilities by type
func (n *Network) FacilitiesOfType(t entities.FacilityType) []*entities.Facility {
	var result []*entities.Facility
	for _, f := range n.Facilities() {
		if f.Type == t {
			result = append(result, f)
		}
	}
	return result
}

// PartsOfType filters parts by type
func (n *Network) PartsOfType(t entities.PartType) []*entities.Part {
	var result []*entities.Part
	for _, p := range n.Parts() {
		if p.Type == t {
			result = append(result, p)
		}
	}
	return result
}

func (n *Network) ProductFamily(id entities.EntityID) (*entities.ProductFamily, error) {
	return nodeAs[*entities.ProductFamily](n, id)
}

func (n *Network) ProductOffering(id entities.EntityID) (*entities.ProductOffering, error) {
	return nodeAs[*entities.ProductOffering](n, id)
}

func (n *Network) Supplier(id entities.EntityID) (*entities.Supplier, error) {
	return nodeAs[*entities.Supplier](n, id)
}

func (n *Network) Warehouse(id entities.EntityID) (*entities.Warehouse, error) {
	return nodeAs[*entities.Warehouse](n, id)
}

func (n *Network) Facility(id entities.EntityID) (*entities.Facility, error) {
	return nodeAs[*entities.Facility](n, id)
}

func (n *Network) Part(id entities.EntityID) (*entities.Part, error) {
	return nodeAs[*entities.Part](n, id)
}

// OfferingsOfFamily returns the offerings connected below a product family
func (n *Network) OfferingsOfFamily(familyID entities.EntityID) []*entities.ProductOffering {
	var result []*entities.ProductOffering
	for _, e := range n.OutEdges(familyID) {
		if e.Kind != entities.FamilyToOffering {
			continue
		}
		if offering, err := n.ProductOffering(e.Target); err == nil {
			result = append(result, offering)
		}
	}
	return result
}
