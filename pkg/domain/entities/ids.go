package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityID is a typed prefix plus a zero-padded sequence number, e.g. W_012
type EntityID string

// Quantity represents an integer quantity value for discrete units
type Quantity int64

// NodeType identifies the kind of entity a node holds
type NodeType int

const (
	BusinessGroupNode NodeType = iota
	ProductFamilyNode
	ProductOfferingNode
	SupplierNode
	WarehouseNode
	FacilityNode
	PartNode
)

// NodeTypes lists every node type in export order
var NodeTypes = []NodeType{
	BusinessGroupNode,
	ProductFamilyNode,
	ProductOfferingNode,
	SupplierNode,
	WarehouseNode,
	FacilityNode,
	PartNode,
}

// String returns the lower-case node type used on graph snapshots
func (t NodeType) String() string {
	switch t {
	case BusinessGroupNode:
		return "business_group"
	case ProductFamilyNode:
		return "product_family"
	case ProductOfferingNode:
		return "product_offering"
	case SupplierNode:
		return "supplier"
	case WarehouseNode:
		return "warehouse"
	case FacilityNode:
		return "facility"
	case PartNode:
		return "part"
	default:
		return "unknown"
	}
}

// SchemaName returns the node type name used in operation records
func (t NodeType) SchemaName() string {
	switch t {
	case BusinessGroupNode:
		return "BUSINESS_GROUP"
	case ProductFamilyNode:
		return "PRODUCT_FAMILY"
	case ProductOfferingNode:
		return "PRODUCT_OFFERING"
	case SupplierNode:
		return "SUPPLIERS"
	case WarehouseNode:
		return "WAREHOUSE"
	case FacilityNode:
		return "FACILITY"
	case PartNode:
		return "PARTS"
	default:
		return "UNKNOWN"
	}
}

// Prefix returns the identifier prefix for the node type
func (t NodeType) Prefix() string {
	switch t {
	case BusinessGroupNode:
		return "BG"
	case ProductFamilyNode:
		return "PF"
	case ProductOfferingNode:
		return "PO"
	case SupplierNode:
		return "S"
	case WarehouseNode:
		return "W"
	case FacilityNode:
		return "F"
	case PartNode:
		return "P"
	default:
		return ""
	}
}

// NewEntityID formats an identifier for the given node type and sequence number
func NewEntityID(t NodeType, seq int) EntityID {
	return EntityID(fmt.Sprintf("%s_%03d", t.Prefix(), seq))
}

// ParseEntityID splits an identifier into its node type and sequence number
func ParseEntityID(id EntityID) (NodeType, int, error) {
	s := string(id)
	idx := strings.LastIndex(s, "_")
	if idx <= 0 || idx == len(s)-1 {
		return 0, 0, fmt.Errorf("malformed entity id %q", s)
	}

	prefix := s[:idx]
	seq, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed entity id %q: %w", s, err)
	}

	for _, t := range NodeTypes {
		if t.Prefix() == prefix {
			return t, seq, nil
		}
	}

	return 0, 0, fmt.Errorf("unknown entity prefix %q in id %q", prefix, s)
}

// checkID verifies that an identifier carries the prefix of the expected node type
func checkID(id EntityID, expected NodeType) error {
	if id == "" {
		return fmt.Errorf("%s id cannot be empty", expected)
	}
	t, _, err := ParseEntityID(id)
	if err != nil {
		return err
	}
	if t != expected {
		return fmt.Errorf("id %s does not identify a %s", id, expected)
	}
	return nil
}
