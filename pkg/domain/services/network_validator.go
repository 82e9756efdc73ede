package services

import (
	"fmt"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
)

// NetworkValidator checks the structural invariants of a network snapshot
type NetworkValidator struct {
	reliabilityMin float64
	reliabilityMax float64
}

// NewNetworkValidator creates a validator with the accepted reliability band
func NewNetworkValidator(reliabilityMin, reliabilityMax float64) *NetworkValidator {
	return &NetworkValidator{reliabilityMin: reliabilityMin, reliabilityMax: reliabilityMax}
}

// ValidationResult contains the results of network validation
type ValidationResult struct {
	HasCycles         bool
	CyclePaths        [][]entities.EntityID
	OverfullWarehouse []entities.EntityID
	Errors            []string
}

// Valid reports whether no errors were found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate performs every check on the network
func (v *NetworkValidator) Validate(n *network.Network) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:        make([][]entities.EntityID, 0),
		OverfullWarehouse: make([]entities.EntityID, 0),
		Errors:            make([]string, 0),
	}

	if groups := n.NodesOfType(entities.BusinessGroupNode); len(groups) != 1 {
		result.Errors = append(result.Errors, fmt.Sprintf("expected exactly one business group, found %d", len(groups)))
	}

	for _, w := range n.Warehouses() {
		if w.CurrentCapacity > w.MaxCapacity {
			result.OverfullWarehouse = append(result.OverfullWarehouse, w.ID)
			result.Errors = append(result.Errors, fmt.Sprintf("warehouse %s holds %.2f above max capacity %.2f",
				w.ID, w.CurrentCapacity, w.MaxCapacity))
		}

		stocked := 0
		for _, e := range n.OutEdges(w.ID) {
			if e.Kind == entities.WarehouseToPart || e.Kind == entities.WarehouseToProduct {
				stocked++
			}
		}
		if stocked > w.MaxParts {
			result.Errors = append(result.Errors, fmt.Sprintf("warehouse %s stocks %d items, max parts is %d",
				w.ID, stocked, w.MaxParts))
		}
	}

	for _, p := range n.Parts() {
		if !p.ValidFrom.Before(p.ValidTill) {
			result.Errors = append(result.Errors, fmt.Sprintf("part %s validity window is empty", p.ID))
		}
	}

	for _, s := range n.Suppliers() {
		if s.Reliability < v.reliabilityMin || s.Reliability > v.reliabilityMax {
			result.Errors = append(result.Errors, fmt.Sprintf("supplier %s reliability %.3f outside [%.2f, %.2f]",
				s.ID, s.Reliability, v.reliabilityMin, v.reliabilityMax))
		}
	}

	for _, e := range n.Edges() {
		src, _ := n.Node(e.Source)
		dst, _ := n.Node(e.Target)
		srcType, dstType := e.Kind.Endpoints()
		if src == nil || dst == nil || src.NodeType() != srcType || dst.NodeType() != dstType {
			result.Errors = append(result.Errors, fmt.Sprintf("edge %s -> %s does not match kind %s", e.Source, e.Target, e.Kind))
		}
	}

	cycles := v.detectCycles(n)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles
	for _, cycle := range cycles {
		result.Errors = append(result.Errors, fmt.Sprintf("network cycle detected: %v", cycle))
	}

	return result
}

// detectCycles uses DFS to find cycles in the directed graph
func (v *NetworkValidator) detectCycles(n *network.Network) [][]entities.EntityID {
	visited := make(map[entities.EntityID]bool)
	recursionStack := make(map[entities.EntityID]bool)
	cycles := make([][]entities.EntityID, 0)

	for _, node := range n.Nodes() {
		if !visited[node.NodeID()] {
			v.dfsDetectCycle(n, node.NodeID(), visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

func (v *NetworkValidator) dfsDetectCycle(
	n *network.Network,
	current entities.EntityID,
	visited map[entities.EntityID]bool,
	recursionStack map[entities.EntityID]bool,
	path []entities.EntityID,
	cycles *[][]entities.EntityID,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, e := range n.OutEdges(current) {
		child := e.Target
		if !visited[child] {
			v.dfsDetectCycle(n, child, visited, recursionStack, path, cycles)
		} else if recursionStack[child] {
			for i, id := range path {
				if id == child {
					cycle := append([]entities.EntityID{}, path[i:]...)
					cycle = append(cycle, child)
					*cycles = append(*cycles, cycle)
					break
				}
			}
		}
	}

	recursionStack[current] = false
}
