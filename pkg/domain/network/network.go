// Package network holds the directed supply-chain graph and its derived indices.
package network

import (
	"fmt"
	"time"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

type edgeKey struct {
	source entities.EntityID
	target entities.EntityID
}

// Network is a directed graph of typed entities. Nodes and edges keep insertion
// order so that every traversal, and therefore every random draw, is repeatable.
type Network struct {
	Timestamp int
	Date      time.Time

	nodes     map[entities.EntityID]entities.Node
	nodeOrder []entities.EntityID

	edges     []*entities.Edge
	edgeIndex map[edgeKey]int
	outgoing  map[entities.EntityID][]int
	incoming  map[entities.EntityID][]int
}

// New creates an empty network for the given timestamp
func New(timestamp int, date time.Time) *Network {
	return &Network{
		Timestamp: timestamp,
		Date:      date,
		nodes:     make(map[entities.EntityID]entities.Node),
		edgeIndex: make(map[edgeKey]int),
		outgoing:  make(map[entities.EntityID][]int),
		incoming:  make(map[entities.EntityID][]int),
	}
}

// AddNode inserts a node, rejecting duplicate identifiers
func (n *Network) AddNode(node entities.Node) error {
	id := node.NodeID()
	if _, exists := n.nodes[id]; exists {
		return fmt.Errorf("%w: %s", entities.ErrDuplicateNode, id)
	}
	n.nodes[id] = node
	n.nodeOrder = append(n.nodeOrder, id)
	return nil
}

// Node returns the node with the given identifier
func (n *Network) Node(id entities.EntityID) (entities.Node, bool) {
	node, ok := n.nodes[id]
	return node, ok
}

// HasNode reports whether the identifier exists on the graph
func (n *Network) HasNode(id entities.EntityID) bool {
	_, ok := n.nodes[id]
	return ok
}

// Nodes returns every node in insertion order
func (n *Network) Nodes() []entities.Node {
	result := make([]entities.Node, 0, len(n.nodeOrder))
	for _, id := range n.nodeOrder {
		result = append(result, n.nodes[id])
	}
	return result
}

// NodesOfType returns the nodes of one type in insertion order
func (n *Network) NodesOfType(t entities.NodeType) []entities.Node {
	var result []entities.Node
	for _, id := range n.nodeOrder {
		if node := n.nodes[id]; node.NodeType() == t {
			result = append(result, node)
		}
	}
	return result
}

// NodeCount returns the number of nodes
func (n *Network) NodeCount() int {
	return len(n.nodeOrder)
}

// EdgeCount returns the number of edges
func (n *Network) EdgeCount() int {
	return len(n.edges)
}

// AddEdge inserts an edge whose endpoints exist and match the edge kind
func (n *Network) AddEdge(edge *entities.Edge) error {
	src, ok := n.nodes[edge.Source]
	if !ok {
		return fmt.Errorf("%w: edge source %s", entities.ErrNodeNotFound, edge.Source)
	}
	dst, ok := n.nodes[edge.Target]
	if !ok {
		return fmt.Errorf("%w: edge target %s", entities.ErrNodeNotFound, edge.Target)
	}

	srcType, dstType := edge.Kind.Endpoints()
	if src.NodeType() != srcType || dst.NodeType() != dstType {
		return fmt.Errorf("%w: %s cannot connect %s to %s",
			entities.ErrInvalidEdge, edge.Kind, src.NodeType(), dst.NodeType())
	}

	key := edgeKey{edge.Source, edge.Target}
	if _, exists := n.edgeIndex[key]; exists {
		return fmt.Errorf("%w: %s -> %s", entities.ErrDuplicateEdge, edge.Source, edge.Target)
	}

	idx := len(n.edges)
	n.edges = append(n.edges, edge)
	n.edgeIndex[key] = idx
	n.outgoing[edge.Source] = append(n.outgoing[edge.Source], idx)
	n.incoming[edge.Target] = append(n.incoming[edge.Target], idx)
	return nil
}

// Edge returns the edge between two nodes
func (n *Network) Edge(source, target entities.EntityID) (*entities.Edge, bool) {
	idx, ok := n.edgeIndex[edgeKey{source, target}]
	if !ok {
		return nil, false
	}
	return n.edges[idx], true
}

// Edges returns every edge in insertion order
func (n *Network) Edges() []*entities.Edge {
	result := make([]*entities.Edge, len(n.edges))
	copy(result, n.edges)
	return result
}

// EdgesOfKind returns the edges of one kind in insertion order
func (n *Network) EdgesOfKind(kind entities.EdgeKind) []*entities.Edge {
	var result []*entities.Edge
	for _, e := range n.edges {
		if e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

// OutEdges returns edges leaving a node
func (n *Network) OutEdges(id entities.EntityID) []*entities.Edge {
	return n.collect(n.outgoing[id])
}

// InEdges returns edges entering a node
func (n *Network) InEdges(id entities.EntityID) []*entities.Edge {
	return n.collect(n.incoming[id])
}

func (n *Network) collect(indices []int) []*entities.Edge {
	result := make([]*entities.Edge, 0, len(indices))
	for _, idx := range indices {
		result = append(result, n.edges[idx])
	}
	return result
}

// SetNodeAttribute overwrites a mutable node attribute by name
func (n *Network) SetNodeAttribute(id entities.EntityID, name string, value float64) error {
	node, ok := n.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", entities.ErrNodeNotFound, id)
	}
	return node.SetAttribute(name, value)
}

// SetEdgeAttribute overwrites a mutable edge attribute by name
func (n *Network) SetEdgeAttribute(source, target entities.EntityID, name string, value float64) error {
	edge, ok := n.Edge(source, target)
	if !ok {
		return fmt.Errorf("%w: %s -> %s", entities.ErrEdgeNotFound, source, target)
	}
	return edge.Attributes.SetAttribute(name, value)
}

// Clone returns a deep copy that shares no mutable state with the receiver
func (n *Network) Clone() *Network {
	clone := &Network{
		Timestamp: n.Timestamp,
		Date:      n.Date,
		nodes:     make(map[entities.EntityID]entities.Node, len(n.nodes)),
		nodeOrder: make([]entities.EntityID, len(n.nodeOrder)),
		edges:     make([]*entities.Edge, len(n.edges)),
		edgeIndex: make(map[edgeKey]int, len(n.edgeIndex)),
		outgoing:  make(map[entities.EntityID][]int, len(n.outgoing)),
		incoming:  make(map[entities.EntityID][]int, len(n.incoming)),
	}

	copy(clone.nodeOrder, n.nodeOrder)
	for id, node := range n.nodes {
		clone.nodes[id] = node.CloneNode()
	}
	for i, e := range n.edges {
		clone.edges[i] = e.Clone()
	}
	for k, v := range n.edgeIndex {
		clone.edgeIndex[k] = v
	}
	for id, idx := range n.outgoing {
		clone.outgoing[id] = append([]int(nil), idx...)
	}
	for id, idx := range n.incoming {
		clone.incoming[id] = append([]int(nil), idx...)
	}

	return clone
}

// CountByType returns the number of nodes per node type
func (n *Network) CountByType() map[entities.NodeType]int {
	counts := make(map[entities.NodeType]int, len(entities.NodeTypes))
	for _, node := range n.nodes {
		counts[node.NodeType()]++
	}
	return counts
}
