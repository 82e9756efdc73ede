package entities

import "fmt"

// Node is implemented by every entity stored on the network graph
type Node interface {
	NodeID() EntityID
	NodeType() NodeType
	// Properties returns the full attribute set keyed by attribute name
	Properties() map[string]any
	// SetAttribute overwrites a mutable numeric attribute by name
	SetAttribute(name string, value float64) error
	CloneNode() Node
}

func unknownAttribute(t NodeType, name string) error {
	return fmt.Errorf("%w: %s has no mutable attribute %q", ErrUnknownAttribute, t, name)
}
