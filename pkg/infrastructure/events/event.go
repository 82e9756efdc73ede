package events

import (
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

// Action is the kind of change an operation describes
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// SchemaType is the entity kind carried by every operation record
const SchemaType = "schema"

// Payload describes the node or edge an operation applies to
type Payload struct {
	NodeID     entities.EntityID `json:"node_id,omitempty"`
	NodeType   string            `json:"node_type,omitempty"`
	SourceID   entities.EntityID `json:"source_id,omitempty"`
	TargetID   entities.EntityID `json:"target_id,omitempty"`
	EdgeType   string            `json:"edge_type,omitempty"`
	Properties map[string]any    `json:"properties"`
}

// Operation is one replayable create or update record
type Operation struct {
	Action    Action  `json:"action"`
	Type      string  `json:"type"`
	Payload   Payload `json:"payload"`
	Timestamp int     `json:"timestamp"`
	Version   string  `json:"version"`
}

// IsEdge reports whether the operation targets an edge
func (o Operation) IsEdge() bool {
	return o.Payload.EdgeType != ""
}

// Handler receives operations as they are appended to a log
type Handler interface {
	Handle(op Operation) error
	CanHandle(action Action) bool
}

// Recorder is the write side used by generation, projection and propagation
type Recorder interface {
	SetTimestamp(timestamp int)
	NodeCreated(node entities.Node)
	NodeUpdated(id entities.EntityID, nodeType entities.NodeType, changes map[string]any)
	EdgeCreated(edge *entities.Edge)
	EdgeUpdated(edge *entities.Edge, changes map[string]any)
}

// Tee fans every recorded change out to several recorders
func Tee(recorders ...Recorder) Recorder {
	return tee(recorders)
}

type tee []Recorder

func (t tee) SetTimestamp(timestamp int) {
	for _, r := range t {
		r.SetTimestamp(timestamp)
	}
}

func (t tee) NodeCreated(node entities.Node) {
	for _, r := range t {
		r.NodeCreated(node)
	}
}

func (t tee) NodeUpdated(id entities.EntityID, nodeType entities.NodeType, changes map[string]any) {
	for _, r := range t {
		r.NodeUpdated(id, nodeType, changes)
	}
}

func (t tee) EdgeCreated(edge *entities.Edge) {
	for _, r := range t {
		r.EdgeCreated(edge)
	}
}

func (t tee) EdgeUpdated(edge *entities.Edge, changes map[string]any) {
	for _, r := range t {
		r.EdgeUpdated(edge, changes)
	}
}

// Discard is a recorder that drops every change
var Discard Recorder = discard{}

type discard struct{}

func (discard) SetTimestamp(int) {}
func (discard) NodeCreated(entities.Node) {}
func (discard) NodeUpdated(entities.EntityID, entities.NodeType, map[string]any) {}
func (discard) EdgeCreated(*entities.Edge) {}
func (discard) EdgeUpdated(*entities.Edge, map[string]any) {}
