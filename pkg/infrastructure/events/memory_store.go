package events

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

const (
	BaselineLog   = "baseline"
	SimulationLog = "simulation"
)

// DefaultBatchSize is the number of operations per export batch
const DefaultBatchSize = 1000

// Log is an append-only operation log partitioned by timestamp
type Log struct {
	name        string
	version     string
	timestamp   int
	operations  []Operation
	creates     map[int][]Operation
	updates     map[int][]Operation
	subscribers []Handler
	mutex       sync.RWMutex
}

// NewLog creates an empty log stamping operations with the given version
func NewLog(name, version string) *Log {
	return &Log{
		name:       name,
		version:    version,
		operations: make([]Operation, 0),
		creates:    make(map[int][]Operation),
		updates:    make(map[int][]Operation),
	}
}

// Name returns the log name
func (l *Log) Name() string {
	return l.name
}

// SetTimestamp sets the timestamp stamped on subsequent operations
func (l *Log) SetTimestamp(timestamp int) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.timestamp = timestamp
}

// Timestamp returns the current timestamp
func (l *Log) Timestamp() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.timestamp
}

func (l *Log) NodeCreated(node entities.Node) {
	l.append(ActionCreate, Payload{
		NodeID:     node.NodeID(),
		NodeType:   node.NodeType().SchemaName(),
		Properties: node.Properties(),
	})
}

func (l *Log) NodeUpdated(id entities.EntityID, nodeType entities.NodeType, changes map[string]any) {
	l.append(ActionUpdate, Payload{
		NodeID:     id,
		NodeType:   nodeType.SchemaName(),
		Properties: maps.Clone(changes),
	})
}

func (l *Log) EdgeCreated(edge *entities.Edge) {
	l.append(ActionCreate, Payload{
		SourceID:   edge.Source,
		TargetID:   edge.Target,
		EdgeType:   edge.Kind.String(),
		Properties: edge.Properties(),
	})
}

func (l *Log) EdgeUpdated(edge *entities.Edge, changes map[string]any) {
	l.append(ActionUpdate, Payload{
		SourceID:   edge.Source,
		TargetID:   edge.Target,
		EdgeType:   edge.Kind.String(),
		Properties: maps.Clone(changes),
	})
}

func (l *Log) append(action Action, payload Payload) {
	l.mutex.Lock()
	op := Operation{
		Action:    action,
		Type:      SchemaType,
		Payload:   payload,
		Timestamp: l.timestamp,
		Version:   l.version,
	}

	l.operations = append(l.operations, op)
	if action == ActionCreate {
		l.creates[op.Timestamp] = append(l.creates[op.Timestamp], op)
	} else {
		l.updates[op.Timestamp] = append(l.updates[op.Timestamp], op)
	}
	handlers := slices.Clone(l.subscribers)
	l.mutex.Unlock()

	l.notifySubscribers(handlers, op)
}

// Operations returns every operation in append order
func (l *Log) Operations() []Operation {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return slices.Clone(l.operations)
}

// Len returns the number of operations
func (l *Log) Len() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return len(l.operations)
}

// Creates returns the create operations partitioned by timestamp
func (l *Log) Creates() map[int][]Operation {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return clonePartition(l.creates)
}

// Updates returns the update operations partitioned by timestamp
func (l *Log) Updates() map[int][]Operation {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return clonePartition(l.updates)
}

// Timestamps returns every timestamp holding at least one operation, ascending
func (l *Log) Timestamps() []int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	seen := make(map[int]bool)
	for ts := range l.creates {
		seen[ts] = true
	}
	for ts := range l.updates {
		seen[ts] = true
	}
	result := slices.Collect(maps.Keys(seen))
	slices.Sort(result)
	return result
}

// Subscribe registers a handler notified synchronously on every append
func (l *Log) Subscribe(handler Handler) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.subscribers = append(l.subscribers, handler)
}

// Unsubscribe removes a previously registered handler
func (l *Log) Unsubscribe(handler Handler) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.subscribers = slices.DeleteFunc(l.subscribers, func(h Handler) bool { return h == handler })
}

func (l *Log) notifySubscribers(handlers []Handler, op Operation) {
	for _, handler := range handlers {
		if !handler.CanHandle(op.Action) {
			continue
		}
		if err := handler.Handle(op); err != nil {
			log.Warn().Err(err).Str("log", l.name).Str("action", string(op.Action)).Msg("operation handler failed")
		}
	}
}

// Batch is a replayable group of operations sharing a timestamp and action.
// The id depends only on the batch position, so a retried batch keeps its id.
type Batch struct {
	ID         uuid.UUID   `json:"id"`
	Log        string      `json:"log"`
	Action     Action      `json:"action"`
	Timestamp  int         `json:"timestamp"`
	Sequence   int         `json:"sequence"`
	Version    string      `json:"version"`
	Operations []Operation `json:"operations"`
}

// Batches splits the log into batches of at most size operations, ordered by
// timestamp with creates before updates.
func (l *Log) Batches(size int) ([]Batch, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", size)
	}

	creates := l.Creates()
	updates := l.Updates()

	var batches []Batch
	for _, ts := range l.Timestamps() {
		for _, part := range []struct {
			action Action
			ops    []Operation
		}{{ActionCreate, creates[ts]}, {ActionUpdate, updates[ts]}} {
			for seq, ops := range chunk(part.ops, size) {
				batches = append(batches, Batch{
					ID:         batchID(l.name, l.version, ts, part.action, seq),
					Log:        l.name,
					Action:     part.action,
					Timestamp:  ts,
					Sequence:   seq,
					Version:    l.version,
					Operations: ops,
				})
			}
		}
	}

	return batches, nil
}

func batchID(name, version string, timestamp int, action Action, seq int) uuid.UUID {
	key := fmt.Sprintf("%s/%s/%d/%s/%d", name, version, timestamp, action, seq)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}

func chunk(ops []Operation, size int) [][]Operation {
	var result [][]Operation
	for start := 0; start < len(ops); start += size {
		end := min(start+size, len(ops))
		result = append(result, ops[start:end])
	}
	return result
}

func clonePartition(p map[int][]Operation) map[int][]Operation {
	result := make(map[int][]Operation, len(p))
	for ts, ops := range p {
		result[ts] = slices.Clone(ops)
	}
	return result
}
