package memory

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/domain/repositories"
)

// SnapshotRepository keeps baseline and simulation snapshots in memory
type SnapshotRepository struct {
	mu         sync.RWMutex
	baseline   map[int]*network.Network
	simulation map[int]*network.Network
}

// NewSnapshotRepository creates an empty snapshot repository
func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{
		baseline:   make(map[int]*network.Network),
		simulation: make(map[int]*network.Network),
	}
}

// Verify interface compliance
var _ repositories.SnapshotRepository = (*SnapshotRepository)(nil)

// SaveBaseline stores a copy of n under its timestamp
func (r *SnapshotRepository) SaveBaseline(n *network.Network) error {
	return r.save(r.baseline, n)
}

// Baseline returns a copy of the baseline snapshot at timestamp
func (r *SnapshotRepository) Baseline(timestamp int) (*network.Network, error) {
	return r.get(r.baseline, timestamp, "baseline")
}

// LatestBaseline returns a copy of the baseline snapshot with the highest timestamp
func (r *SnapshotRepository) LatestBaseline() (*network.Network, error) {
	return r.latest(r.baseline, "baseline")
}

// BaselineTimestamps returns the stored baseline timestamps in ascending order
func (r *SnapshotRepository) BaselineTimestamps() []int {
	return r.timestamps(r.baseline)
}

// SaveSimulation stores a copy of n under its timestamp
func (r *SnapshotRepository) SaveSimulation(n *network.Network) error {
	return r.save(r.simulation, n)
}

// Simulation returns a copy of the simulation snapshot at timestamp
func (r *SnapshotRepository) Simulation(timestamp int) (*network.Network, error) {
	return r.get(r.simulation, timestamp, "simulation")
}

// LatestSimulation returns a copy of the simulation snapshot with the highest timestamp
func (r *SnapshotRepository) LatestSimulation() (*network.Network, error) {
	return r.latest(r.simulation, "simulation")
}

// SimulationTimestamps returns the stored simulation timestamps in ascending order
func (r *SnapshotRepository) SimulationTimestamps() []int {
	return r.timestamps(r.simulation)
}

func (r *SnapshotRepository) save(into map[int]*network.Network, n *network.Network) error {
	if n == nil {
		return fmt.Errorf("cannot save a nil snapshot")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	into[n.Timestamp] = n.Clone()
	return nil
}

func (r *SnapshotRepository) get(from map[int]*network.Network, timestamp int, kind string) (*network.Network, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := from[timestamp]
	if !ok {
		return nil, fmt.Errorf("%w: %s at timestamp %d", repositories.ErrSnapshotNotFound, kind, timestamp)
	}
	return n.Clone(), nil
}

func (r *SnapshotRepository) latest(from map[int]*network.Network, kind string) (*network.Network, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(from) == 0 {
		return nil, fmt.Errorf("%w: no %s snapshots", repositories.ErrSnapshotNotFound, kind)
	}
	return from[slices.Max(slices.Collect(maps.Keys(from)))].Clone(), nil
}

func (r *SnapshotRepository) timestamps(from map[int]*network.Network) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(from))
}
