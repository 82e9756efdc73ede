package repositories

import (
	"errors"

	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a timestamp
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository stores published network snapshots by timestamp.
// Stored snapshots are immutable: implementations copy on the way in and
// on the way out.
type SnapshotRepository interface {
	SaveBaseline(n *network.Network) error
	Baseline(timestamp int) (*network.Network, error)
	LatestBaseline() (*network.Network, error)
	BaselineTimestamps() []int

	SaveSimulation(n *network.Network) error
	Simulation(timestamp int) (*network.Network, error)
	LatestSimulation() (*network.Network, error)
	SimulationTimestamps() []int
}
