package propagation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// DefaultBottleneckFactor is the detection threshold used when none is configured
const DefaultBottleneckFactor = 0.01

// EngineConfig holds configuration for the propagation engine
type EngineConfig struct {
	// BottleneckFactor is the demand over capacity ratio above which a tier is flagged
	BottleneckFactor float64
}

// Engine propagates demand down and cost up the supply chain
type Engine struct {
	config EngineConfig
}

// NewEngine creates an engine with the default bottleneck factor
func NewEngine() *Engine {
	return NewEngineWithConfig(EngineConfig{BottleneckFactor: DefaultBottleneckFactor})
}

// NewEngineWithConfig creates an engine with custom configuration
func NewEngineWithConfig(config EngineConfig) *Engine {
	if config.BottleneckFactor <= 0 {
		config.BottleneckFactor = DefaultBottleneckFactor
	}
	return &Engine{config: config}
}

// BottleneckFactor returns the configured detection threshold
func (e *Engine) BottleneckFactor() float64 {
	return e.config.BottleneckFactor
}

// Simulate propagates over a private copy of base tagged with timestamp.
// The base network is not modified.
func (e *Engine) Simulate(ctx context.Context, base *network.Network, topo *network.Topology, timestamp int, rec events.Recorder) (*dto.SimulationResult, error) {
	if rec == nil {
		rec = events.Discard
	}
	snapshot := base.Clone()
	snapshot.Timestamp = timestamp
	rec.SetTimestamp(timestamp)

	return e.Run(ctx, NewContext(snapshot, topo, rec))
}

// Run executes demand propagation, bottleneck detection and cost
// propagation over the context's network
func (e *Engine) Run(ctx context.Context, c *Context) (*dto.SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := propagateDemand(c); err != nil {
		return nil, err
	}

	bottlenecks := DetectBottlenecks(c, e.config.BottleneckFactor)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := propagateCost(c); err != nil {
		return nil, fmt.Errorf("failed to propagate cost: %w", err)
	}

	log.Debug().
		Int("timestamp", c.Timestamp).
		Int("subassembly_bottlenecks", bottlenecks.Subassembly.Count()).
		Int("offering_bottlenecks", bottlenecks.Offering.Count()).
		Msg("propagation complete")

	return &dto.SimulationResult{
		RunID:       uuid.New(),
		Timestamp:   c.Timestamp,
		Network:     c.Network,
		Aggregates:  c.Aggregates(),
		Bottlenecks: bottlenecks,
		ComputedAt:  time.Now(),
	}, nil
}
