package generation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/domain/services"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// Result is the period 0 network together with its wiring indices
type Result struct {
	Network      *network.Network
	Topology     *network.Topology
	Distribution Distribution
}

// Generator builds a complete supply chain network from a configuration
type Generator struct {
	cfg *config.Config
	rnd *services.Random
}

// NewGenerator creates a generator drawing from the given random stream
func NewGenerator(cfg *config.Config, rnd *services.Random) *Generator {
	return &Generator{cfg: cfg, rnd: rnd}
}

// Generate creates every entity, wires the topology and logs each creation
// to rec at timestamp 0.
func (g *Generator) Generate(ctx context.Context, rec events.Recorder) (*Result, error) {
	dist, err := CalculateDistribution(g.cfg)
	if err != nil {
		return nil, err
	}

	rec.SetTimestamp(0)
	net := network.New(0, g.cfg.PeriodDate(0))
	factory := NewEntityFactory(g.cfg, g.rnd, net, rec)

	creators := []struct {
		name string
		run  func() error
	}{
		{"business hierarchy", factory.CreateBusinessHierarchy},
		{"suppliers", func() error { return factory.CreateSuppliers(dist) }},
		{"warehouses", func() error { return factory.CreateWarehouses(dist) }},
		{"facilities", func() error { return factory.CreateFacilities(dist) }},
		{"parts", func() error { return factory.CreateParts(dist) }},
	}
	for _, c := range creators {
		if err := c.run(); err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", c.name, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topo, err := NewTopologyBuilder(g.cfg, g.rnd, net, rec).Build()
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("nodes", net.NodeCount()).
		Int("edges", net.EdgeCount()).
		Int("variable_nodes", dist.Total()).
		Msg("supply chain network generated")

	return &Result{Network: net, Topology: topo, Distribution: dist}, nil
}
