package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
	"github.com/Surya-0/SCM-Builder/pkg/application/services/generation"
	"github.com/Surya-0/SCM-Builder/pkg/application/services/manager"
	"github.com/Surya-0/SCM-Builder/pkg/application/services/optimizer"
	"github.com/Surya-0/SCM-Builder/pkg/application/services/propagation"
	"github.com/Surya-0/SCM-Builder/pkg/application/services/scenario"
	"github.com/Surya-0/SCM-Builder/pkg/application/services/temporal"
	"github.com/Surya-0/SCM-Builder/pkg/config"
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	"github.com/Surya-0/SCM-Builder/pkg/domain/repositories"
	domain "github.com/Surya-0/SCM-Builder/pkg/domain/services"
	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// ErrNotGenerated is returned when an operation needs a generated network
var ErrNotGenerated = errors.New("no network generated")

// SupplyChainService ties generation, projection, simulation and the
// collaborator features together over one snapshot repository. All
// randomness is drawn from a single seeded stream, so a run is reproducible
// as long as operations are called in the same order.
type SupplyChainService struct {
	cfg       *config.Config
	rnd       *domain.Random
	snapshots repositories.SnapshotRepository
	demands   repositories.DemandRepository

	projector *temporal.Projector
	engine    *propagation.Engine

	baselineLog   *events.Log
	simulationLog *events.Log

	topo        *network.Topology
	bottlenecks *dto.Bottlenecks
	aggregates  dto.Aggregates
	last        *dto.SimulationResult
}

// NewSupplyChainService creates a service seeded from cfg.Seed
func NewSupplyChainService(cfg *config.Config, snapshots repositories.SnapshotRepository, demands repositories.DemandRepository) *SupplyChainService {
	rnd := domain.NewRandom(cfg.Seed)
	return &SupplyChainService{
		cfg:           cfg,
		rnd:           rnd,
		snapshots:     snapshots,
		demands:       demands,
		projector:     temporal.NewProjector(cfg, rnd),
		engine:        propagation.NewEngineWithConfig(propagation.EngineConfig{BottleneckFactor: cfg.BottleneckFactor}),
		baselineLog:   events.NewLog(events.BaselineLog, cfg.Version),
		simulationLog: events.NewLog(events.SimulationLog, cfg.Version),
		bottlenecks:   dto.NewBottlenecks(),
		aggregates:    make(dto.Aggregates),
	}
}

// BaselineLog returns the log of generation, projection and manager changes
func (s *SupplyChainService) BaselineLog() *events.Log {
	return s.baselineLog
}

// SimulationLog returns the log of propagation, disaster and optimizer changes
func (s *SupplyChainService) SimulationLog() *events.Log {
	return s.simulationLog
}

// Topology returns the wiring indices of the current network
func (s *SupplyChainService) Topology() *network.Topology {
	return s.topo
}

// Bottlenecks returns every bottleneck found so far, merged across runs
func (s *SupplyChainService) Bottlenecks() *dto.Bottlenecks {
	return s.bottlenecks
}

// Aggregates returns the aggregate maps of every simulated timestamp
func (s *SupplyChainService) Aggregates() dto.Aggregates {
	return s.aggregates
}

// Generate builds the period 0 network, projects the remaining periods and
// stores every period as a baseline snapshot.
func (s *SupplyChainService) Generate(ctx context.Context) (*generation.Result, error) {
	result, err := generation.NewGenerator(s.cfg, s.rnd).Generate(ctx, s.baselineLog)
	if err != nil {
		return nil, fmt.Errorf("failed to generate network: %w", err)
	}

	validation := domain.NewNetworkValidator(s.cfg.Ranges.Reliability.Min, s.cfg.Ranges.Reliability.Max).Validate(result.Network)
	if !validation.Valid() {
		return nil, fmt.Errorf("generated network is invalid: %s", strings.Join(validation.Errors, "; "))
	}

	series, err := s.projector.Series(result.Network, s.cfg.Periods, s.baselineLog)
	if err != nil {
		return nil, fmt.Errorf("failed to project periods: %w", err)
	}
	for _, snapshot := range series {
		if err := s.snapshots.SaveBaseline(snapshot); err != nil {
			return nil, fmt.Errorf("failed to save period %d: %w", snapshot.Timestamp, err)
		}
	}

	s.topo = result.Topology
	log.Info().Int("periods", len(series)).Int("operations", s.baselineLog.Len()).Msg("baseline stored")
	return result, nil
}

// PlaceOrders stores offering demands that override the network demand in
// later simulations
func (s *SupplyChainService) PlaceOrders(orders []*entities.DemandOrder) error {
	if err := s.demands.LoadDemands(orders); err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	return nil
}

// SimulateStatic propagates the period 0 values once, over the structure of
// the latest baseline snapshot
func (s *SupplyChainService) SimulateStatic(ctx context.Context) (*dto.SimulationResult, error) {
	base, err := s.simulationBase()
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Simulate(ctx, base, s.topo, 0, s.simulationLog)
	if err != nil {
		return nil, fmt.Errorf("failed to run static simulation: %w", err)
	}
	if err := s.record(result); err != nil {
		return nil, err
	}
	return result, nil
}

// SimulateTemporal propagates every configured period, varying the period 0
// inputs over the structure of the latest baseline snapshot
func (s *SupplyChainService) SimulateTemporal(ctx context.Context) ([]*dto.SimulationResult, error) {
	base, err := s.simulationBase()
	if err != nil {
		return nil, err
	}

	runner := propagation.NewTemporalRunner(s.cfg, s.engine, s.projector.Model())
	results, _, err := runner.Run(ctx, base, s.topo, s.simulationLog)
	if err != nil {
		return nil, fmt.Errorf("failed to run temporal simulation: %w", err)
	}
	for _, result := range results {
		if err := s.record(result); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// ApplyDisaster perturbs the most recent simulation snapshot. A static
// simulation runs first when nothing has been simulated yet.
func (s *SupplyChainService) ApplyDisaster(ctx context.Context, d scenario.Disaster) (*scenario.Result, error) {
	if s.last == nil {
		if _, err := s.SimulateStatic(ctx); err != nil {
			return nil, err
		}
	}

	result, err := scenario.NewSimulator(s.engine, s.rnd).Apply(ctx, s.last, s.topo, d, s.simulationLog)
	if err != nil {
		return nil, err
	}
	if err := s.record(result.After); err != nil {
		return nil, err
	}
	return result, nil
}

// OptimizeStorage allocates the demand of the most recent simulation snapshot
// to lam warehouses and stores the booked stock under the same timestamp
func (s *SupplyChainService) OptimizeStorage(ctx context.Context) (*dto.AllocationResult, error) {
	if s.last == nil {
		if _, err := s.SimulateStatic(ctx); err != nil {
			return nil, err
		}
	}

	snapshot := s.last.Network.Clone()
	s.simulationLog.SetTimestamp(snapshot.Timestamp)
	allocation, err := optimizer.NewStorageOptimizer().Optimize(snapshot, s.topo, s.simulationLog)
	if err != nil {
		return nil, fmt.Errorf("failed to optimize storage: %w", err)
	}
	if !allocation.Optimal() {
		return allocation, nil
	}

	if err := s.snapshots.SaveSimulation(snapshot); err != nil {
		return nil, fmt.Errorf("failed to save optimized snapshot: %w", err)
	}
	s.last.Network = snapshot
	return allocation, nil
}

// Extend adds a batch of entities to the latest baseline snapshot and
// replaces it in the repository
func (s *SupplyChainService) Extend(batch manager.Batch) (*manager.Result, error) {
	latest, err := s.latestBaseline()
	if err != nil {
		return nil, err
	}

	result, err := manager.NewManager(s.cfg, s.rnd).Apply(latest, s.topo, batch, s.baselineLog)
	if err != nil {
		return nil, err
	}
	if err := s.snapshots.SaveBaseline(result.Network); err != nil {
		return nil, fmt.Errorf("failed to save extended snapshot: %w", err)
	}
	s.topo = result.Topology
	return result, nil
}

// NextPeriod projects one period past the latest baseline snapshot. Values
// vary from period 0 while the structure follows the latest snapshot, so
// entities added by Extend carry forward.
func (s *SupplyChainService) NextPeriod() (*network.Network, error) {
	latest, err := s.latestBaseline()
	if err != nil {
		return nil, err
	}
	base, err := s.snapshots.Baseline(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotGenerated, err)
	}

	next, err := s.projector.ProjectOnto(base, latest, latest.Timestamp+1, s.baselineLog)
	if err != nil {
		return nil, fmt.Errorf("failed to project next period: %w", err)
	}
	if err := s.snapshots.SaveBaseline(next); err != nil {
		return nil, fmt.Errorf("failed to save period %d: %w", next.Timestamp, err)
	}
	return next, nil
}

// UnhealthyWarehouses lists the warehouses of the latest baseline snapshot
// whose stock is below factor times their safety stock
func (s *SupplyChainService) UnhealthyWarehouses(factor float64) ([]*entities.Warehouse, error) {
	latest, err := s.latestBaseline()
	if err != nil {
		return nil, err
	}
	var unhealthy []*entities.Warehouse
	for _, w := range latest.Warehouses() {
		if !w.Healthy(factor) {
			unhealthy = append(unhealthy, w)
		}
	}
	return unhealthy, nil
}

func (s *SupplyChainService) latestBaseline() (*network.Network, error) {
	if s.topo == nil {
		return nil, ErrNotGenerated
	}
	latest, err := s.snapshots.LatestBaseline()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotGenerated, err)
	}
	return latest, nil
}

// simulationBase returns the period 0 values laid over the latest baseline
// structure, with placed orders applied
func (s *SupplyChainService) simulationBase() (*network.Network, error) {
	latest, err := s.latestBaseline()
	if err != nil {
		return nil, err
	}
	first, err := s.snapshots.Baseline(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotGenerated, err)
	}
	base := s.projector.Rebase(first, latest)

	orders, err := s.demands.GetDemands()
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	for _, order := range orders {
		po, err := base.ProductOffering(order.OfferingID)
		if err != nil {
			return nil, fmt.Errorf("failed to apply order: %w", err)
		}
		po.Demand = order.Demand
	}
	return base, nil
}

func (s *SupplyChainService) record(result *dto.SimulationResult) error {
	if err := s.snapshots.SaveSimulation(result.Network); err != nil {
		return fmt.Errorf("failed to save simulation %d: %w", result.Timestamp, err)
	}
	s.bottlenecks.Merge(result.Bottlenecks)
	s.aggregates[result.Timestamp] = result.Aggregates
	s.last = result
	return nil
}
