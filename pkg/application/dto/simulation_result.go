package dto

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
)

// Bottleneck is one flagged demand against aggregate capacity
type Bottleneck struct {
	Timestamp         int     `json:"timestamp"`
	Demand            float64 `json:"demand"`
	AggregateCapacity float64 `json:"aggregate_capacity"`
	BottleneckFactor  float64 `json:"bottleneck_factor"`
}

// Ratio returns demand over aggregate capacity
func (b Bottleneck) Ratio() float64 {
	if b.AggregateCapacity == 0 {
		return 0
	}
	return b.Demand / b.AggregateCapacity
}

// BottleneckReport is keyed by timestamp, then by entity id. Entries are
// only ever added.
type BottleneckReport map[int]map[entities.EntityID]Bottleneck

// Add records a bottleneck for id at b.Timestamp
func (r BottleneckReport) Add(id entities.EntityID, b Bottleneck) {
	if r[b.Timestamp] == nil {
		r[b.Timestamp] = make(map[entities.EntityID]Bottleneck)
	}
	r[b.Timestamp][id] = b
}

// Merge adds every entry of other
func (r BottleneckReport) Merge(other BottleneckReport) {
	for _, entries := range other {
		for id, b := range entries {
			r.Add(id, b)
		}
	}
}

// Has reports whether id was flagged at timestamp
func (r BottleneckReport) Has(timestamp int, id entities.EntityID) bool {
	_, ok := r[timestamp][id]
	return ok
}

// Count returns the number of flagged entries over all timestamps
func (r BottleneckReport) Count() int {
	total := 0
	for _, entries := range r {
		total += len(entries)
	}
	return total
}

// Bottlenecks holds the two detection tiers
type Bottlenecks struct {
	// Subassembly compares subassembly demand with external facility capacity
	Subassembly BottleneckReport `json:"subassembly"`
	// Offering compares offering demand with lam facility capacity
	Offering BottleneckReport `json:"product_offering"`
}

// NewBottlenecks creates empty reports for both tiers
func NewBottlenecks() *Bottlenecks {
	return &Bottlenecks{
		Subassembly: make(BottleneckReport),
		Offering:    make(BottleneckReport),
	}
}

// Merge adds both tiers of other
func (b *Bottlenecks) Merge(other *Bottlenecks) {
	b.Subassembly.Merge(other.Subassembly)
	b.Offering.Merge(other.Offering)
}

// AggregateSet holds the demand and cost dictionaries of one propagation run
type AggregateSet struct {
	OfferingDemand    map[entities.EntityID]float64 `json:"product_offering_demand"`
	OfferingCost      map[entities.EntityID]float64 `json:"product_offering_cost"`
	SubassemblyDemand map[entities.EntityID]float64 `json:"subassembly_demand"`
	SubassemblyCost   map[entities.EntityID]float64 `json:"subassembly_cost"`
	RawDemand         map[entities.EntityID]float64 `json:"raw_material_demand"`
	RawCost           map[entities.EntityID]float64 `json:"raw_material_cost"`
}

// Aggregates is keyed by timestamp
type Aggregates map[int]AggregateSet

// Timestamps returns the recorded timestamps in ascending order
func (a Aggregates) Timestamps() []int {
	return slices.Sorted(maps.Keys(a))
}

// SimulationResult is the outcome of one propagation run
type SimulationResult struct {
	RunID       uuid.UUID
	Timestamp   int
	Network     *network.Network
	Aggregates  AggregateSet
	Bottlenecks *Bottlenecks
	ComputedAt  time.Time
}

// Allocation statuses reported by the storage optimizer
const (
	StatusOptimal    = "Optimal"
	StatusInfeasible = "Infeasible"
	StatusUnbounded  = "Unbounded"
	StatusNotSolved  = "Not Solved"
)

// AllocationResult is the outcome of a storage allocation run. Allocations
// are keyed by warehouse, then by offering.
type AllocationResult struct {
	Status      string                                              `json:"status"`
	Allocations map[entities.EntityID]map[entities.EntityID]float64 `json:"allocations,omitempty"`
	Objective   float64                                             `json:"objective"`
	// Unallocated lists offerings with demand but no lam warehouse
	Unallocated []entities.EntityID                                 `json:"unallocated,omitempty"`
}

// Optimal reports whether the allocation was applied
func (r *AllocationResult) Optimal() bool {
	return r.Status == StatusOptimal
}
