package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
)

// aggregateFiles names the six aggregate dictionaries
var aggregateFiles = []struct {
	name string
	pick func(dto.AggregateSet) any
}{
	{"product_offering_demand", func(s dto.AggregateSet) any { return s.OfferingDemand }},
	{"product_offering_cost", func(s dto.AggregateSet) any { return s.OfferingCost }},
	{"subassembly_demand", func(s dto.AggregateSet) any { return s.SubassemblyDemand }},
	{"subassembly_cost", func(s dto.AggregateSet) any { return s.SubassemblyCost }},
	{"raw_material_demand", func(s dto.AggregateSet) any { return s.RawDemand }},
	{"raw_material_cost", func(s dto.AggregateSet) any { return s.RawCost }},
}

// WriteAggregates writes one JSON document keyed by dictionary name, then by
// timestamp, then by entity id
func WriteAggregates(path string, aggregates dto.Aggregates) error {
	doc := make(map[string]map[string]any, len(aggregateFiles))
	for _, af := range aggregateFiles {
		byTimestamp := make(map[string]any, len(aggregates))
		for _, ts := range aggregates.Timestamps() {
			byTimestamp[strconv.Itoa(ts)] = af.pick(aggregates[ts])
		}
		doc[af.name] = byTimestamp
	}
	return writeJSON(path, doc)
}

// WriteBottlenecks writes the subassembly and offering reports
func WriteBottlenecks(path string, b *dto.Bottlenecks) error {
	if b == nil {
		b = dto.NewBottlenecks()
	}
	return writeJSON(path, b)
}

// ReadBottlenecks reads a file written by WriteBottlenecks
func ReadBottlenecks(path string) (*dto.Bottlenecks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	b := dto.NewBottlenecks()
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return b, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
