package csv

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
)

// DirLayout names the per-period export directory
const DirLayout = "20060102"

// nodeFiles maps each node type to its file and column order
var nodeFiles = []struct {
	nodeType entities.NodeType
	file     string
	columns  []string
}{
	{entities.BusinessGroupNode, "business_group.csv", []string{"id", "name", "description", "revenue"}},
	{entities.ProductFamilyNode, "product_families.csv", []string{"id", "name", "revenue"}},
	{entities.ProductOfferingNode, "product_offerings.csv", []string{"id", "name", "cost", "demand"}},
	{entities.SupplierNode, "suppliers.csv", []string{"id", "name", "location", "reliability", "size", "size_category", "supplied_part_types"}},
	{entities.WarehouseNode, "warehouses.csv", []string{"id", "name", "type", "location", "size_category", "max_capacity", "current_capacity", "safety_stock", "max_parts", "distances"}},
	{entities.FacilityNode, "facilities.csv", []string{"id", "name", "type", "location", "max_capacity", "operating_cost"}},
	{entities.PartNode, "parts.csv", []string{"id", "name", "type", "subtype", "cost", "importance_factor", "valid_from", "valid_till", "expiry", "units_in_chain"}},
}

// Exporter writes network snapshots as one directory of CSV files per period
type Exporter struct {
	root string
}

// NewExporter creates an exporter writing below root
func NewExporter(root string) *Exporter {
	return &Exporter{root: root}
}

// ExportSeries writes every snapshot in order
func (e *Exporter) ExportSeries(snapshots []*network.Network) error {
	for _, n := range snapshots {
		if _, err := e.Export(n); err != nil {
			return err
		}
	}
	return nil
}

// Export writes the node, edge and metadata files of one snapshot and
// returns the directory it wrote to
func (e *Exporter) Export(n *network.Network) (string, error) {
	dir := filepath.Join(e.root, n.Date.Format(DirLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	for _, nf := range nodeFiles {
		rows := make([][]string, 0)
		for _, node := range n.NodesOfType(nf.nodeType) {
			rows = append(rows, row(node.Properties(), nf.columns))
		}
		if err := writeFile(filepath.Join(dir, nf.file), nf.columns, rows); err != nil {
			return "", err
		}
	}

	if err := e.writeEdges(n, dir); err != nil {
		return "", err
	}
	if err := e.writeMetadata(n, dir); err != nil {
		return "", err
	}

	log.Debug().Str("dir", dir).Int("timestamp", n.Timestamp).Msg("snapshot exported")
	return dir, nil
}

func (e *Exporter) writeEdges(n *network.Network, dir string) error {
	attrs := make(map[string]struct{})
	for _, edge := range n.Edges() {
		for key := range edge.Properties() {
			attrs[key] = struct{}{}
		}
	}
	attrColumns := slices.Sorted(maps.Keys(attrs))
	header := append([]string{"source_id", "target_id", "source_type", "target_type", "edge_type"}, attrColumns...)

	rows := make([][]string, 0, n.EdgeCount())
	for _, edge := range n.Edges() {
		source, _ := n.Node(edge.Source)
		target, _ := n.Node(edge.Target)
		record := []string{
			string(edge.Source),
			string(edge.Target),
			source.NodeType().String(),
			target.NodeType().String(),
			edge.Kind.String(),
		}
		rows = append(rows, append(record, row(edge.Properties(), attrColumns)...))
	}
	return writeFile(filepath.Join(dir, "edges.csv"), header, rows)
}

func (e *Exporter) writeMetadata(n *network.Network, dir string) error {
	counts := n.CountByType()
	rows := make([][]string, 0, len(nodeFiles)+1)
	for _, nf := range nodeFiles {
		rows = append(rows, []string{nf.nodeType.String(), strconv.Itoa(counts[nf.nodeType])})
	}
	rows = append(rows, []string{"edges", strconv.Itoa(n.EdgeCount())})
	return writeFile(filepath.Join(dir, "metadata.csv"), []string{"entity", "count"}, rows)
}

func writeFile(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", path, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// row renders the properties in column order; absent keys are empty cells
func row(props map[string]any, columns []string) []string {
	record := make([]string, len(columns))
	for i, col := range columns {
		if v, ok := props[col]; ok {
			record[i] = formatValue(v)
		}
	}
	return record
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return decimal.NewFromFloat(x).String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case []string:
		return strings.Join(x, ";")
	case map[string]int:
		encoded, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(encoded)
	default:
		return fmt.Sprint(x)
	}
}
