package csv

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
	fixtures "github.com/Surya-0/SCM-Builder/pkg/infrastructure/testing"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExporter_WritesPeriodDirectory(t *testing.T) {
	net, _ := fixtures.BuildFixtureNetwork()
	root := t.TempDir()

	dir, err := NewExporter(root).Export(net)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "20240101"), dir)

	for _, name := range []string{
		"business_group.csv", "product_families.csv", "product_offerings.csv", "suppliers.csv",
		"warehouses.csv", "facilities.csv", "parts.csv", "edges.csv", "metadata.csv",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	parts := readAll(t, filepath.Join(dir, "parts.csv"))
	require.Len(t, parts, 7)
	assert.Equal(t, "id", parts[0][0])
	validTill := fixtures.FixtureDate.AddDate(0, 0, 720).Format(entities.DateLayout)
	assert.Equal(t, []string{"P_001", "Part_1", "raw", "metal_sheet", "10", "0.5", "2024-01-01", validTill, "60", "10"}, parts[1])

	suppliers := readAll(t, filepath.Join(dir, "suppliers.csv"))
	assert.Equal(t, "metal_sheet;chemical", suppliers[1][6])
}

func TestExporter_EdgesAndMetadata(t *testing.T) {
	net, _ := fixtures.BuildFixtureNetwork()
	dir, err := NewExporter(t.TempDir()).Export(net)
	require.NoError(t, err)

	edges := readAll(t, filepath.Join(dir, "edges.csv"))
	require.Len(t, edges, net.EdgeCount()+1)
	assert.Equal(t, []string{"source_id", "target_id", "source_type", "target_type", "edge_type"}, edges[0][:5])

	first := edges[1]
	assert.Equal(t, "S_001", first[0])
	assert.Equal(t, "supplier", first[2])
	assert.Equal(t, "warehouse", first[3])

	metadata := readAll(t, filepath.Join(dir, "metadata.csv"))
	assert.Equal(t, []string{"entity", "count"}, metadata[0])
	assert.Contains(t, metadata, []string{"part", "6"})
	assert.Contains(t, metadata, []string{"edges", strconv.Itoa(net.EdgeCount())})
}

func TestExporter_ExportSeries(t *testing.T) {
	base, _ := fixtures.BuildFixtureNetwork()
	next := base.Clone()
	next.Timestamp = 1
	next.Date = base.Date.AddDate(0, 0, 30)

	root := t.TempDir()
	require.NoError(t, NewExporter(root).ExportSeries([]*network.Network{base, next}))

	assert.DirExists(t, filepath.Join(root, "20240101"))
	assert.DirExists(t, filepath.Join(root, "20240131"))
}
