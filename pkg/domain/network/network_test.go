package network

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

var baseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func mustAdd(t *testing.T, n *Network, node entities.Node, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NoError(t, n.AddNode(node))
}

func smallNetwork(t *testing.T) *Network {
	t.Helper()
	n := New(0, baseDate)

	s, err := entities.NewSupplier("S_001", "Supplier_1", "Texas", 0.9, 200, entities.Small, []string{"chemical"})
	mustAdd(t, n, s, err)
	w, err := entities.NewWarehouse("W_001", "Warehouse_1", entities.SupplierWarehouse, "Texas", entities.Small, 10000, 20, 5)
	mustAdd(t, n, w, err)
	p, err := entities.NewPart("P_001", "Part_1", entities.RawPart, "chemical", 12, 0.4, baseDate, baseDate.AddDate(0, 0, 360), 60, 10)
	mustAdd(t, n, p, err)
	sa, err := entities.NewPart("P_002", "Part_2", entities.SubassemblyPart, "circuit_board", 40, 0.7, baseDate, baseDate.AddDate(0, 0, 360), 60, 10)
	mustAdd(t, n, sa, err)
	f, err := entities.NewFacility("F_001", "Facility_1", entities.ExternalFacility, "Texas", 1500, 30)
	mustAdd(t, n, f, err)
	pf, err := entities.NewProductFamily("PF_001", "Coronus", 0)
	mustAdd(t, n, pf, err)
	po, err := entities.NewProductOffering("PO_001", "Coronus®", "Coronus", 50, 100)
	mustAdd(t, n, po, err)

	return n
}

func TestAddNode_RejectsDuplicates(t *testing.T) {
	n := smallNetwork(t)
	f, _ := entities.NewFacility("F_001", "Facility_1", entities.LamFacility, "Texas", 1000, 10)

	err := n.AddNode(f)
	assert.ErrorIs(t, err, entities.ErrDuplicateNode)
	assert.Equal(t, 7, n.NodeCount())
}

func TestAddEdge_Validation(t *testing.T) {
	n := smallNetwork(t)

	route, _ := entities.NewEdge(entities.SupplierToWarehouse, "S_001", "W_001", &entities.SupplyRoute{TransportationCost: 100})
	require.NoError(t, n.AddEdge(route))

	dup, _ := entities.NewEdge(entities.SupplierToWarehouse, "S_001", "W_001", &entities.SupplyRoute{})
	assert.ErrorIs(t, n.AddEdge(dup), entities.ErrDuplicateEdge)

	missing, _ := entities.NewEdge(entities.WarehouseToPart, "W_001", "P_999", &entities.Stock{})
	assert.ErrorIs(t, n.AddEdge(missing), entities.ErrNodeNotFound)

	wrongKind, _ := entities.NewEdge(entities.WarehouseToProduct, "W_001", "P_001", &entities.Stock{})
	assert.ErrorIs(t, n.AddEdge(wrongKind), entities.ErrInvalidEdge)

	assert.Equal(t, 1, n.EdgeCount())
	assert.Len(t, n.OutEdges("S_001"), 1)
	assert.Len(t, n.InEdges("W_001"), 1)
}

func TestClone_IsIndependent(t *testing.T) {
	n := smallNetwork(t)
	stock, _ := entities.NewEdge(entities.WarehouseToPart, "W_001", "P_001", &entities.Stock{InventoryLevel: 800, StorageCost: 20})
	require.NoError(t, n.AddEdge(stock))

	clone := n.Clone()
	require.NoError(t, clone.SetNodeAttribute("W_001", "current_capacity", 900))
	require.NoError(t, clone.SetEdgeAttribute("W_001", "P_001", "inventory_level", 5))

	extra, _ := entities.NewEdge(entities.PartToFacility, "P_001", "F_001", &entities.Transfer{Quantity: 2})
	require.NoError(t, clone.AddEdge(extra))

	w, _ := n.Warehouse("W_001")
	assert.Equal(t, 0.0, w.CurrentCapacity)

	e, _ := n.Edge("W_001", "P_001")
	assert.Equal(t, 800.0, e.Attributes.(*entities.Stock).InventoryLevel)
	assert.Equal(t, 1, n.EdgeCount())
	assert.Equal(t, 2, clone.EdgeCount())
}

func TestTypedAccessors(t *testing.T) {
	n := smallNetwork(t)
	hier, _ := entities.NewEdge(entities.FamilyToOffering, "PF_001", "PO_001", nil)
	require.NoError(t, n.AddEdge(hier))

	assert.Len(t, n.PartsOfType(entities.RawPart), 1)
	assert.Len(t, n.PartsOfType(entities.SubassemblyPart), 1)
	assert.Len(t, n.FacilitiesOfType(entities.LamFacility), 0)
	assert.Nil(t, n.BusinessGroup())

	offerings := n.OfferingsOfFamily("PF_001")
	require.Len(t, offerings, 1)
	assert.Equal(t, entities.EntityID("PO_001"), offerings[0].ID)

	_, err := n.Warehouse("P_001")
	assert.Error(t, err)

	counts := n.CountByType()
	assert.Equal(t, 2, counts[entities.PartNode])
}

func TestTopology_RecordAndClosure(t *testing.T) {
	n := smallNetwork(t)
	topo := NewTopology()

	add := func(kind entities.EdgeKind, src, dst entities.EntityID, attrs entities.EdgeAttributes) {
		e, err := entities.NewEdge(kind, src, dst, attrs)
		require.NoError(t, err)
		require.NoError(t, n.AddEdge(e))
		require.NoError(t, topo.Record(n, e))
	}

	add(entities.SupplierToWarehouse, "S_001", "W_001", &entities.SupplyRoute{})
	add(entities.WarehouseToPart, "W_001", "P_001", &entities.Stock{InventoryLevel: 700})
	add(entities.PartToFacility, "P_001", "F_001", &entities.Transfer{Quantity: 3})
	add(entities.FacilityToPart, "F_001", "P_002", &entities.Production{Quantity: 1})

	assert.Equal(t, []entities.EntityID{"P_001"}, topo.SupplierParts("S_001"))
	assert.Equal(t, []PartQuantity{{Part: "P_001", Quantity: 3}}, topo.ExternalFacilityRawMaterials["F_001"])
	assert.Equal(t, []entities.EntityID{"F_001"}, topo.SubassemblyExternalFacilities["P_002"])

	clone := topo.Clone()
	clone.ExternalFacilityRawMaterials["F_001"][0].Quantity = 9
	assert.Equal(t, entities.Quantity(3), topo.ExternalFacilityRawMaterials["F_001"][0].Quantity)
}

func TestSortedIDs(t *testing.T) {
	m := map[entities.EntityID]int{"P_010": 1, "P_002": 2, "P_001": 3}
	assert.Equal(t, []entities.EntityID{"P_001", "P_002", "P_010"}, SortedIDs(m))
}
