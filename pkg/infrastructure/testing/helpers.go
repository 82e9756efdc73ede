package testing

import (
	"time"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/network"
)

// FixtureDate is the period 0 date of every fixture network
var FixtureDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// BuildFixtureNetwork builds a small supply chain whose propagated values are
// exact:
//
//	PO_001 (demand 100) <- F_003 (cap 300), F_004 (cap 100)
//	PO_002 (demand 60)  <- F_005 (cap 200)
//	F_003 <- P_005 x2, P_006 x1; F_004 <- P_005 x1; F_005 <- P_006 x3
//	P_005 <- F_001 (cap 1000), F_002 (cap 750); P_006 has no producer
//	F_001 <- P_001 x2, P_002 x1; F_002 <- P_003 x3, P_004 x1
func BuildFixtureNetwork() (*network.Network, *network.Topology) {
	net := network.New(0, FixtureDate)
	topo := network.NewTopology()
	validTill := FixtureDate.AddDate(0, 0, 30*24)

	nodes := []entities.Node{
		must(entities.NewBusinessGroup("BG_001", "Etch", "Etch business group", 150)),
		must(entities.NewProductFamily("PF_001", "Kyo", 120)),
		must(entities.NewProductFamily("PF_002", "Flex", 80)),
		must(entities.NewProductOffering("PO_001", "Kyo® C Series", "Kyo", 50, 100)),
		must(entities.NewProductOffering("PO_002", "Flex® D Series", "Flex", 30, 60)),
		must(entities.NewSupplier("S_001", "Supplier_1", "Texas", 0.9, 450, entities.Medium, []string{"metal_sheet", "chemical"})),
		must(entities.NewWarehouse("W_001", "Warehouse_1", entities.SupplierWarehouse, "Texas", entities.Small, 12000, 800, 5)),
		must(entities.NewWarehouse("W_002", "Warehouse_2", entities.SubassemblyWarehouse, "Oregon", entities.Small, 11000, 900, 5)),
		must(entities.NewWarehouse("W_003", "Warehouse_3", entities.LamWarehouse, "Arizona", entities.Small, 1000, 700, 5)),
		must(entities.NewWarehouse("W_004", "Warehouse_4", entities.LamWarehouse, "Arizona", entities.Small, 500, 700, 5)),
		must(entities.NewFacility("F_001", "Facility_1", entities.ExternalFacility, "Texas", 1000, 50)),
		must(entities.NewFacility("F_002", "Facility_2", entities.ExternalFacility, "Oregon", 750, 30)),
		must(entities.NewFacility("F_003", "Facility_3", entities.LamFacility, "Arizona", 300, 100)),
		must(entities.NewFacility("F_004", "Facility_4", entities.LamFacility, "Arizona", 100, 20)),
		must(entities.NewFacility("F_005", "Facility_5", entities.LamFacility, "Texas", 200, 40)),
		must(entities.NewPart("P_001", "Part_1", entities.RawPart, "metal_sheet", 10, 0.5, FixtureDate, validTill, 60, 10)),
		must(entities.NewPart("P_002", "Part_2", entities.RawPart, "chemical", 20, 0.5, FixtureDate, validTill, 60, 10)),
		must(entities.NewPart("P_003", "Part_3", entities.RawPart, "metal_rod", 5, 0.5, FixtureDate, validTill, 60, 10)),
		must(entities.NewPart("P_004", "Part_4", entities.RawPart, "plastic_component", 8, 0.5, FixtureDate, validTill, 60, 10)),
		must(entities.NewPart("P_005", "Part_5", entities.SubassemblyPart, "circuit_board", 100, 0.8, FixtureDate, validTill, 90, 15)),
		must(entities.NewPart("P_006", "Part_6", entities.SubassemblyPart, "power_unit", 40, 0.8, FixtureDate, validTill, 90, 15)),
	}
	for _, node := range nodes {
		if err := net.AddNode(node); err != nil {
			panic(err)
		}
	}

	edges := []*entities.Edge{
		must(entities.NewEdge(entities.SupplierToWarehouse, "S_001", "W_001", &entities.SupplyRoute{TransportationCost: 250, LeadTime: 5})),
		must(entities.NewEdge(entities.WarehouseToPart, "W_001", "P_001", &entities.Stock{InventoryLevel: 900, StorageCost: 15})),
		must(entities.NewEdge(entities.WarehouseToPart, "W_002", "P_005", &entities.Stock{InventoryLevel: 800, StorageCost: 25})),

		transfer("P_001", "F_001", 2),
		transfer("P_002", "F_001", 1),
		must(entities.NewEdge(entities.FacilityToPart, "F_001", "P_005", &entities.Production{ProductionCost: 60, LeadTime: 7, Quantity: 2})),
		transfer("P_003", "F_002", 3),
		transfer("P_004", "F_002", 1),
		must(entities.NewEdge(entities.FacilityToPart, "F_002", "P_005", &entities.Production{ProductionCost: 45, LeadTime: 9, Quantity: 1})),

		transfer("P_005", "F_003", 2),
		transfer("P_006", "F_003", 1),
		must(entities.NewEdge(entities.FacilityToProduct, "F_003", "PO_001", &entities.Assembly{ProductCost: 120, LeadTime: 12, Quantity: 1})),
		transfer("P_005", "F_004", 1),
		must(entities.NewEdge(entities.FacilityToProduct, "F_004", "PO_001", &entities.Assembly{ProductCost: 140, LeadTime: 10, Quantity: 1})),
		transfer("P_006", "F_005", 3),
		must(entities.NewEdge(entities.FacilityToProduct, "F_005", "PO_002", &entities.Assembly{ProductCost: 90, LeadTime: 8, Quantity: 2})),

		must(entities.NewEdge(entities.WarehouseToProduct, "W_003", "PO_001", &entities.Stock{InventoryLevel: 0, StorageCost: 2})),
		must(entities.NewEdge(entities.WarehouseToProduct, "W_004", "PO_001", &entities.Stock{InventoryLevel: 0, StorageCost: 5})),
		must(entities.NewEdge(entities.WarehouseToProduct, "W_003", "PO_002", &entities.Stock{InventoryLevel: 0, StorageCost: 3})),

		must(entities.NewEdge(entities.GroupToFamily, "BG_001", "PF_001", nil)),
		must(entities.NewEdge(entities.GroupToFamily, "BG_001", "PF_002", nil)),
		must(entities.NewEdge(entities.FamilyToOffering, "PF_001", "PO_001", nil)),
		must(entities.NewEdge(entities.FamilyToOffering, "PF_002", "PO_002", nil)),
	}
	for _, edge := range edges {
		if err := net.AddEdge(edge); err != nil {
			panic(err)
		}
		if err := topo.Record(net, edge); err != nil {
			panic(err)
		}
	}

	stocked := map[entities.EntityID]float64{"W_001": 900, "W_002": 800}
	for id, level := range stocked {
		w, _ := net.Warehouse(id)
		w.CurrentCapacity = level
	}

	topo.OfferingSubassemblies["PO_001"] = []entities.EntityID{"P_005", "P_006"}
	topo.OfferingSubassemblies["PO_002"] = []entities.EntityID{"P_006"}
	topo.SubassemblyRawMaterials["P_005"] = []entities.EntityID{"P_001", "P_002", "P_003", "P_004"}
	topo.SubassemblyRawMaterials["P_006"] = []entities.EntityID{"P_002", "P_004"}

	return net, topo
}

func transfer(part, facility entities.EntityID, qty entities.Quantity) *entities.Edge {
	return must(entities.NewEdge(entities.PartToFacility, part, facility,
		&entities.Transfer{Quantity: qty, Distance: 100, TransportCost: 40, LeadTime: 3}))
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
