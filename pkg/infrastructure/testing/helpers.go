package testing

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/stocktransfer/pkg/domain/dataset"
	"github.com/vsinha/stocktransfer/pkg/domain/entities"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/repositories/memory"
)

// ScenarioColumns is the header used by the warehouse scenarios
var ScenarioColumns = []string{
	dataset.ColArticle,
	dataset.ColOM,
	dataset.ColLocation,
	dataset.ColInventory,
	dataset.ColSales,
}

// BuildWarehouseScenario builds the two-location scenario: W1 holds 150 with
// sales of 50 and W2 holds 20 with sales of 60, both in group (1, 1001).
func BuildWarehouseScenario() *dataset.Table {
	return dataset.New(ScenarioColumns,
		[]string{"1", "1001", "W1", "150", "50"},
		[]string{"1", "1001", "W2", "20", "60"},
	)
}

// BuildThreeWarehouseScenario extends the warehouse scenario with W3, a small
// receiver processed after W2
func BuildThreeWarehouseScenario() *dataset.Table {
	table := BuildWarehouseScenario()
	table.Rows = append(table.Rows, []string{"1", "1001", "W3", "10", "5"})
	return table
}

// BuildMultiGroupScenario builds a table spanning several articles and OMs,
// including a balanced group and a group whose need exceeds its surplus
func BuildMultiGroupScenario() *dataset.Table {
	return dataset.New(ScenarioColumns,
		// Group (2, 2001): surplus 40 at A, need 100 at B -> shortfall
		[]string{"2", "2001", "A", "100", "50"},
		[]string{"2", "2001", "B", "20", "100"},
		// Group (1, 1001): one supplier, two receivers
		[]string{"1", "1001", "W1", "150", "50"},
		[]string{"1", "1001", "W2", "20", "60"},
		// Group (1, 1002): same article, other OM; W9 surplus must not reach group 1001
		[]string{"1", "1002", "W9", "500", "0"},
		// Group (3, 3001): inventory equals safety stock everywhere
		[]string{"3", "3001", "X", "12", "10"},
		[]string{"3", "3001", "Y", "6", "5"},
		[]string{"1", "1001", "W3", "10", "5"},
	)
}

// Record creates an inventory record from integer quantities
func Record(article, om, location string, inventory, sales int64, row int) *entities.InventoryRecord {
	return &entities.InventoryRecord{
		Article:   entities.NormalizeArticle(article),
		OM:        entities.OrgUnit(om),
		Location:  location,
		Inventory: decimal.NewFromInt(inventory),
		Sales:     decimal.NewFromInt(sales),
		Row:       row,
	}
}

// BuildRepository loads records into a fresh in-memory repository
func BuildRepository(records ...*entities.InventoryRecord) *memory.InventoryRepository {
	repo := memory.NewInventoryRepository(len(records))
	_ = repo.LoadRecords(records)
	return repo
}
