package services

import (
	"fmt"

	"github.com/vsinha/stocktransfer/pkg/domain/dataset"
	"github.com/vsinha/stocktransfer/pkg/domain/entities"
)

// RequireColumns checks that every named column is present in the table.
// All absent columns are reported together in a single SchemaError.
func RequireColumns(table *dataset.Table, columns ...string) error {
	var missing []string
	for _, col := range columns {
		if !table.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &entities.SchemaError{Missing: missing}
	}
	return nil
}

// MapRecords converts a validated table into inventory records in row order.
// Absent or blank locations fall back to entities.DefaultLocation.
func MapRecords(table *dataset.Table) ([]*entities.InventoryRecord, error) {
	if err := RequireColumns(table, dataset.RequiredColumns...); err != nil {
		return nil, err
	}

	records := make([]*entities.InventoryRecord, 0, table.Len())
	for i := range table.Rows {
		article, _ := table.Cell(i, dataset.ColArticle)
		om, _ := table.Cell(i, dataset.ColOM)
		inventory, _ := table.Cell(i, dataset.ColInventory)
		sales, _ := table.Cell(i, dataset.ColSales)
		safety, _ := table.Cell(i, dataset.ColSafetyStock)
		pending, _ := table.Cell(i, dataset.ColPendingReceived)

		location, _ := table.Cell(i, dataset.ColLocation)

		record, err := entities.NewInventoryRecord(
			entities.Article(article),
			entities.OrgUnit(om),
			location,
			ParseQuantity(inventory),
			ParseQuantity(sales),
		)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		record.SafetyStock = ParseQuantity(safety)
		record.PendingReceived = ParseQuantity(pending)
		record.Row = i + 1

		records = append(records, record)
	}

	return records, nil
}
