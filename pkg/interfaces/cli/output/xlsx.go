package output

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/stocktransfer/pkg/application/dto"
	"github.com/vsinha/stocktransfer/pkg/domain/entities"
)

// Sheet names used in exported workbooks
const (
	SuggestionsSheet = "Suggestions"
	ShortfallsSheet  = "Shortfalls"
	SummarySheet     = "Summary"
)

// WriteWorkbook writes suggestions, shortfalls and summary as an .xlsx workbook
func WriteWorkbook(w io.Writer, result *dto.TransferResult, summary dto.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SuggestionsSheet); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}

	suggestionRows := make([][]interface{}, len(result.Suggestions))
	for i, s := range result.Suggestions {
		suggestionRows[i] = []interface{}{
			string(s.Article),
			string(s.OM),
			s.TransferLocation,
			s.ReceiveLocation,
			number(s.SuggestedQuantity),
			number(s.TransferCurrentStock),
			number(s.ReceiveCurrentStock),
			number(s.ReceiveNeededQty),
			s.Priority.String(),
		}
	}
	if err := writeSheet(f, SuggestionsSheet, entities.SuggestionColumns, suggestionRows); err != nil {
		return err
	}

	shortfallRows := make([][]interface{}, len(result.Shortfalls))
	for i, s := range result.Shortfalls {
		shortfallRows[i] = []interface{}{
			string(s.Article),
			string(s.OM),
			s.Location,
			number(s.NeededQty),
			number(s.MatchedQty),
			number(s.UnmetQty),
			s.Priority.String(),
		}
	}
	if _, err := f.NewSheet(ShortfallsSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", ShortfallsSheet, err)
	}
	if err := writeSheet(f, ShortfallsSheet, entities.ShortfallColumns, shortfallRows); err != nil {
		return err
	}

	summaryRows := [][]interface{}{
		{"Run ID", result.RunID.String()},
		{"Safety Stock Coefficient", number(result.Threshold)},
		{"Total Transfer Suggestions", summary.TotalSuggestions},
		{"Urgent Transfers", summary.EmergencyCount},
		{"Total Transfer Quantity", number(summary.TotalQuantity)},
		{"Unmet Quantity", number(summary.UnmetQuantity)},
	}
	for _, lq := range summary.ByTransferLocation {
		summaryRows = append(summaryRows, []interface{}{"Transfer Out: " + lq.Location, number(lq.Quantity)})
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SummarySheet, err)
	}
	if err := writeSheet(f, SummarySheet, []string{"Metric", "Value"}, summaryRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	headerRow := make([]interface{}, len(header))
	for i, col := range header {
		headerRow[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func number(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
