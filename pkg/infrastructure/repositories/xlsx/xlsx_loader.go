package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/stocktransfer/pkg/domain/dataset"
)

// ErrNoHeader is returned when a sheet contains no non-empty row
var ErrNoHeader = errors.New("sheet has no header row")

// Loader handles loading inventory tables from Excel workbooks
type Loader struct {
	sheet string
}

// NewLoader creates a new Excel loader. An empty sheet name selects the
// first sheet of the workbook.
func NewLoader(sheet string) *Loader {
	return &Loader{sheet: sheet}
}

// LoadTable loads an inventory table from an .xlsx file
func (l *Loader) LoadTable(filename string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", filename, err)
	}
	defer f.Close()

	table, err := l.readWorkbook(f)
	if err != nil {
		return nil, fmt.Errorf("workbook %s: %w", filename, err)
	}
	return table, nil
}

// ReadTable reads an inventory table from .xlsx data
func (l *Loader) ReadTable(r io.Reader) (*dataset.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	return l.readWorkbook(f)
}

func (l *Loader) readWorkbook(f *excelize.File) (*dataset.Table, error) {
	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	headerRow := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrNoHeader)
	}

	header := make([]string, len(rows[headerRow]))
	for i, col := range rows[headerRow] {
		header[i] = strings.TrimSpace(col)
	}

	var data [][]string
	for _, row := range rows[headerRow+1:] {
		if isBlankRow(row) {
			continue
		}
		data = append(data, row)
	}

	return dataset.New(header, data...), nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
