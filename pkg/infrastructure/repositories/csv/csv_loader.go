package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vsinha/stocktransfer/pkg/domain/dataset"
)

// ErrEmptyInput is returned when a CSV source has no header row
var ErrEmptyInput = errors.New("CSV input has no header row")

const utf8BOM = "\uFEFF"

// Loader handles loading inventory tables from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadTable loads an inventory table from a CSV file
func (l *Loader) LoadTable(filename string) (*dataset.Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file %s: %w", filename, err)
	}
	defer file.Close()

	table, err := l.ReadTable(file)
	if err != nil {
		return nil, fmt.Errorf("inventory file %s: %w", filename, err)
	}
	return table, nil
}

// ReadTable reads an inventory table from CSV data. The first record is the
// header; rows may have fewer cells than the header.
func (l *Loader) ReadTable(r io.Reader) (*dataset.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		header[i] = strings.TrimSpace(col)
	}

	var rows [][]string
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		rows = append(rows, record)
	}

	return dataset.New(header, rows...), nil
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
