package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/vsinha/stocktransfer/pkg/domain/entities"
)

// WriteSuggestionsCSV writes suggestions with the exact export header
func WriteSuggestionsCSV(w io.Writer, suggestions []entities.TransferSuggestion) error {
	records := make([][]string, len(suggestions))
	for i, s := range suggestions {
		records[i] = s.Values()
	}
	return writeCSV(w, entities.SuggestionColumns, records)
}

// WriteShortfallsCSV writes unmet receiver need
func WriteShortfallsCSV(w io.Writer, shortfalls []entities.Shortfall) error {
	records := make([][]string, len(shortfalls))
	for i, s := range shortfalls {
		records[i] = s.Values()
	}
	return writeCSV(w, entities.ShortfallColumns, records)
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
