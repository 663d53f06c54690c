// Package source picks a table loader from a file name or content type.
package source

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vsinha/stocktransfer/pkg/domain/dataset"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/repositories/xlsx"
)

// ErrUnsupportedFormat is returned for inputs that are neither CSV nor XLSX
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Format identifies the encoding of an input table
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// XLSXContentType is the MIME type of an .xlsx workbook
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FormatFromFilename detects the format from a file extension
func FormatFromFilename(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s (expected .csv or .xlsx)", ErrUnsupportedFormat, filename)
	}
}

// FormatFromContentType detects the format from a MIME type
func FormatFromContentType(contentType string) (Format, error) {
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	switch strings.ToLower(mediaType) {
	case "text/csv", "application/csv":
		return FormatCSV, nil
	case XLSXContentType:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: content type %q", ErrUnsupportedFormat, contentType)
	}
}

// LoadTable loads a table from a .csv or .xlsx file. The sheet name only
// applies to workbooks; empty selects the first sheet.
func LoadTable(filename, sheet string) (*dataset.Table, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return xlsx.NewLoader(sheet).LoadTable(filename)
	default:
		return csv.NewLoader().LoadTable(filename)
	}
}

// ReadTable reads a table of the given format from r
func ReadTable(r io.Reader, format Format, sheet string) (*dataset.Table, error) {
	switch format {
	case FormatCSV:
		return csv.NewLoader().ReadTable(r)
	case FormatXLSX:
		return xlsx.NewLoader(sheet).ReadTable(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
