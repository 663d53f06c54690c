package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vsinha/stocktransfer/pkg/application/dto"
)

var quantityPrinter = message.NewPrinter(language.English)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	InputFile string
	Elapsed   time.Duration
	Timestamp time.Time
	Stdout    io.Writer
}

// Report bundles a result with its summary for serialization
type Report struct {
	*dto.TransferResult
	Summary dto.Summary `json:"summary"`
}

// Generate creates output in the specified format
func Generate(result *dto.TransferResult, summary dto.Summary, config Config) error {
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	if config.Timestamp.IsZero() {
		config.Timestamp = time.Now()
	}

	switch config.Format {
	case "text":
		return generateTextOutput(result, summary, config)
	case "json":
		return generateJSONOutput(result, summary, config)
	case "csv":
		return generateCSVOutput(result, config)
	case "xlsx":
		return generateXLSXOutput(result, summary, config)
	case "html":
		return generateHTMLOutput(result, summary, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// FormatQuantity rounds a quantity to whole units and groups thousands, e.g. 1,234,567
func FormatQuantity(d decimal.Decimal) string {
	return quantityPrinter.Sprintf("%d", d.Round(0).IntPart())
}

// FileStamp formats a timestamp for use in export file names
func FileStamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *dto.TransferResult, summary dto.Summary, config Config) error {
	w := config.Stdout

	fmt.Fprintf(w, "📊 Transfer Suggestions Summary\n")
	fmt.Fprintf(w, "===============================\n\n")

	fmt.Fprintf(w, "Safety Stock Coefficient: %s\n", result.Threshold)
	fmt.Fprintf(w, "Records: %d\n", result.RecordCount)
	fmt.Fprintf(w, "Groups: %d\n", result.GroupCount)
	fmt.Fprintf(w, "Total Transfer Suggestions: %d\n", summary.TotalSuggestions)
	fmt.Fprintf(w, "Urgent Transfers: %d\n", summary.EmergencyCount)
	fmt.Fprintf(w, "Total Transfer Quantity: %s\n", FormatQuantity(summary.TotalQuantity))
	if config.Elapsed > 0 {
		fmt.Fprintf(w, "Calculation Time: %v\n", config.Elapsed)
	}
	fmt.Fprintln(w)

	if len(result.Suggestions) == 0 {
		fmt.Fprintf(w, "No transfer suggestions needed for current data\n")
	} else {
		fmt.Fprintf(w, "🚚 Transfer Suggestions:\n")
		fmt.Fprintf(w, "%-12s %-8s %-15s %-15s %-10s %-10s %-10s %-10s %-10s\n",
			"Article", "OM", "From", "To", "Qty", "From Stk", "To Stk", "Needed", "Priority")
		fmt.Fprintf(w, "%-12s %-8s %-15s %-15s %-10s %-10s %-10s %-10s %-10s\n",
			"------------", "--------", "---------------", "---------------",
			"----------", "----------", "----------", "----------", "----------")

		for _, s := range result.Suggestions {
			fmt.Fprintf(w, "%-12s %-8s %-15s %-15s %-10s %-10s %-10s %-10s %-10s\n",
				s.Article,
				s.OM,
				s.TransferLocation,
				s.ReceiveLocation,
				s.SuggestedQuantity,
				s.TransferCurrentStock,
				s.ReceiveCurrentStock,
				s.ReceiveNeededQty,
				s.Priority)
		}
		fmt.Fprintln(w)
	}

	if len(result.Shortfalls) > 0 {
		fmt.Fprintf(w, "⚠️  Unmet Need:\n")
		fmt.Fprintf(w, "%-12s %-8s %-15s %-10s %-10s %-10s %-10s\n",
			"Article", "OM", "Location", "Needed", "Matched", "Unmet", "Priority")
		fmt.Fprintf(w, "%-12s %-8s %-15s %-10s %-10s %-10s %-10s\n",
			"------------", "--------", "---------------",
			"----------", "----------", "----------", "----------")

		for _, s := range result.Shortfalls {
			fmt.Fprintf(w, "%-12s %-8s %-15s %-10s %-10s %-10s %-10s\n",
				s.Article,
				s.OM,
				s.Location,
				s.NeededQty,
				s.MatchedQty,
				s.UnmetQty,
				s.Priority)
		}
		fmt.Fprintln(w)
	}

	if len(summary.ByTransferLocation) > 0 {
		fmt.Fprintf(w, "📦 Transfer Out Quantity by Location:\n")
		for _, lq := range summary.ByTransferLocation {
			fmt.Fprintf(w, "  %-15s %s\n", lq.Location, lq.Quantity)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.TransferResult, summary dto.Summary, config Config) error {
	jsonData, err := json.MarshalIndent(Report{TransferResult: result, Summary: summary}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.Stdout, string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, fmt.Sprintf("transfer_suggestions_%s.json", FileStamp(config.Timestamp)))
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Stdout, "💾 JSON results saved to: %s\n", filename)
	}

	return nil
}

// generateCSVOutput creates CSV output
func generateCSVOutput(result *dto.TransferResult, config Config) error {
	if config.OutputDir == "" {
		return WriteSuggestionsCSV(config.Stdout, result.Suggestions)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := FileStamp(config.Timestamp)

	suggestionsFile := filepath.Join(config.OutputDir, fmt.Sprintf("transfer_suggestions_%s.csv", stamp))
	if err := writeFile(suggestionsFile, func(w io.Writer) error {
		return WriteSuggestionsCSV(w, result.Suggestions)
	}); err != nil {
		return fmt.Errorf("failed to write suggestions CSV: %w", err)
	}

	shortfallsFile := filepath.Join(config.OutputDir, fmt.Sprintf("transfer_shortfalls_%s.csv", stamp))
	if err := writeFile(shortfallsFile, func(w io.Writer) error {
		return WriteShortfallsCSV(w, result.Shortfalls)
	}); err != nil {
		return fmt.Errorf("failed to write shortfalls CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Stdout, "💾 CSV results saved to:\n")
		fmt.Fprintf(config.Stdout, "  Suggestions: %s\n", suggestionsFile)
		fmt.Fprintf(config.Stdout, "  Shortfalls: %s\n", shortfallsFile)
	}

	return nil
}

// generateXLSXOutput creates an Excel workbook
func generateXLSXOutput(result *dto.TransferResult, summary dto.Summary, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, fmt.Sprintf("transfer_suggestions_%s.xlsx", FileStamp(config.Timestamp)))
	if err := writeFile(filename, func(w io.Writer) error {
		return WriteWorkbook(w, result, summary)
	}); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Stdout, "💾 Workbook saved to: %s\n", filename)
	}

	return nil
}

// generateHTMLOutput creates a standalone HTML report
func generateHTMLOutput(result *dto.TransferResult, summary dto.Summary, config Config) error {
	if config.OutputDir == "" {
		return WriteHTMLReport(config.Stdout, result, summary, config)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, fmt.Sprintf("transfer_report_%s.html", FileStamp(config.Timestamp)))
	if err := writeFile(filename, func(w io.Writer) error {
		return WriteHTMLReport(w, result, summary, config)
	}); err != nil {
		return fmt.Errorf("failed to write HTML report: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Stdout, "🌐 HTML report saved to: %s\n", filename)
	}

	return nil
}

func writeFile(filename string, write func(io.Writer) error) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
