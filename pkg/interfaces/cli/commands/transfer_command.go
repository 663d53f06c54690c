package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vsinha/stocktransfer/pkg/application/services/transfer"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/events"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/repositories/source"
	"github.com/vsinha/stocktransfer/pkg/interfaces/cli/output"
)

// Config holds configuration for the transfer command
type Config struct {
	InputFile string
	Sheet     string
	Threshold decimal.Decimal
	OutputDir string
	Format    string
	Verbose   bool
	Help      bool
}

// TransferCommand handles the transfer suggestion run
type TransferCommand struct {
	config Config
	logger zerolog.Logger
	stdout io.Writer
}

// NewTransferCommand creates a new transfer command with the given configuration
func NewTransferCommand(config Config, logger zerolog.Logger) *TransferCommand {
	return &TransferCommand{
		config: config,
		logger: logger,
		stdout: os.Stdout,
	}
}

// SetOutput redirects human-readable output
func (c *TransferCommand) SetOutput(w io.Writer) {
	c.stdout = w
}

// Execute runs the transfer command
func (c *TransferCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		c.printHeader()
		fmt.Fprintln(c.stdout, "📂 Loading inventory data...")
	}

	table, err := source.LoadTable(c.config.InputFile, c.config.Sheet)
	if err != nil {
		return fmt.Errorf("error loading inventory: %w", err)
	}

	opts := []transfer.Option{transfer.WithLogger(c.logger)}

	if c.config.Verbose {
		fmt.Fprintf(c.stdout, "✅ Data loaded successfully: %d rows, columns %v\n\n", table.Len(), table.Columns)
		fmt.Fprintln(c.stdout, "🔄 Calculating transfer suggestions...")

		store := events.NewInMemoryEventStore(1, c.logger)
		progress := &progressPrinter{w: c.stdout}
		if err := store.Subscribe(progressEvents, progress); err != nil {
			return fmt.Errorf("error subscribing to progress: %w", err)
		}
		defer store.Unsubscribe(progress)
		opts = append(opts, transfer.WithEventStore(store))
	}

	optimizer := transfer.NewOptimizer(c.config.Threshold, opts...)

	startTime := time.Now()
	result, err := optimizer.CalculateTransferNeeds(ctx, table)
	elapsed := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error calculating transfers: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.stdout, "✅ Calculation completed in %v\n\n", elapsed)
	}

	summary := transfer.Summarize(result)

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		InputFile: c.config.InputFile,
		Elapsed:   elapsed,
		Stdout:    c.stdout,
	}

	if err := output.Generate(result, summary, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintln(c.stdout, "🏁 Transfer analysis complete!")
	}

	return nil
}

// validateInputs validates the command configuration
func (c *TransferCommand) validateInputs() error {
	if c.config.InputFile == "" {
		return fmt.Errorf("must specify -input file (.csv or .xlsx)")
	}
	if _, err := source.FormatFromFilename(c.config.InputFile); err != nil {
		return err
	}
	if _, err := os.Stat(c.config.InputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", c.config.InputFile)
	}
	if !c.config.Threshold.IsPositive() {
		return fmt.Errorf("threshold must be positive, got %s", c.config.Threshold)
	}
	return nil
}

// printHeader prints the command header information
func (c *TransferCommand) printHeader() {
	fmt.Fprintf(c.stdout, "🚀 Inventory Transfer Optimization\n")
	fmt.Fprintf(c.stdout, "Input file: %s\n", c.config.InputFile)
	if c.config.Sheet != "" {
		fmt.Fprintf(c.stdout, "Sheet: %s\n", c.config.Sheet)
	}
	fmt.Fprintf(c.stdout, "Safety stock coefficient: %s\n", c.config.Threshold)
	fmt.Fprintf(c.stdout, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.stdout, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.stdout)
}

// showHelp displays the help message
func (c *TransferCommand) showHelp() {
	fmt.Fprintf(c.stdout, `Inventory Transfer Optimization - suggest stock transfers between locations

USAGE:
    transfer -input <file.csv|file.xlsx> [options]

OPTIONS:
    -input <file>       Inventory data (.csv or .xlsx)
    -sheet <name>       Worksheet to read from an .xlsx file (default: first sheet)
    -threshold <n>      Safety stock coefficient; safety stock = sales x n (default: 1.2)
    -format <fmt>       Output format: text, json, csv, xlsx, html (default: text)
    -output <dir>       Output directory for results (required for xlsx)
    -verbose            Enable verbose output
    -help               Show this help message

INPUT COLUMNS:
    Required: Article, OM, Inventory, Sales
    Optional: Location, Safety Stock, Pending Received

    Article,OM,Inventory,Sales,Location
    123456789012,1001,150,50,Warehouse A
    123456789012,1001,20,60,Warehouse B

ENVIRONMENT:
    TRANSFER_THRESHOLD, TRANSFER_FORMAT, TRANSFER_OUTPUT_DIR, TRANSFER_SHEET,
    TRANSFER_LOGGING_LEVEL, TRANSFER_CONFIG (YAML file)

EXAMPLES:
    # Print suggestions for a spreadsheet
    transfer -input stock.xlsx -verbose

    # Stricter safety stock, export CSV files
    transfer -input stock.csv -threshold 1.5 -format csv -output results/
`)
}
