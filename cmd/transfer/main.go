package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/vsinha/stocktransfer/pkg/infrastructure/config"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/logging"
	"github.com/vsinha/stocktransfer/pkg/interfaces/cli/commands"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Command line flags override configuration
	var (
		inputFile = flag.String("input", "", "Path to inventory data (.csv or .xlsx)")
		sheet     = flag.String("sheet", cfg.Sheet, "Worksheet name for .xlsx input")
		threshold = flag.String("threshold", cfg.ThresholdDecimal().String(), "Safety stock coefficient")
		outputDir = flag.String("output", cfg.OutputDir, "Output directory for results (optional)")
		format    = flag.String("format", cfg.Format, "Output format: text, json, csv, xlsx, html")
		verbose   = flag.Bool("verbose", false, "Enable verbose output")
		help      = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	thresholdValue, err := decimal.NewFromString(*threshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -threshold %q: %v\n", *threshold, err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	cmdConfig := commands.Config{
		InputFile: *inputFile,
		Sheet:     *sheet,
		Threshold: thresholdValue,
		OutputDir: *outputDir,
		Format:    *format,
		Verbose:   *verbose,
		Help:      *help,
	}

	cmd := commands.NewTransferCommand(cmdConfig, logger)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
