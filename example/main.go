package main

import (
	"context"
	"fmt"

	"github.com/vsinha/stocktransfer/pkg/application/services/transfer"
	"github.com/vsinha/stocktransfer/pkg/domain/dataset"
	"github.com/vsinha/stocktransfer/pkg/domain/services"
)

func main() {
	ctx := context.Background()

	// Three stores share one article in organizational unit 1001
	raw := dataset.New(
		[]string{dataset.ColArticle, dataset.ColOM, dataset.ColLocation, dataset.ColInventory, dataset.ColSales},
		[]string{"4711", "1001", "Central DC", "150", "50"},
		[]string{"4711", "1001", "Store North", "20", "60"},
		[]string{"4711", "1001", "Store South", "10", "5"},
	)

	table := services.NewDataValidator().Validate(raw)
	optimizer := transfer.NewOptimizer(transfer.DefaultThreshold)

	fmt.Println("🚚 Calculating transfers for article 4711...")
	fmt.Printf("Safety stock coefficient: %s\n\n", optimizer.Threshold())

	result, err := optimizer.CalculateTransferNeeds(ctx, table)
	if err != nil {
		fmt.Printf("❌ Calculation failed: %v\n", err)
		return
	}

	fmt.Println("📊 Suggestions:")
	for _, s := range result.Suggestions {
		fmt.Printf("  %s -> %s: %s units (%s)\n",
			s.TransferLocation, s.ReceiveLocation, s.SuggestedQuantity, s.Priority)
		fmt.Printf("    Stock: %s at source, %s at destination, %s needed\n",
			s.TransferCurrentStock, s.ReceiveCurrentStock, s.ReceiveNeededQty)
	}

	if len(result.Shortfalls) > 0 {
		fmt.Println()
		fmt.Println("⚠️  Unmet need:")
		for _, s := range result.Shortfalls {
			fmt.Printf("  %s: %s of %s units still missing\n", s.Location, s.UnmetQty, s.NeededQty)
		}
	}

	summary := transfer.Summarize(result)
	fmt.Println()
	fmt.Printf("Total: %d transfers, %s units, %d urgent\n",
		summary.TotalSuggestions, summary.TotalQuantity, summary.EmergencyCount)
}
