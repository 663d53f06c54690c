package transfer

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/stocktransfer/pkg/domain/entities"
)

// Supplier is a location holding stock above its safety level
type Supplier struct {
	Location     string
	Available    decimal.Decimal
	CurrentStock decimal.Decimal
	Row          int
}

// Receiver is a location holding stock below its safety level
type Receiver struct {
	Location     string
	Needed       decimal.Decimal
	CurrentStock decimal.Decimal
	Row          int
}

// MatchTransfers pairs receivers with suppliers greedily, first come first
// served in row order. Supplier surplus is drawn down across receivers, so a
// later receiver only sees what earlier receivers left. Any need still open
// after all suppliers are exhausted is returned as a shortfall.
//
// The input slices are not modified.
func (o *Optimizer) MatchTransfers(
	key entities.GroupKey,
	suppliers []Supplier,
	receivers []Receiver,
) ([]entities.TransferSuggestion, []entities.Shortfall) {
	var suggestions []entities.TransferSuggestion
	var shortfalls []entities.Shortfall

	remainingSurplus := make([]decimal.Decimal, len(suppliers))
	for i, supplier := range suppliers {
		remainingSurplus[i] = supplier.Available
	}

	for _, receiver := range receivers {
		priority := entities.PriorityFor(receiver.Needed, receiver.CurrentStock)
		remainingNeed := receiver.Needed

		for i, supplier := range suppliers {
			if !remainingSurplus[i].IsPositive() {
				continue
			}
			if !remainingNeed.IsPositive() {
				break
			}

			amount := decimal.Min(remainingSurplus[i], remainingNeed)

			suggestions = append(suggestions, entities.TransferSuggestion{
				Article:              key.Article,
				OM:                   key.OM,
				TransferLocation:     supplier.Location,
				ReceiveLocation:      receiver.Location,
				SuggestedQuantity:    amount,
				TransferCurrentStock: supplier.CurrentStock,
				ReceiveCurrentStock:  receiver.CurrentStock,
				ReceiveNeededQty:     receiver.Needed,
				Priority:             priority,
			})

			remainingSurplus[i] = remainingSurplus[i].Sub(amount)
			remainingNeed = remainingNeed.Sub(amount)
		}

		if remainingNeed.IsPositive() {
			shortfalls = append(shortfalls, entities.Shortfall{
				Article:    key.Article,
				OM:         key.OM,
				Location:   receiver.Location,
				NeededQty:  receiver.Needed,
				MatchedQty: receiver.Needed.Sub(remainingNeed),
				UnmetQty:   remainingNeed,
				Priority:   priority,
			})
		}
	}

	return suggestions, shortfalls
}
