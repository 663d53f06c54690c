package transfer

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vsinha/stocktransfer/pkg/application/dto"
	"github.com/vsinha/stocktransfer/pkg/domain/entities"
)

// HistogramBins is the number of buckets in the quantity histogram
const HistogramBins = 20

// Summarize aggregates a result into totals, per-priority and per-location
// breakdowns, and a histogram of suggested quantities
func Summarize(result *dto.TransferResult) dto.Summary {
	summary := dto.Summary{
		TotalSuggestions:   len(result.Suggestions),
		EmergencyCount:     result.EmergencyCount(),
		TotalQuantity:      decimal.Zero,
		MaxQuantity:        decimal.Zero,
		UnmetQuantity:      decimal.Zero,
		ByPriority:         []dto.PriorityCount{},
		ByTransferLocation: []dto.LocationQuantity{},
		QuantityHistogram:  []dto.HistogramBucket{},
	}
	summary.PotentialCount = summary.TotalSuggestions - summary.EmergencyCount

	for _, shortfall := range result.Shortfalls {
		summary.UnmetQuantity = summary.UnmetQuantity.Add(shortfall.UnmetQty)
	}

	if len(result.Suggestions) == 0 {
		return summary
	}

	quantities := make([]float64, len(result.Suggestions))
	byLocation := make(map[string]decimal.Decimal)

	for i, s := range result.Suggestions {
		summary.TotalQuantity = summary.TotalQuantity.Add(s.SuggestedQuantity)
		if s.SuggestedQuantity.GreaterThan(summary.MaxQuantity) {
			summary.MaxQuantity = s.SuggestedQuantity
		}

		quantities[i] = s.SuggestedQuantity.InexactFloat64()
		byLocation[s.TransferLocation] = byLocation[s.TransferLocation].Add(s.SuggestedQuantity)
	}

	sort.Float64s(quantities)
	summary.MeanQuantity = stat.Mean(quantities, nil)
	summary.MedianQuantity = stat.Quantile(0.5, stat.Empirical, quantities, nil)

	summary.ByPriority = []dto.PriorityCount{
		{Priority: entities.Emergency, Count: summary.EmergencyCount},
		{Priority: entities.Potential, Count: summary.PotentialCount},
	}

	locations := make([]string, 0, len(byLocation))
	for location := range byLocation {
		locations = append(locations, location)
	}
	sort.Strings(locations)
	for _, location := range locations {
		summary.ByTransferLocation = append(summary.ByTransferLocation, dto.LocationQuantity{
			Location: location,
			Quantity: byLocation[location],
		})
	}

	summary.QuantityHistogram = histogram(quantities, HistogramBins)

	return summary
}

// histogram buckets sorted values into evenly spaced bins spanning their range
func histogram(sorted []float64, bins int) []dto.HistogramBucket {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		hi = lo + 1
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram bins are half-open; nudge the top edge so the maximum lands in the last bin.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	buckets := make([]dto.HistogramBucket, bins)
	for i := range buckets {
		upper := dividers[i+1]
		if i == bins-1 {
			upper = hi
		}
		buckets[i] = dto.HistogramBucket{
			Lower: dividers[i],
			Upper: upper,
			Count: int(counts[i]),
		}
	}
	return buckets
}
