package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/stocktransfer/pkg/domain/entities"
)

// TransferResult contains the complete output of a transfer calculation run
type TransferResult struct {
	RunID       uuid.UUID                     `json:"run_id"`
	Threshold   decimal.Decimal               `json:"threshold"`
	Suggestions []entities.TransferSuggestion `json:"suggestions"`
	Shortfalls  []entities.Shortfall          `json:"shortfalls"`
	GroupCount  int                           `json:"group_count"`
	RecordCount int                           `json:"record_count"`
}

// EmergencyCount returns the number of Emergency suggestions
func (r *TransferResult) EmergencyCount() int {
	count := 0
	for _, s := range r.Suggestions {
		if s.Priority == entities.Emergency {
			count++
		}
	}
	return count
}

// Summary aggregates a TransferResult for reporting and charting
type Summary struct {
	TotalSuggestions   int                `json:"total_suggestions"`
	EmergencyCount     int                `json:"emergency_count"`
	PotentialCount     int                `json:"potential_count"`
	TotalQuantity      decimal.Decimal    `json:"total_quantity"`
	MeanQuantity       float64            `json:"mean_quantity"`
	MedianQuantity     float64            `json:"median_quantity"`
	MaxQuantity        decimal.Decimal    `json:"max_quantity"`
	UnmetQuantity      decimal.Decimal    `json:"unmet_quantity"`
	ByPriority         []PriorityCount    `json:"by_priority"`
	ByTransferLocation []LocationQuantity `json:"by_transfer_location"`
	QuantityHistogram  []HistogramBucket  `json:"quantity_histogram"`
}

// PriorityCount is the number of suggestions carrying one priority
type PriorityCount struct {
	Priority entities.Priority `json:"priority"`
	Count    int               `json:"count"`
}

// LocationQuantity is the total quantity shipped out of one location
type LocationQuantity struct {
	Location string          `json:"location"`
	Quantity decimal.Decimal `json:"quantity"`
}

// HistogramBucket counts suggested quantities in [Lower, Upper)
type HistogramBucket struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}
