package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// InventoryRecord represents one location's stock position for an article
type InventoryRecord struct {
	Article         Article
	OM              OrgUnit
	Location        string
	Inventory       decimal.Decimal
	Sales           decimal.Decimal
	SafetyStock     decimal.Decimal
	PendingReceived decimal.Decimal
	Row             int // 1-based data row in the source table
}

// NewInventoryRecord creates a validated InventoryRecord. A blank location
// falls back to DefaultLocation.
func NewInventoryRecord(article Article, om OrgUnit, location string, inventory, sales decimal.Decimal) (*InventoryRecord, error) {
	if article == "" {
		return nil, fmt.Errorf("article cannot be empty")
	}
	if inventory.IsNegative() {
		return nil, fmt.Errorf("inventory cannot be negative, got %s", inventory)
	}
	if sales.IsNegative() {
		return nil, fmt.Errorf("sales cannot be negative, got %s", sales)
	}
	if strings.TrimSpace(location) == "" {
		location = DefaultLocation
	}

	return &InventoryRecord{
		Article:   article,
		OM:        om,
		Location:  location,
		Inventory: inventory,
		Sales:     sales,
	}, nil
}

// Key returns the transfer group the record belongs to
func (r *InventoryRecord) Key() GroupKey {
	return GroupKey{Article: r.Article, OM: r.OM}
}

// AvailableStock returns inventory minus the safety stock implied by the threshold.
// Positive values are surplus, negative values are shortfall.
func (r *InventoryRecord) AvailableStock(threshold decimal.Decimal) decimal.Decimal {
	return r.Inventory.Sub(r.Sales.Mul(threshold))
}
