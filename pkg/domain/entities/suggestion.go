package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Priority represents the urgency of a transfer suggestion
type Priority int

const (
	Potential Priority = iota
	Emergency
)

// String method for Priority enum
func (p Priority) String() string {
	switch p {
	case Potential:
		return "Potential"
	case Emergency:
		return "Emergency"
	default:
		return "Unknown"
	}
}

// MarshalText renders the priority by name
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a priority name
func (p *Priority) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Potential":
		*p = Potential
	case "Emergency":
		*p = Emergency
	default:
		return fmt.Errorf("invalid priority: %s (expected Emergency or Potential)", text)
	}
	return nil
}

// PriorityFor labels a receiver: Emergency when its need exceeds what it holds
func PriorityFor(needed, current decimal.Decimal) Priority {
	if needed.GreaterThan(current) {
		return Emergency
	}
	return Potential
}

// SuggestionColumns is the exported column layout of a TransferSuggestion
var SuggestionColumns = []string{
	"Article",
	"OM",
	"Transfer Location",
	"Receive Location",
	"Suggested Transfer Quantity",
	"Transfer Current Stock",
	"Receive Current Stock",
	"Receive Needed Qty",
	"Priority",
}

// TransferSuggestion represents one supplier to receiver pairing
type TransferSuggestion struct {
	Article              Article         `json:"article"`
	OM                   OrgUnit         `json:"om"`
	TransferLocation     string          `json:"transfer_location"`
	ReceiveLocation      string          `json:"receive_location"`
	SuggestedQuantity    decimal.Decimal `json:"suggested_transfer_quantity"`
	TransferCurrentStock decimal.Decimal `json:"transfer_current_stock"`
	ReceiveCurrentStock  decimal.Decimal `json:"receive_current_stock"`
	ReceiveNeededQty     decimal.Decimal `json:"receive_needed_qty"`
	Priority             Priority        `json:"priority"`
}

// Key returns the transfer group of the suggestion
func (s TransferSuggestion) Key() GroupKey {
	return GroupKey{Article: s.Article, OM: s.OM}
}

// Values renders the suggestion in SuggestionColumns order
func (s TransferSuggestion) Values() []string {
	return []string{
		string(s.Article),
		string(s.OM),
		s.TransferLocation,
		s.ReceiveLocation,
		s.SuggestedQuantity.String(),
		s.TransferCurrentStock.String(),
		s.ReceiveCurrentStock.String(),
		s.ReceiveNeededQty.String(),
		s.Priority.String(),
	}
}
