package entities

import "github.com/shopspring/decimal"

// ShortfallColumns is the exported column layout of a Shortfall
var ShortfallColumns = []string{
	"Article",
	"OM",
	"Location",
	"Needed Qty",
	"Matched Qty",
	"Unmet Qty",
	"Priority",
}

// Shortfall represents receiver need left uncovered after matching its group
type Shortfall struct {
	Article    Article         `json:"article"`
	OM         OrgUnit         `json:"om"`
	Location   string          `json:"location"`
	NeededQty  decimal.Decimal `json:"needed_qty"`
	MatchedQty decimal.Decimal `json:"matched_qty"`
	UnmetQty   decimal.Decimal `json:"unmet_qty"`
	Priority   Priority        `json:"priority"`
}

// Values renders the shortfall in ShortfallColumns order
func (s Shortfall) Values() []string {
	return []string{
		string(s.Article),
		string(s.OM),
		s.Location,
		s.NeededQty.String(),
		s.MatchedQty.String(),
		s.UnmetQty.String(),
		s.Priority.String(),
	}
}
