package events

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/stocktransfer/pkg/domain/entities"
)

const (
	RunStartedEvent          = "run.started"
	TransferSuggestedEvent   = "transfer.suggested"
	ShortfallIdentifiedEvent = "shortfall.identified"
	RunCompletedEvent        = "run.completed"
)

type RunStarted struct {
	Threshold   decimal.Decimal `json:"threshold"`
	RecordCount int             `json:"record_count"`
	GroupCount  int             `json:"group_count"`
}

type TransferSuggested struct {
	Suggestion entities.TransferSuggestion `json:"suggestion"`
}

type ShortfallIdentified struct {
	Shortfall entities.Shortfall `json:"shortfall"`
}

type RunCompleted struct {
	SuggestionCount int   `json:"suggestion_count"`
	ShortfallCount  int   `json:"shortfall_count"`
	ElapsedMillis   int64 `json:"elapsed_ms"`
}

func NewRunStartedEvent(runID string, threshold decimal.Decimal, records, groups int) Event {
	return NewEvent(RunStartedEvent, runID, RunStarted{
		Threshold:   threshold,
		RecordCount: records,
		GroupCount:  groups,
	})
}

func NewTransferSuggestedEvent(runID string, suggestion entities.TransferSuggestion) Event {
	return NewEvent(TransferSuggestedEvent, runID, TransferSuggested{Suggestion: suggestion})
}

func NewShortfallIdentifiedEvent(runID string, shortfall entities.Shortfall) Event {
	return NewEvent(ShortfallIdentifiedEvent, runID, ShortfallIdentified{Shortfall: shortfall})
}

func NewRunCompletedEvent(runID string, suggestions, shortfalls int, elapsedMillis int64) Event {
	return NewEvent(RunCompletedEvent, runID, RunCompleted{
		SuggestionCount: suggestions,
		ShortfallCount:  shortfalls,
		ElapsedMillis:   elapsedMillis,
	})
}
