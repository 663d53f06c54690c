package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vsinha/stocktransfer/pkg/application/dto"
	"github.com/vsinha/stocktransfer/pkg/domain/dataset"
	"github.com/vsinha/stocktransfer/pkg/domain/entities"
	"github.com/vsinha/stocktransfer/pkg/domain/repositories"
	"github.com/vsinha/stocktransfer/pkg/domain/services"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/events"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/repositories/memory"
)

// DefaultThreshold is the safety stock coefficient used when none is configured
var DefaultThreshold = decimal.RequireFromString("1.2")

// Optimizer classifies locations as suppliers or receivers inside each
// (article, OM) group and pairs them into transfer suggestions
type Optimizer struct {
	threshold  decimal.Decimal
	logger     zerolog.Logger
	eventStore events.EventStore
}

// Option configures an Optimizer
type Option func(*Optimizer)

// WithLogger sets the logger used for run and group events
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Optimizer) {
		o.logger = logger
	}
}

// WithEventStore records run, suggestion and shortfall events under the run ID
func WithEventStore(store events.EventStore) Option {
	return func(o *Optimizer) {
		o.eventStore = store
	}
}

// NewOptimizer creates an optimizer for the given safety stock threshold.
// The threshold is not range-checked here.
func NewOptimizer(threshold decimal.Decimal, opts ...Option) *Optimizer {
	o := &Optimizer{
		threshold: threshold,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Threshold returns the safety stock coefficient
func (o *Optimizer) Threshold() decimal.Decimal {
	return o.threshold
}

// CalculateTransferNeeds normalizes the table with services.DataValidator and
// computes transfer suggestions for it. Normalization is idempotent, so an
// already validated table gives the same result. A table missing a required
// column fails with *entities.SchemaError before any group is processed.
func (o *Optimizer) CalculateTransferNeeds(ctx context.Context, table *dataset.Table) (*dto.TransferResult, error) {
	records, err := services.MapRecords(services.NewDataValidator().Validate(table))
	if err != nil {
		return nil, err
	}

	repo := memory.NewInventoryRepository(len(records))
	if err := repo.LoadRecords(records); err != nil {
		return nil, fmt.Errorf("failed to load records into repository: %w", err)
	}

	return o.Calculate(ctx, repo)
}

// Calculate computes transfer suggestions for every group in the repository.
// Groups are processed one at a time in key order; the context is checked
// between groups.
func (o *Optimizer) Calculate(ctx context.Context, repo repositories.InventoryRepository) (*dto.TransferResult, error) {
	start := time.Now()

	keys, err := repo.GetGroupKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	result := &dto.TransferResult{
		RunID:       uuid.New(),
		Threshold:   o.threshold,
		Suggestions: []entities.TransferSuggestion{},
		Shortfalls:  []entities.Shortfall{},
		GroupCount:  len(keys),
		RecordCount: repo.Count(),
	}
	runID := result.RunID.String()

	o.publish(events.NewRunStartedEvent(runID, o.threshold, result.RecordCount, result.GroupCount))

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("transfer calculation interrupted at group %s: %w", key, err)
		}

		group, err := repo.GetGroup(key)
		if err != nil {
			return nil, fmt.Errorf("failed to read group %s: %w", key, err)
		}

		suppliers, receivers := o.Classify(group)
		suggestions, shortfalls := o.MatchTransfers(key, suppliers, receivers)

		o.logger.Debug().
			Str("article", string(key.Article)).
			Str("om", string(key.OM)).
			Int("suppliers", len(suppliers)).
			Int("receivers", len(receivers)).
			Int("suggestions", len(suggestions)).
			Int("shortfalls", len(shortfalls)).
			Msg("group matched")

		for _, s := range suggestions {
			o.publish(events.NewTransferSuggestedEvent(runID, s))
		}
		for _, s := range shortfalls {
			o.publish(events.NewShortfallIdentifiedEvent(runID, s))
		}

		result.Suggestions = append(result.Suggestions, suggestions...)
		result.Shortfalls = append(result.Shortfalls, shortfalls...)
	}

	elapsed := time.Since(start)
	o.publish(events.NewRunCompletedEvent(runID, len(result.Suggestions), len(result.Shortfalls), elapsed.Milliseconds()))

	o.logger.Info().
		Str("run_id", runID).
		Str("threshold", o.threshold.String()).
		Int("records", result.RecordCount).
		Int("groups", result.GroupCount).
		Int("suggestions", len(result.Suggestions)).
		Int("shortfalls", len(result.Shortfalls)).
		Dur("elapsed", elapsed).
		Msg("transfer calculation complete")

	return result, nil
}

// publish appends to the run stream; a failed append is logged, not returned
func (o *Optimizer) publish(event events.Event) {
	if o.eventStore == nil {
		return
	}
	if err := o.eventStore.AppendEvent(event.StreamID(), event); err != nil {
		o.logger.Warn().Err(err).Str("event", event.Type()).Msg("failed to publish event")
	}
}

// Classify splits a group into supplier and receiver candidates, keeping row
// order. Records whose available stock is exactly zero are left out.
func (o *Optimizer) Classify(group []*entities.InventoryRecord) ([]Supplier, []Receiver) {
	var suppliers []Supplier
	var receivers []Receiver

	for _, record := range group {
		available := record.AvailableStock(o.threshold)

		switch available.Sign() {
		case 1:
			suppliers = append(suppliers, Supplier{
				Location:     record.Location,
				Available:    available,
				CurrentStock: record.Inventory,
				Row:          record.Row,
			})
		case -1:
			receivers = append(receivers, Receiver{
				Location:     record.Location,
				Needed:       available.Neg(),
				CurrentStock: record.Inventory,
				Row:          record.Row,
			})
		}
	}

	return suppliers, receivers
}
