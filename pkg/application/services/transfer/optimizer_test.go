package transfer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/stocktransfer/pkg/domain/dataset"
	"github.com/vsinha/stocktransfer/pkg/domain/entities"
	"github.com/vsinha/stocktransfer/pkg/domain/repositories"
	"github.com/vsinha/stocktransfer/pkg/domain/services"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/events"
	testhelpers "github.com/vsinha/stocktransfer/pkg/infrastructure/testing"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func calculate(t *testing.T, table *dataset.Table) []entities.TransferSuggestion {
	t.Helper()
	optimizer := NewOptimizer(DefaultThreshold)
	result, err := optimizer.CalculateTransferNeeds(context.Background(), services.NewDataValidator().Validate(table))
	require.NoError(t, err)
	return result.Suggestions
}

func TestCalculateTransferNeeds_NormalizesRawTable(t *testing.T) {
	raw := testhelpers.BuildWarehouseScenario()
	raw.Rows[1][3] = " 20 "

	result, err := NewOptimizer(DefaultThreshold).CalculateTransferNeeds(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, entities.Article("000000000001"), result.Suggestions[0].Article)
	assert.True(t, result.Suggestions[0].ReceiveCurrentStock.Equal(dec(20)))
	assert.Equal(t, "1", raw.Rows[0][0], "caller's table is left as is")
}

func TestCalculateTransferNeeds_SingleReceiver(t *testing.T) {
	suggestions := calculate(t, testhelpers.BuildWarehouseScenario())

	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, entities.Article("000000000001"), s.Article)
	assert.Equal(t, entities.OrgUnit("1001"), s.OM)
	assert.Equal(t, "W1", s.TransferLocation)
	assert.Equal(t, "W2", s.ReceiveLocation)
	assert.True(t, s.SuggestedQuantity.Equal(dec(52)), "quantity %s", s.SuggestedQuantity)
	assert.True(t, s.TransferCurrentStock.Equal(dec(150)))
	assert.True(t, s.ReceiveCurrentStock.Equal(dec(20)))
	assert.True(t, s.ReceiveNeededQty.Equal(dec(52)))
	assert.Equal(t, entities.Emergency, s.Priority)
}

func TestCalculateTransferNeeds_SurplusCarriesToLaterReceivers(t *testing.T) {
	suggestions := calculate(t, testhelpers.BuildThreeWarehouseScenario())

	require.Len(t, suggestions, 2)

	assert.Equal(t, "W2", suggestions[0].ReceiveLocation)
	assert.True(t, suggestions[0].SuggestedQuantity.Equal(dec(52)))

	second := suggestions[1]
	assert.Equal(t, "W1", second.TransferLocation)
	assert.Equal(t, "W3", second.ReceiveLocation)
	assert.True(t, second.SuggestedQuantity.Equal(dec(4)), "quantity %s", second.SuggestedQuantity)
	assert.True(t, second.ReceiveNeededQty.Equal(dec(4)))
	assert.Equal(t, entities.Potential, second.Priority, "need of 4 does not exceed stock of 10")
}

func TestCalculateTransferNeeds_MultipleGroups(t *testing.T) {
	optimizer := NewOptimizer(DefaultThreshold)
	table := services.NewDataValidator().Validate(testhelpers.BuildMultiGroupScenario())

	result, err := optimizer.CalculateTransferNeeds(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, 8, result.RecordCount)
	assert.Equal(t, 4, result.GroupCount)
	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.True(t, result.Threshold.Equal(DefaultThreshold))

	// Groups are emitted in (article, OM) order
	require.Len(t, result.Suggestions, 3)
	assert.Equal(t, []string{"W1>W2", "W1>W3", "A>B"}, routes(result.Suggestions))

	for _, s := range result.Suggestions {
		if s.Article == "000000000001" {
			assert.Equal(t, entities.OrgUnit("1001"), s.OM, "surplus from OM 1002 must stay in its group")
		}
	}

	require.Len(t, result.Shortfalls, 1)
	shortfall := result.Shortfalls[0]
	assert.Equal(t, entities.Article("000000000002"), shortfall.Article)
	assert.Equal(t, "B", shortfall.Location)
	assert.True(t, shortfall.NeededQty.Equal(dec(100)))
	assert.True(t, shortfall.MatchedQty.Equal(dec(40)))
	assert.True(t, shortfall.UnmetQty.Equal(dec(60)))
	assert.Equal(t, entities.Emergency, shortfall.Priority)

	assert.Equal(t, 2, result.EmergencyCount())
}

func TestCalculateTransferNeeds_Invariants(t *testing.T) {
	table := services.NewDataValidator().Validate(testhelpers.BuildMultiGroupScenario())
	records, err := services.MapRecords(table)
	require.NoError(t, err)

	optimizer := NewOptimizer(DefaultThreshold)
	result, err := optimizer.CalculateTransferNeeds(context.Background(), table)
	require.NoError(t, err)

	available := make(map[string]decimal.Decimal)
	for _, r := range records {
		available[r.Key().String()+"|"+r.Location] = r.AvailableStock(DefaultThreshold)
	}

	shipped := make(map[string]decimal.Decimal)
	received := make(map[string]decimal.Decimal)
	for _, s := range result.Suggestions {
		assert.True(t, s.SuggestedQuantity.IsPositive())
		assert.NotEqual(t, s.TransferLocation, s.ReceiveLocation)
		assert.Equal(t, entities.PriorityFor(s.ReceiveNeededQty, s.ReceiveCurrentStock), s.Priority)

		from := s.Key().String() + "|" + s.TransferLocation
		to := s.Key().String() + "|" + s.ReceiveLocation
		require.True(t, available[from].IsPositive(), "supplier %s must have surplus", from)
		require.True(t, available[to].IsNegative(), "receiver %s must have need", to)

		shipped[from] = shipped[from].Add(s.SuggestedQuantity)
		received[to] = received[to].Add(s.SuggestedQuantity)
	}

	for loc, qty := range shipped {
		assert.True(t, qty.LessThanOrEqual(available[loc]), "%s shipped %s of %s", loc, qty, available[loc])
	}
	for loc, qty := range received {
		assert.True(t, qty.LessThanOrEqual(available[loc].Neg()), "%s received %s", loc, qty)
	}
}

func TestCalculateTransferNeeds_NoTransfersNeeded(t *testing.T) {
	table := dataset.New(testhelpers.ScenarioColumns,
		[]string{"3", "3001", "X", "12", "10"},
		[]string{"3", "3001", "Y", "6", "5"},
		[]string{"4", "4001", "Z", "100", "0"},
	)

	suggestions := calculate(t, table)
	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestCalculateTransferNeeds_EmptyTable(t *testing.T) {
	optimizer := NewOptimizer(DefaultThreshold)

	result, err := optimizer.CalculateTransferNeeds(context.Background(), dataset.New(testhelpers.ScenarioColumns))
	require.NoError(t, err)
	assert.Empty(t, result.Suggestions)
	assert.Empty(t, result.Shortfalls)
	assert.Zero(t, result.GroupCount)
}

func TestCalculateTransferNeeds_MissingColumns(t *testing.T) {
	table := dataset.New([]string{dataset.ColArticle, dataset.ColOM, dataset.ColLocation, dataset.ColInventory},
		[]string{"1", "1001", "W1", "150"},
	)

	_, err := NewOptimizer(DefaultThreshold).CalculateTransferNeeds(context.Background(), table)

	var schemaErr *entities.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{dataset.ColSales}, schemaErr.Missing)
}

func TestCalculateTransferNeeds_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOptimizer(DefaultThreshold).CalculateTransferNeeds(ctx, testhelpers.BuildWarehouseScenario())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCalculateTransferNeeds_ThresholdChangesClassification(t *testing.T) {
	table := services.NewDataValidator().Validate(testhelpers.BuildWarehouseScenario())

	// With threshold 1.0: W1 = 150 - 50 = 100 surplus, W2 = 20 - 60 = -40 need
	result, err := NewOptimizer(decimal.NewFromInt(1)).CalculateTransferNeeds(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, result.Suggestions, 1)
	assert.True(t, result.Suggestions[0].SuggestedQuantity.Equal(dec(40)))
	assert.Equal(t, entities.Emergency, result.Suggestions[0].Priority)
}

func TestCalculateTransferNeeds_DoesNotModifyInput(t *testing.T) {
	table := services.NewDataValidator().Validate(testhelpers.BuildThreeWarehouseScenario())
	before := table.Clone()

	_, err := NewOptimizer(DefaultThreshold).CalculateTransferNeeds(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, before, table)
}

func TestCalculate_LogsRun(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	repo := testhelpers.BuildRepository(
		testhelpers.Record("1", "1001", "W1", 150, 50, 1),
		testhelpers.Record("1", "1001", "W2", 20, 60, 2),
	)

	result, err := NewOptimizer(DefaultThreshold, WithLogger(logger)).Calculate(context.Background(), repo)
	require.NoError(t, err)
	require.Len(t, result.Suggestions, 1)

	assert.Contains(t, buf.String(), `"message":"group matched"`)
	assert.Contains(t, buf.String(), `"message":"transfer calculation complete"`)
	assert.Contains(t, buf.String(), result.RunID.String())
}

type failingRepository struct {
	repositories.InventoryRepository
}

func (failingRepository) GetGroup(key entities.GroupKey) ([]*entities.InventoryRecord, error) {
	return nil, errors.New("storage unavailable")
}

func TestCalculate_RepositoryError(t *testing.T) {
	repo := failingRepository{testhelpers.BuildRepository(testhelpers.Record("1", "1001", "W1", 1, 0, 1))}

	_, err := NewOptimizer(DefaultThreshold).Calculate(context.Background(), repo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read group 000000000001|1001")
	assert.Contains(t, err.Error(), "storage unavailable")
}

func TestClassify(t *testing.T) {
	optimizer := NewOptimizer(DefaultThreshold)
	group := []*entities.InventoryRecord{
		testhelpers.Record("1", "1001", "W1", 150, 50, 1),
		testhelpers.Record("1", "1001", "W2", 20, 60, 2),
		testhelpers.Record("1", "1001", "W4", 12, 10, 3),
		testhelpers.Record("1", "1001", "W3", 10, 5, 4),
	}

	suppliers, receivers := optimizer.Classify(group)

	require.Len(t, suppliers, 1)
	assert.Equal(t, "W1", suppliers[0].Location)
	assert.True(t, suppliers[0].Available.Equal(dec(90)))
	assert.True(t, suppliers[0].CurrentStock.Equal(dec(150)))

	require.Len(t, receivers, 2, "zero available stock is neither supplier nor receiver")
	assert.Equal(t, "W2", receivers[0].Location)
	assert.True(t, receivers[0].Needed.Equal(dec(52)))
	assert.Equal(t, "W3", receivers[1].Location)
	assert.True(t, receivers[1].Needed.Equal(dec(4)))
}

func routes(suggestions []entities.TransferSuggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.TransferLocation + ">" + s.ReceiveLocation
	}
	return out
}

func TestCalculate_PublishesRunEvents(t *testing.T) {
	store := events.NewInMemoryEventStore(0, zerolog.Nop())
	table := services.NewDataValidator().Validate(testhelpers.BuildMultiGroupScenario())

	result, err := NewOptimizer(DefaultThreshold, WithEventStore(store)).CalculateTransferNeeds(context.Background(), table)
	require.NoError(t, err)

	stream, err := store.ReadEvents(result.RunID.String(), 1)
	require.NoError(t, err)

	types := make([]string, len(stream))
	for i, e := range stream {
		types[i] = e.Type()
		assert.Equal(t, i+1, e.Version())
	}
	assert.Equal(t, []string{
		events.RunStartedEvent,
		events.TransferSuggestedEvent,
		events.TransferSuggestedEvent,
		events.TransferSuggestedEvent,
		events.ShortfallIdentifiedEvent,
		events.RunCompletedEvent,
	}, types)

	started := stream[0].Data().(events.RunStarted)
	assert.Equal(t, 8, started.RecordCount)
	assert.Equal(t, 4, started.GroupCount)

	completed := stream[len(stream)-1].Data().(events.RunCompleted)
	assert.Equal(t, 3, completed.SuggestionCount)
	assert.Equal(t, 1, completed.ShortfallCount)
}
