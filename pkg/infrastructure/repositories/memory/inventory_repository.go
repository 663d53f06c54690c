package memory

import (
	"fmt"
	"sort"

	"github.com/vsinha/stocktransfer/pkg/domain/entities"
	"github.com/vsinha/stocktransfer/pkg/domain/repositories"
)

// InventoryRepository provides in-memory record storage partitioned by transfer group
type InventoryRepository struct {
	records []entities.InventoryRecord
	groups  map[entities.GroupKey][]int
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository(expectedRecords int) *InventoryRepository {
	return &InventoryRepository{
		records: make([]entities.InventoryRecord, 0, expectedRecords),
		groups:  make(map[entities.GroupKey][]int),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadRecords loads records into the repository, keeping their order
func (r *InventoryRepository) LoadRecords(records []*entities.InventoryRecord) error {
	for i, record := range records {
		if record == nil {
			return fmt.Errorf("record %d is nil", i)
		}
		r.AddRecord(*record)
	}
	return nil
}

// AddRecord appends a record to its group
func (r *InventoryRepository) AddRecord(record entities.InventoryRecord) {
	r.records = append(r.records, record)
	key := record.Key()
	r.groups[key] = append(r.groups[key], len(r.records)-1)
}

// GetGroupKeys returns every group key in ascending (article, OM) order
func (r *InventoryRepository) GetGroupKeys() ([]entities.GroupKey, error) {
	keys := make([]entities.GroupKey, 0, len(r.groups))
	for key := range r.groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
	return keys, nil
}

// GetGroup returns the records of one group in the order they were loaded
func (r *InventoryRepository) GetGroup(key entities.GroupKey) ([]*entities.InventoryRecord, error) {
	indexes, exists := r.groups[key]
	if !exists {
		return nil, fmt.Errorf("group not found: %s", key)
	}

	group := make([]*entities.InventoryRecord, len(indexes))
	for i, idx := range indexes {
		group[i] = &r.records[idx]
	}
	return group, nil
}

// Count returns the number of stored records
func (r *InventoryRepository) Count() int {
	return len(r.records)
}
