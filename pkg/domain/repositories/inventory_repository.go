package repositories

import "github.com/vsinha/stocktransfer/pkg/domain/entities"

// InventoryRepository provides access to the inventory records of a single run
type InventoryRepository interface {
	LoadRecords(records []*entities.InventoryRecord) error
	GetGroupKeys() ([]entities.GroupKey, error)
	GetGroup(key entities.GroupKey) ([]*entities.InventoryRecord, error)
	Count() int
}
