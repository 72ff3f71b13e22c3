package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tinttrack/inventory-service/internal/inventory/dto"
	"github.com/tinttrack/inventory-service/internal/model"
)

type UseCase interface {
	CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.InventoryItem, error)
	GetItem(ctx context.Context, id string) (*model.InventoryItem, error)
	ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error)
	UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.InventoryItem, error)
	SetItemArchived(ctx context.Context, id string, archived bool) (*model.InventoryItem, error)

	// AdjustStock applies a manual signed stock change paired with its
	// ledger row. A result below zero requires AllowNegative.
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryItem, *model.InventoryTransaction, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)

	SearchItems(ctx context.Context, query string, limit int) ([]model.InventoryItem, error)

	// ApplyRemoteTransaction replays a ledger entry committed on another
	// device. Returns false when the entry was already applied.
	ApplyRemoteTransaction(ctx context.Context, tx *model.InventoryTransaction) (bool, error)
}

// Locker serializes the check-then-commit unit of work per inventory item.
// Satisfied by pkg/cache.RedisClient.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

// Publisher emits committed ledger transactions onto the replication stream.
// Satisfied by pkg/broker.KafkaProducer.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrItemArchived      = errors.New("inventory item is archived")
	ErrSearchUnavailable = errors.New("search is unavailable")
	ErrLockBusy          = errors.New("item is busy, please try again")
)

// NegativeStockError is returned when a manual adjustment would take stock
// below zero without the explicit override.
type NegativeStockError struct {
	ItemID         string
	AvailableGrams float64
	DeltaGrams     float64
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("adjustment of %.2fg would take item %s below zero (available %.2fg)", e.DeltaGrams, e.ItemID, e.AvailableGrams)
}
