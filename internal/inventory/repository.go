package inventory

import (
	"context"

	"github.com/tinttrack/inventory-service/internal/inventory/dto"
	"github.com/tinttrack/inventory-service/internal/model"
)

type Repository interface {
	// Items
	FindByID(ctx context.Context, id string) (*model.InventoryItem, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.InventoryItem, error)
	FindAll(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error)
	Create(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, item *model.InventoryItem) error

	// Ledger. AdjustStockWithTransaction writes the item's new stock and the
	// paired ledger row in one database transaction; ApplyTransaction adds a
	// delta-relative variant used when replaying remote events.
	AdjustStockWithTransaction(ctx context.Context, item *model.InventoryItem, tx *model.InventoryTransaction) error
	ApplyTransaction(ctx context.Context, tx *model.InventoryTransaction) error
	TransactionExists(ctx context.Context, id string) (bool, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)
}
