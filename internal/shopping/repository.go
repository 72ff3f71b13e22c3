package shopping

import (
	"context"

	"github.com/tinttrack/inventory-service/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context) ([]model.ShoppingListItem, error)
	FindByID(ctx context.Context, id string) (*model.ShoppingListItem, error)
	// FindByItemID resolves the backing entry for an inventory item; at most
	// one exists per item.
	FindByItemID(ctx context.Context, itemID string) (*model.ShoppingListItem, error)
	Create(ctx context.Context, entry *model.ShoppingListItem) error
	Update(ctx context.Context, entry *model.ShoppingListItem) error
	Delete(ctx context.Context, id string) error
	SetPurchasedWhere(ctx context.Context, ids []string, purchased bool) error
	// ClearPurchased unchecks every row, stale backing entries included.
	ClearPurchased(ctx context.Context) error
}
