package shopping

import (
	"context"
	"errors"

	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/internal/shopping/dto"
)

type UseCase interface {
	// GetList returns the merged shopping view: every inventory item at or
	// below its low stock threshold, plus all manually added entries. Entries
	// backed by items that have since been restocked or archived are kept in
	// the store but excluded from the view.
	GetList(ctx context.Context) ([]model.ShoppingListItem, error)
	AddManualEntry(ctx context.Context, input *dto.CreateEntryInput) (*model.ShoppingListItem, error)
	SetPurchased(ctx context.Context, id string, purchased bool) (*model.ShoppingListItem, error)
	// SetItemPurchased toggles the checkbox of a low-stock item by its
	// inventory reference. The backing row is created on the first toggle
	// and found by item-reference lookup on every later one.
	SetItemPurchased(ctx context.Context, itemID string, purchased bool) (*model.ShoppingListItem, error)
	DeleteEntry(ctx context.Context, id string) error
	MarkAllPurchased(ctx context.Context) error
	ClearPurchased(ctx context.Context) error
}

var (
	ErrEntryNotFound = errors.New("shopping list entry not found")
	ErrNotManual     = errors.New("only manually added entries can be deleted")
)
