package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tinttrack/inventory-service/internal/inventory"
	invdto "github.com/tinttrack/inventory-service/internal/inventory/dto"
	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/internal/shopping"
	"github.com/tinttrack/inventory-service/internal/shopping/dto"
	"github.com/tinttrack/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type shoppingUseCase struct {
	repo   shopping.Repository
	items  inventory.Repository
	logger logger.ZapLogger
}

func NewShoppingUseCase(repo shopping.Repository, items inventory.Repository, log logger.ZapLogger) shopping.UseCase {
	return &shoppingUseCase{repo: repo, items: items, logger: log}
}

// GetList is a pure read: low-stock items without a backing row are rendered
// unchecked with an empty entry id, nothing is persisted. The backing row
// appears only once the checkbox is first toggled.
func (uc *shoppingUseCase) GetList(ctx context.Context) ([]model.ShoppingListItem, error) {
	lowItems, _, err := uc.items.FindAll(ctx, &invdto.ItemFilters{LowStock: true})
	if err != nil {
		return nil, err
	}

	entries, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byItemID := make(map[string]*model.ShoppingListItem)
	for i := range entries {
		if entries[i].InventoryItemID != nil {
			byItemID[*entries[i].InventoryItemID] = &entries[i]
		}
	}

	view := make([]model.ShoppingListItem, 0, len(lowItems))
	for i := range lowItems {
		item := &lowItems[i]
		if entry := byItemID[item.ID]; entry != nil {
			shown := *entry
			shown.Title = item.Title()
			view = append(view, shown)
			continue
		}
		view = append(view, model.ShoppingListItem{
			Title:           item.Title(),
			InventoryItemID: &item.ID,
		})
	}

	for i := range entries {
		if entries[i].IsManual {
			view = append(view, entries[i])
		}
	}

	return view, nil
}

func (uc *shoppingUseCase) AddManualEntry(ctx context.Context, input *dto.CreateEntryInput) (*model.ShoppingListItem, error) {
	now := time.Now()
	entry := &model.ShoppingListItem{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:    input.Title,
		Quantity: input.Quantity,
		IsManual: true,
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (uc *shoppingUseCase) SetPurchased(ctx context.Context, id string, purchased bool) (*model.ShoppingListItem, error) {
	entry, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shopping.ErrEntryNotFound
	}

	entry.IsPurchased = purchased
	if err := uc.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (uc *shoppingUseCase) SetItemPurchased(ctx context.Context, itemID string, purchased bool) (*model.ShoppingListItem, error) {
	item, err := uc.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, inventory.ErrItemNotFound
	}

	entry, err := uc.repo.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return uc.createBackingEntry(ctx, item, purchased)
	}

	entry.IsPurchased = purchased
	if err := uc.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (uc *shoppingUseCase) createBackingEntry(ctx context.Context, item *model.InventoryItem, purchased bool) (*model.ShoppingListItem, error) {
	now := time.Now()
	entry := &model.ShoppingListItem{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:           item.Title(),
		IsPurchased:     purchased,
		InventoryItemID: &item.ID,
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	uc.logger.Debug("created backing shopping entry", zap.String("item_id", item.ID))
	return entry, nil
}

func (uc *shoppingUseCase) DeleteEntry(ctx context.Context, id string) error {
	entry, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return shopping.ErrEntryNotFound
	}
	if !entry.IsManual {
		return shopping.ErrNotManual
	}
	return uc.repo.Delete(ctx, id)
}

// MarkAllPurchased checks every visible entry. Low-stock items without a
// backing row get one here, since checking the box is a toggle.
func (uc *shoppingUseCase) MarkAllPurchased(ctx context.Context) error {
	view, err := uc.GetList(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(view))
	for i := range view {
		if view[i].ID == "" && view[i].InventoryItemID != nil {
			if _, err := uc.SetItemPurchased(ctx, *view[i].InventoryItemID, true); err != nil {
				return err
			}
			continue
		}
		ids = append(ids, view[i].ID)
	}
	return uc.repo.SetPurchasedWhere(ctx, ids, true)
}

// ClearPurchased unchecks every stored entry, including backing rows whose
// item has since been restocked above its threshold. Rows are never deleted
// here; removal only happens through restocking or deleting a manual entry.
func (uc *shoppingUseCase) ClearPurchased(ctx context.Context) error {
	return uc.repo.ClearPurchased(ctx)
}
