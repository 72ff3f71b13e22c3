package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tinttrack/inventory-service/internal/inventory"
	invdto "github.com/tinttrack/inventory-service/internal/inventory/dto"
	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/internal/shopping"
	"github.com/tinttrack/inventory-service/internal/shopping/dto"
	"go.uber.org/zap"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields ...zap.Field) {}
func (nopLogger) Info(msg string, fields ...zap.Field)  {}
func (nopLogger) Warn(msg string, fields ...zap.Field)  {}
func (nopLogger) Error(msg string, fields ...zap.Field) {}
func (nopLogger) Fatal(msg string, fields ...zap.Field) {}
func (nopLogger) Sync() error                           { return nil }

type fakeEntryStore struct {
	entries []model.ShoppingListItem
}

func (f *fakeEntryStore) FindAll(ctx context.Context) ([]model.ShoppingListItem, error) {
	out := make([]model.ShoppingListItem, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeEntryStore) FindByID(ctx context.Context, id string) (*model.ShoppingListItem, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			entry := f.entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (f *fakeEntryStore) FindByItemID(ctx context.Context, itemID string) (*model.ShoppingListItem, error) {
	for i := range f.entries {
		if f.entries[i].InventoryItemID != nil && *f.entries[i].InventoryItemID == itemID {
			entry := f.entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (f *fakeEntryStore) Create(ctx context.Context, entry *model.ShoppingListItem) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeEntryStore) Update(ctx context.Context, entry *model.ShoppingListItem) error {
	for i := range f.entries {
		if f.entries[i].ID == entry.ID {
			f.entries[i] = *entry
			return nil
		}
	}
	return errors.New("entry not found")
}

func (f *fakeEntryStore) Delete(ctx context.Context, id string) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeEntryStore) SetPurchasedWhere(ctx context.Context, ids []string, purchased bool) error {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	for i := range f.entries {
		if want[f.entries[i].ID] {
			f.entries[i].IsPurchased = purchased
		}
	}
	return nil
}

func (f *fakeEntryStore) ClearPurchased(ctx context.Context) error {
	for i := range f.entries {
		f.entries[i].IsPurchased = false
	}
	return nil
}

type fakeItemStore struct {
	inventory.Repository
	items map[string]*model.InventoryItem
	low   map[string]bool
}

func (f *fakeItemStore) FindAll(ctx context.Context, filters *invdto.ItemFilters) ([]model.InventoryItem, int, error) {
	if !filters.LowStock {
		return nil, 0, errors.New("unexpected unfiltered listing")
	}
	out := []model.InventoryItem{}
	for id, item := range f.items {
		if f.low[id] {
			out = append(out, *item)
		}
	}
	return out, len(out), nil
}

func (f *fakeItemStore) FindByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	if item, ok := f.items[id]; ok {
		return item, nil
	}
	return nil, nil
}

func testItem(id, title string) *model.InventoryItem {
	return &model.InventoryItem{
		BaseModel: model.BaseModel{ID: id},
		Fields:    model.FieldValues{model.FieldTitle: title},
	}
}

type fixture struct {
	uc      shopping.UseCase
	entries *fakeEntryStore
	items   *fakeItemStore
}

func newFixture() *fixture {
	entries := &fakeEntryStore{}
	items := &fakeItemStore{items: map[string]*model.InventoryItem{}, low: map[string]bool{}}
	return &fixture{
		uc:      NewShoppingUseCase(entries, items, nopLogger{}),
		entries: entries,
		items:   items,
	}
}

func (fx *fixture) addItem(id, title string, low bool) {
	fx.items.items[id] = testItem(id, title)
	fx.items.low[id] = low
}

func TestGetListIsSideEffectFree(t *testing.T) {
	fx := newFixture()
	fx.addItem("a", "Blonde 7N", true)

	view, err := fx.uc.GetList(context.Background())
	if err != nil {
		t.Fatalf("GetList returned error: %v", err)
	}

	if len(view) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(view))
	}
	if view[0].Title != "Blonde 7N" || view[0].IsManual || view[0].IsPurchased {
		t.Errorf("entry = %+v, want unchecked system entry", view[0])
	}
	if view[0].InventoryItemID == nil || *view[0].InventoryItemID != "a" {
		t.Error("entry not linked to its item")
	}
	if len(fx.entries.entries) != 0 {
		t.Fatalf("reading the list persisted %d rows", len(fx.entries.entries))
	}
}

func TestSetItemPurchasedCreatesBackingEntryOnce(t *testing.T) {
	fx := newFixture()
	fx.addItem("a", "Blonde 7N", true)

	entry, err := fx.uc.SetItemPurchased(context.Background(), "a", true)
	if err != nil {
		t.Fatalf("SetItemPurchased returned error: %v", err)
	}
	if !entry.IsPurchased || entry.InventoryItemID == nil || *entry.InventoryItemID != "a" {
		t.Errorf("backing entry = %+v", entry)
	}
	if len(fx.entries.entries) != 1 {
		t.Fatalf("expected 1 persisted row, got %d", len(fx.entries.entries))
	}

	// The second toggle reuses the stored row instead of duplicating it.
	entry, err = fx.uc.SetItemPurchased(context.Background(), "a", false)
	if err != nil {
		t.Fatalf("SetItemPurchased returned error: %v", err)
	}
	if entry.IsPurchased {
		t.Error("entry still purchased after untoggle")
	}
	if len(fx.entries.entries) != 1 {
		t.Errorf("backing entry duplicated, %d rows", len(fx.entries.entries))
	}

	view, err := fx.uc.GetList(context.Background())
	if err != nil {
		t.Fatalf("GetList returned error: %v", err)
	}
	if len(view) != 1 || view[0].ID != entry.ID {
		t.Error("view does not surface the backing entry")
	}
}

func TestSetItemPurchasedUnknownItem(t *testing.T) {
	fx := newFixture()

	_, err := fx.uc.SetItemPurchased(context.Background(), "ghost", true)
	if !errors.Is(err, inventory.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestGetListMergesManualEntries(t *testing.T) {
	fx := newFixture()
	fx.addItem("a", "Blonde 7N", true)

	if _, err := fx.uc.AddManualEntry(context.Background(), &dto.CreateEntryInput{Title: "Foils", Quantity: "2 boxes"}); err != nil {
		t.Fatalf("AddManualEntry returned error: %v", err)
	}

	view, err := fx.uc.GetList(context.Background())
	if err != nil {
		t.Fatalf("GetList returned error: %v", err)
	}
	if len(view) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(view))
	}
	if view[0].IsManual || !view[1].IsManual {
		t.Error("expected low-stock entries before manual ones")
	}
	if view[1].Title != "Foils" || view[1].Quantity != "2 boxes" {
		t.Errorf("manual entry = %q/%q", view[1].Title, view[1].Quantity)
	}
}

func TestGetListHidesRestockedEntries(t *testing.T) {
	fx := newFixture()
	fx.addItem("a", "Blonde 7N", true)

	if _, err := fx.uc.SetItemPurchased(context.Background(), "a", true); err != nil {
		t.Fatalf("SetItemPurchased returned error: %v", err)
	}

	// Restocked above threshold: the row survives but leaves the view.
	fx.items.low["a"] = false

	view, err := fx.uc.GetList(context.Background())
	if err != nil {
		t.Fatalf("GetList returned error: %v", err)
	}
	if len(view) != 0 {
		t.Errorf("expected empty view after restock, got %d entries", len(view))
	}
	if len(fx.entries.entries) != 1 {
		t.Errorf("backing entry deleted on restock, %d rows left", len(fx.entries.entries))
	}

	// Dipping low again brings back the same row.
	fx.items.low["a"] = true
	view, err = fx.uc.GetList(context.Background())
	if err != nil {
		t.Fatalf("GetList returned error: %v", err)
	}
	if len(view) != 1 || len(fx.entries.entries) != 1 {
		t.Errorf("expected entry reuse, view=%d stored=%d", len(view), len(fx.entries.entries))
	}
}

func TestSetPurchasedToggles(t *testing.T) {
	fx := newFixture()

	entry, err := fx.uc.AddManualEntry(context.Background(), &dto.CreateEntryInput{Title: "Gloves"})
	if err != nil {
		t.Fatalf("AddManualEntry returned error: %v", err)
	}

	updated, err := fx.uc.SetPurchased(context.Background(), entry.ID, true)
	if err != nil {
		t.Fatalf("SetPurchased returned error: %v", err)
	}
	if !updated.IsPurchased {
		t.Error("entry not marked purchased")
	}

	updated, err = fx.uc.SetPurchased(context.Background(), entry.ID, false)
	if err != nil {
		t.Fatalf("SetPurchased returned error: %v", err)
	}
	if updated.IsPurchased {
		t.Error("entry still marked purchased")
	}
}

func TestSetPurchasedUnknownEntry(t *testing.T) {
	fx := newFixture()

	_, err := fx.uc.SetPurchased(context.Background(), "missing", true)
	if !errors.Is(err, shopping.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestDeleteEntryManualOnly(t *testing.T) {
	fx := newFixture()
	fx.addItem("a", "Blonde 7N", true)

	backing, err := fx.uc.SetItemPurchased(context.Background(), "a", true)
	if err != nil {
		t.Fatalf("SetItemPurchased returned error: %v", err)
	}

	if err := fx.uc.DeleteEntry(context.Background(), backing.ID); !errors.Is(err, shopping.ErrNotManual) {
		t.Fatalf("expected ErrNotManual for system entry, got %v", err)
	}

	manual, err := fx.uc.AddManualEntry(context.Background(), &dto.CreateEntryInput{Title: "Foils"})
	if err != nil {
		t.Fatalf("AddManualEntry returned error: %v", err)
	}
	if err := fx.uc.DeleteEntry(context.Background(), manual.ID); err != nil {
		t.Fatalf("DeleteEntry returned error: %v", err)
	}
	if len(fx.entries.entries) != 1 {
		t.Errorf("expected only the system entry to remain, got %d rows", len(fx.entries.entries))
	}
}

func TestMarkAllPurchasedBacksUntoggledItems(t *testing.T) {
	fx := newFixture()
	fx.addItem("a", "Blonde 7N", true)

	if _, err := fx.uc.AddManualEntry(context.Background(), &dto.CreateEntryInput{Title: "Foils"}); err != nil {
		t.Fatalf("AddManualEntry returned error: %v", err)
	}

	if err := fx.uc.MarkAllPurchased(context.Background()); err != nil {
		t.Fatalf("MarkAllPurchased returned error: %v", err)
	}

	if len(fx.entries.entries) != 2 {
		t.Fatalf("expected backing row for the unbacked item, got %d rows", len(fx.entries.entries))
	}
	for i := range fx.entries.entries {
		if !fx.entries.entries[i].IsPurchased {
			t.Errorf("entry %q not purchased", fx.entries.entries[i].Title)
		}
	}
}

func TestClearPurchasedResetsStaleBackingEntries(t *testing.T) {
	fx := newFixture()
	fx.addItem("a", "Blonde 7N", true)

	if _, err := fx.uc.SetItemPurchased(context.Background(), "a", true); err != nil {
		t.Fatalf("SetItemPurchased returned error: %v", err)
	}

	// Restocked above threshold: the purchased row is no longer visible but
	// clearing must still reach it.
	fx.items.low["a"] = false

	if err := fx.uc.ClearPurchased(context.Background()); err != nil {
		t.Fatalf("ClearPurchased returned error: %v", err)
	}

	if len(fx.entries.entries) != 1 {
		t.Fatalf("clearing removed entries, %d rows left", len(fx.entries.entries))
	}
	if fx.entries.entries[0].IsPurchased {
		t.Error("stale backing entry still purchased after ClearPurchased")
	}
}

func TestClearPurchasedKeepsRows(t *testing.T) {
	fx := newFixture()
	fx.addItem("a", "Blonde 7N", true)

	if _, err := fx.uc.SetItemPurchased(context.Background(), "a", true); err != nil {
		t.Fatalf("SetItemPurchased returned error: %v", err)
	}
	if _, err := fx.uc.AddManualEntry(context.Background(), &dto.CreateEntryInput{Title: "Foils"}); err != nil {
		t.Fatalf("AddManualEntry returned error: %v", err)
	}
	if err := fx.uc.MarkAllPurchased(context.Background()); err != nil {
		t.Fatalf("MarkAllPurchased returned error: %v", err)
	}

	if err := fx.uc.ClearPurchased(context.Background()); err != nil {
		t.Fatalf("ClearPurchased returned error: %v", err)
	}
	if len(fx.entries.entries) != 2 {
		t.Fatalf("clearing removed entries, %d rows left", len(fx.entries.entries))
	}
	for i := range fx.entries.entries {
		if fx.entries.entries[i].IsPurchased {
			t.Errorf("entry %q still purchased after clear", fx.entries.entries[i].Title)
		}
	}
}
