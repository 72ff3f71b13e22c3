package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tinttrack/inventory-service/internal/inventory"
	"github.com/tinttrack/inventory-service/internal/inventory/dto"
	"github.com/tinttrack/inventory-service/internal/model"
	"go.uber.org/zap"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields ...zap.Field) {}
func (nopLogger) Info(msg string, fields ...zap.Field)  {}
func (nopLogger) Warn(msg string, fields ...zap.Field)  {}
func (nopLogger) Error(msg string, fields ...zap.Field) {}
func (nopLogger) Fatal(msg string, fields ...zap.Field) {}
func (nopLogger) Sync() error                           { return nil }

type fakeRepo struct {
	inventory.Repository
	items    map[string]*model.InventoryItem
	adjusted []model.InventoryTransaction
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	if item, ok := f.items[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRepo) AdjustStockWithTransaction(ctx context.Context, item *model.InventoryItem, txn *model.InventoryTransaction) error {
	f.items[item.ID] = item
	f.adjusted = append(f.adjusted, *txn)
	return nil
}

type fakeLocker struct {
	busy     bool
	attempts int
}

func (f *fakeLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	f.attempts++
	return !f.busy, nil
}

func (f *fakeLocker) ReleaseLock(ctx context.Context, key, value string) error {
	return nil
}

func newFixture(items ...*model.InventoryItem) (inventory.UseCase, *fakeRepo, *fakeLocker) {
	repo := &fakeRepo{items: map[string]*model.InventoryItem{}}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	locker := &fakeLocker{}
	return NewInventoryUseCase(repo, locker, nil, nil, "device-1", nopLogger{}), repo, locker
}

func stockedItem(id string, stockGrams float64, archived bool) *model.InventoryItem {
	return &model.InventoryItem{
		BaseModel:         model.BaseModel{ID: id},
		Fields:            model.FieldValues{model.FieldTitle: "Blonde 7N"},
		CurrentStockGrams: stockGrams,
		IsArchived:        archived,
	}
}

func TestAdjustStockPairsLedgerRow(t *testing.T) {
	uc, repo, _ := newFixture(stockedItem("a", 50, false))

	item, txn, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		ItemID:     "a",
		DeltaGrams: -10,
	})
	if err != nil {
		t.Fatalf("AdjustStock returned error: %v", err)
	}

	if item.CurrentStockGrams != 40 {
		t.Errorf("stock = %v, want 40", item.CurrentStockGrams)
	}
	if txn.DeltaGrams != -10 || txn.Reason != model.ReasonManualAdjustment {
		t.Errorf("transaction = %v/%s", txn.DeltaGrams, txn.Reason)
	}
	if len(repo.adjusted) != 1 {
		t.Fatalf("expected 1 paired ledger row, got %d", len(repo.adjusted))
	}
	if repo.items["a"].CurrentStockGrams != 40 {
		t.Errorf("persisted stock = %v, want 40", repo.items["a"].CurrentStockGrams)
	}
}

func TestAdjustStockNegativeRequiresOverride(t *testing.T) {
	uc, repo, _ := newFixture(stockedItem("a", 5, false))

	_, _, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		ItemID:     "a",
		DeltaGrams: -10,
	})
	var negErr *inventory.NegativeStockError
	if !errors.As(err, &negErr) {
		t.Fatalf("expected NegativeStockError, got %v", err)
	}
	if negErr.AvailableGrams != 5 || negErr.DeltaGrams != -10 {
		t.Errorf("error = available %v delta %v", negErr.AvailableGrams, negErr.DeltaGrams)
	}
	if len(repo.adjusted) != 0 {
		t.Error("ledger row written despite rejected adjustment")
	}

	item, _, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		ItemID:        "a",
		DeltaGrams:    -10,
		AllowNegative: true,
	})
	if err != nil {
		t.Fatalf("AdjustStock with override returned error: %v", err)
	}
	if item.CurrentStockGrams != -5 {
		t.Errorf("stock = %v, want -5", item.CurrentStockGrams)
	}
}

func TestAdjustStockRejectsArchivedItem(t *testing.T) {
	uc, _, _ := newFixture(stockedItem("a", 50, true))

	_, _, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		ItemID:     "a",
		DeltaGrams: 10,
	})
	if !errors.Is(err, inventory.ErrItemArchived) {
		t.Fatalf("expected ErrItemArchived, got %v", err)
	}
}

func TestAdjustStockLockRetryStopsOnCancel(t *testing.T) {
	uc, _, locker := newFixture(stockedItem("a", 50, false))
	locker.busy = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{ItemID: "a", DeltaGrams: -10})
	if !errors.Is(err, inventory.ErrLockBusy) {
		t.Fatalf("expected ErrLockBusy, got %v", err)
	}
	if locker.attempts != 1 {
		t.Errorf("retried %d times against a cancelled context, want 1 attempt", locker.attempts)
	}
}
