package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tinttrack/inventory-service/internal/entitlement"
	"github.com/tinttrack/inventory-service/internal/inventory"
	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/internal/visit"
	"github.com/tinttrack/inventory-service/internal/visit/dto"
	"go.uber.org/zap"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields ...zap.Field) {}
func (nopLogger) Info(msg string, fields ...zap.Field)  {}
func (nopLogger) Warn(msg string, fields ...zap.Field)  {}
func (nopLogger) Error(msg string, fields ...zap.Field) {}
func (nopLogger) Fatal(msg string, fields ...zap.Field) {}
func (nopLogger) Sync() error                           { return nil }

type fakeItemStore struct {
	inventory.Repository
	items map[string]*model.InventoryItem
}

func (f *fakeItemStore) FindByIDs(ctx context.Context, ids []string) ([]model.InventoryItem, error) {
	out := []model.InventoryItem{}
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

type fakeVisitStore struct {
	items   *fakeItemStore
	err     error
	created *model.Visit
	txns    []model.InventoryTransaction
}

func (f *fakeVisitStore) CreateWithConsumption(ctx context.Context, v *model.Visit, txns []model.InventoryTransaction) error {
	if f.err != nil {
		return f.err
	}
	for _, txn := range txns {
		f.items.items[txn.InventoryItemID].CurrentStockGrams += txn.DeltaGrams
	}
	f.created = v
	f.txns = txns
	return nil
}

func (f *fakeVisitStore) FindByID(ctx context.Context, id string) (*model.Visit, error) {
	if f.created != nil && f.created.ID == id {
		return f.created, nil
	}
	return nil, nil
}

func (f *fakeVisitStore) FindAll(ctx context.Context, filters *dto.VisitFilters) ([]model.Visit, int, error) {
	if f.created == nil {
		return nil, 0, nil
	}
	return []model.Visit{*f.created}, 1, nil
}

type fakeLocker struct {
	busy     bool
	attempts int
	acquired []string
	released []string
}

func (f *fakeLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	f.attempts++
	if f.busy {
		return false, nil
	}
	f.acquired = append(f.acquired, key)
	return true, nil
}

func (f *fakeLocker) ReleaseLock(ctx context.Context, key, value string) error {
	f.released = append(f.released, key)
	return nil
}

type fakePublisher struct {
	published [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, key, value []byte) error {
	f.published = append(f.published, value)
	return nil
}

func newTestItem(id, title string, stockGrams float64, archived bool) *model.InventoryItem {
	return &model.InventoryItem{
		BaseModel:         model.BaseModel{ID: id},
		Fields:            model.FieldValues{model.FieldTitle: title},
		CurrentStockGrams: stockGrams,
		IsArchived:        archived,
	}
}

type fixture struct {
	uc        visit.UseCase
	items     *fakeItemStore
	visits    *fakeVisitStore
	locker    *fakeLocker
	publisher *fakePublisher
}

func newFixture(entitled bool, items ...*model.InventoryItem) *fixture {
	store := &fakeItemStore{items: map[string]*model.InventoryItem{}}
	for _, item := range items {
		store.items[item.ID] = item
	}
	visits := &fakeVisitStore{items: store}
	locker := &fakeLocker{}
	publisher := &fakePublisher{}
	uc := NewVisitUseCase(
		visits, store,
		entitlement.NewConfigGate(entitled, false),
		locker, publisher, "device-1", nopLogger{},
	)
	return &fixture{uc: uc, items: store, visits: visits, locker: locker, publisher: publisher}
}

func visitInput(allowNegative bool, formulas ...dto.FormulaInput) *dto.CreateVisitInput {
	return &dto.CreateVisitInput{Formulas: formulas, AllowNegative: allowNegative}
}

func TestCreateVisitAggregatesPerItem(t *testing.T) {
	fx := newFixture(true,
		newTestItem("a", "Blonde 7N", 100, false),
		newTestItem("b", "Developer 20", 50, false),
	)

	_, txns, err := fx.uc.CreateVisit(context.Background(), visitInput(false,
		dto.FormulaInput{Name: "Roots", LineItems: []dto.LineItemInput{
			{InventoryItemID: "a", AmountGrams: 10},
			{InventoryItemID: "b", AmountGrams: 5},
		}},
		dto.FormulaInput{Name: "Gloss", LineItems: []dto.LineItemInput{
			{InventoryItemID: "a", AmountGrams: 30},
		}},
	))
	if err != nil {
		t.Fatalf("CreateVisit returned error: %v", err)
	}

	if len(txns) != 2 {
		t.Fatalf("expected one transaction per distinct item, got %d", len(txns))
	}
	if txns[0].InventoryItemID != "a" || txns[0].DeltaGrams != -40 {
		t.Errorf("first transaction = %s/%v, want a/-40", txns[0].InventoryItemID, txns[0].DeltaGrams)
	}
	if txns[1].InventoryItemID != "b" || txns[1].DeltaGrams != -5 {
		t.Errorf("second transaction = %s/%v, want b/-5", txns[1].InventoryItemID, txns[1].DeltaGrams)
	}
	if got := fx.items.items["a"].CurrentStockGrams; got != 60 {
		t.Errorf("item a stock = %v, want 60", got)
	}
	if got := fx.items.items["b"].CurrentStockGrams; got != 45 {
		t.Errorf("item b stock = %v, want 45", got)
	}
	if len(fx.publisher.published) != 2 {
		t.Errorf("expected 2 published events, got %d", len(fx.publisher.published))
	}
	if len(fx.locker.released) != len(fx.locker.acquired) {
		t.Errorf("acquired %d locks but released %d", len(fx.locker.acquired), len(fx.locker.released))
	}
}

func TestCreateVisitRecordsFormulaTree(t *testing.T) {
	fx := newFixture(true, newTestItem("a", "Blonde 7N", 100, false))

	v, _, err := fx.uc.CreateVisit(context.Background(), visitInput(false,
		dto.FormulaInput{Name: "Roots", LineItems: []dto.LineItemInput{{InventoryItemID: "a", AmountGrams: 10}}},
		dto.FormulaInput{Name: "Gloss", LineItems: []dto.LineItemInput{{InventoryItemID: "a", AmountGrams: 5}}},
	))
	if err != nil {
		t.Fatalf("CreateVisit returned error: %v", err)
	}

	if len(v.Formulas) != 2 {
		t.Fatalf("expected 2 formulas, got %d", len(v.Formulas))
	}
	if v.Formulas[0].Name != "Roots" || v.Formulas[0].SortOrder != 0 {
		t.Errorf("first formula = %s/%d, want Roots/0", v.Formulas[0].Name, v.Formulas[0].SortOrder)
	}
	if v.Formulas[1].Name != "Gloss" || v.Formulas[1].SortOrder != 1 {
		t.Errorf("second formula = %s/%d, want Gloss/1", v.Formulas[1].Name, v.Formulas[1].SortOrder)
	}
	if v.Formulas[0].LineItems[0].FormulaID != v.Formulas[0].ID {
		t.Error("line item not linked to its formula")
	}
	for i := range fx.visits.txns {
		if fx.visits.txns[i].VisitID == nil || *fx.visits.txns[i].VisitID != v.ID {
			t.Errorf("transaction %d not linked to visit", i)
		}
		if fx.visits.txns[i].Reason != model.ReasonVisitConsumption {
			t.Errorf("transaction %d reason = %s", i, fx.visits.txns[i].Reason)
		}
	}
}

func TestCreateVisitInsufficientStock(t *testing.T) {
	fx := newFixture(true, newTestItem("a", "Blonde 7N", 5, false))

	_, _, err := fx.uc.CreateVisit(context.Background(), visitInput(false,
		dto.FormulaInput{LineItems: []dto.LineItemInput{{InventoryItemID: "a", AmountGrams: 10}}},
	))

	var insErr *visit.InsufficientStockError
	if !errors.As(err, &insErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if len(insErr.Shortfalls) != 1 {
		t.Fatalf("expected 1 shortfall, got %d", len(insErr.Shortfalls))
	}
	sf := insErr.Shortfalls[0]
	if sf.RequiredGrams != 10 || sf.AvailableGrams != 5 {
		t.Errorf("shortfall = required %v available %v, want 10/5", sf.RequiredGrams, sf.AvailableGrams)
	}
	if got := fx.items.items["a"].CurrentStockGrams; got != 5 {
		t.Errorf("stock mutated on failed visit: %v", got)
	}
	if fx.visits.created != nil {
		t.Error("visit committed despite shortfall")
	}
	if len(fx.publisher.published) != 0 {
		t.Error("events published despite shortfall")
	}
	if len(fx.locker.released) != len(fx.locker.acquired) {
		t.Error("locks leaked on failed visit")
	}
}

func TestCreateVisitAllowNegative(t *testing.T) {
	fx := newFixture(true, newTestItem("a", "Blonde 7N", 5, false))

	_, txns, err := fx.uc.CreateVisit(context.Background(), visitInput(true,
		dto.FormulaInput{LineItems: []dto.LineItemInput{{InventoryItemID: "a", AmountGrams: 10}}},
	))
	if err != nil {
		t.Fatalf("CreateVisit returned error: %v", err)
	}
	if txns[0].DeltaGrams != -10 {
		t.Errorf("delta = %v, want -10", txns[0].DeltaGrams)
	}
	if got := fx.items.items["a"].CurrentStockGrams; got != -5 {
		t.Errorf("stock = %v, want -5", got)
	}
}

func TestCreateVisitArchivedItem(t *testing.T) {
	fx := newFixture(true, newTestItem("a", "Discontinued Toner", 100, true))

	_, _, err := fx.uc.CreateVisit(context.Background(), visitInput(false,
		dto.FormulaInput{LineItems: []dto.LineItemInput{{InventoryItemID: "a", AmountGrams: 10}}},
	))

	var archErr *visit.ArchivedItemError
	if !errors.As(err, &archErr) {
		t.Fatalf("expected ArchivedItemError, got %v", err)
	}
	if archErr.Item.ID != "a" {
		t.Errorf("archived item = %s, want a", archErr.Item.ID)
	}
	if fx.visits.created != nil {
		t.Error("visit committed despite archived item")
	}
}

func TestCreateVisitUnknownItem(t *testing.T) {
	fx := newFixture(true)

	_, _, err := fx.uc.CreateVisit(context.Background(), visitInput(false,
		dto.FormulaInput{LineItems: []dto.LineItemInput{{InventoryItemID: "ghost", AmountGrams: 10}}},
	))

	var unknownErr *visit.UnknownItemError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownItemError, got %v", err)
	}
	if unknownErr.ItemID != "ghost" {
		t.Errorf("unknown item = %s, want ghost", unknownErr.ItemID)
	}
}

func TestCreateVisitNotEntitled(t *testing.T) {
	fx := newFixture(false, newTestItem("a", "Blonde 7N", 100, false))

	_, _, err := fx.uc.CreateVisit(context.Background(), visitInput(false,
		dto.FormulaInput{LineItems: []dto.LineItemInput{{InventoryItemID: "a", AmountGrams: 10}}},
	))
	if !errors.Is(err, entitlement.ErrNotEntitled) {
		t.Fatalf("expected ErrNotEntitled, got %v", err)
	}
	if len(fx.locker.acquired) != 0 {
		t.Error("locks taken before entitlement check")
	}
}

func TestCreateVisitStoreFailure(t *testing.T) {
	fx := newFixture(true, newTestItem("a", "Blonde 7N", 100, false))
	fx.visits.err = errors.New("connection reset")

	_, _, err := fx.uc.CreateVisit(context.Background(), visitInput(false,
		dto.FormulaInput{LineItems: []dto.LineItemInput{{InventoryItemID: "a", AmountGrams: 10}}},
	))
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	if got := fx.items.items["a"].CurrentStockGrams; got != 100 {
		t.Errorf("stock mutated on failed commit: %v", got)
	}
	if len(fx.publisher.published) != 0 {
		t.Error("events published despite failed commit")
	}
}

func TestCreateVisitLockBusy(t *testing.T) {
	fx := newFixture(true, newTestItem("a", "Blonde 7N", 100, false))
	fx.locker.busy = true

	_, _, err := fx.uc.CreateVisit(context.Background(), visitInput(false,
		dto.FormulaInput{LineItems: []dto.LineItemInput{{InventoryItemID: "a", AmountGrams: 10}}},
	))
	if !errors.Is(err, inventory.ErrLockBusy) {
		t.Fatalf("expected ErrLockBusy, got %v", err)
	}
}

func TestCreateVisitLockRetryStopsOnCancel(t *testing.T) {
	fx := newFixture(true, newTestItem("a", "Blonde 7N", 100, false))
	fx.locker.busy = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := fx.uc.CreateVisit(ctx, visitInput(false,
		dto.FormulaInput{LineItems: []dto.LineItemInput{{InventoryItemID: "a", AmountGrams: 10}}},
	))
	if !errors.Is(err, inventory.ErrLockBusy) {
		t.Fatalf("expected ErrLockBusy, got %v", err)
	}
	if fx.locker.attempts != 1 {
		t.Errorf("retried %d times against a cancelled context, want 1 attempt", fx.locker.attempts)
	}
}

func TestGetVisitNotFound(t *testing.T) {
	fx := newFixture(true)

	_, err := fx.uc.GetVisit(context.Background(), "missing")
	if !errors.Is(err, visit.ErrVisitNotFound) {
		t.Fatalf("expected ErrVisitNotFound, got %v", err)
	}
}
