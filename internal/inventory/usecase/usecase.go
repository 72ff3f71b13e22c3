package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tinttrack/inventory-service/internal/inventory"
	"github.com/tinttrack/inventory-service/internal/inventory/dto"
	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/internal/replication"
	"github.com/tinttrack/inventory-service/pkg/logger"
	"github.com/tinttrack/inventory-service/pkg/search"
	"go.uber.org/zap"
)

const (
	itemLockTTL        = 5 * time.Second
	itemLockRetries    = 3
	itemLockRetryDelay = 100 * time.Millisecond
)

type inventoryUseCase struct {
	repo      inventory.Repository
	locker    inventory.Locker
	publisher inventory.Publisher
	es        *search.Client
	deviceID  string
	logger    logger.ZapLogger
}

func NewInventoryUseCase(
	repo inventory.Repository,
	locker inventory.Locker,
	publisher inventory.Publisher,
	es *search.Client,
	deviceID string,
	log logger.ZapLogger,
) inventory.UseCase {
	return &inventoryUseCase{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		es:        es,
		deviceID:  deviceID,
		logger:    log,
	}
}

func (uc *inventoryUseCase) CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.InventoryItem, error) {
	now := time.Now()
	item := &model.InventoryItem{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CategoryID:             input.CategoryID,
		Fields:                 model.FieldValues(input.Fields),
		CurrentStockGrams:      input.CurrentStockGrams,
		LowStockThresholdGrams: input.LowStockThresholdGrams,
		UnitSizeGrams:          input.UnitSizeGrams,
	}
	if item.Fields == nil {
		item.Fields = model.FieldValues{}
	}

	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	go uc.syncToElastic(context.Background(), item)

	return item, nil
}

func (uc *inventoryUseCase) GetItem(ctx context.Context, id string) (*model.InventoryItem, error) {
	item, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, inventory.ErrItemNotFound
	}
	return item, nil
}

func (uc *inventoryUseCase) ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *inventoryUseCase) UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.InventoryItem, error) {
	item, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, inventory.ErrItemNotFound
	}

	// Stock is not editable here: every stock change goes through
	// AdjustStock or the deduction engine so the ledger stays paired.
	item.CategoryID = input.CategoryID
	item.Fields = model.FieldValues(input.Fields)
	if item.Fields == nil {
		item.Fields = model.FieldValues{}
	}
	item.LowStockThresholdGrams = input.LowStockThresholdGrams
	item.UnitSizeGrams = input.UnitSizeGrams
	item.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	go uc.syncToElastic(context.Background(), item)

	return item, nil
}

func (uc *inventoryUseCase) SetItemArchived(ctx context.Context, id string, archived bool) (*model.InventoryItem, error) {
	item, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, inventory.ErrItemNotFound
	}

	item.IsArchived = archived
	item.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	go uc.syncToElastic(context.Background(), item)

	return item, nil
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryItem, *model.InventoryTransaction, error) {
	lockValue := uuid.New().String()
	if !uc.acquireItemLock(ctx, input.ItemID, lockValue) {
		return nil, nil, inventory.ErrLockBusy
	}
	defer uc.locker.ReleaseLock(ctx, lockKey(input.ItemID), lockValue)

	item, err := uc.repo.FindByID(ctx, input.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, inventory.ErrItemNotFound
	}
	if item.IsArchived {
		return nil, nil, inventory.ErrItemArchived
	}

	newStock := item.CurrentStockGrams + input.DeltaGrams
	if newStock < 0 && !input.AllowNegative {
		return nil, nil, &inventory.NegativeStockError{
			ItemID:         item.ID,
			AvailableGrams: item.CurrentStockGrams,
			DeltaGrams:     input.DeltaGrams,
		}
	}

	now := time.Now()
	item.CurrentStockGrams = newStock
	item.UpdatedAt = now

	var notes *string
	if input.Notes != "" {
		notes = &input.Notes
	}
	var createdBy *string
	if input.ActorID != "" {
		createdBy = &input.ActorID
	}

	txn := &model.InventoryTransaction{
		ID:              uuid.New().String(),
		InventoryItemID: item.ID,
		DeltaGrams:      input.DeltaGrams,
		Reason:          model.ReasonManualAdjustment,
		Notes:           notes,
		CreatedBy:       createdBy,
		OccurredAt:      now,
	}

	if err := uc.repo.AdjustStockWithTransaction(ctx, item, txn); err != nil {
		return nil, nil, err
	}

	uc.publishTransaction(ctx, txn)

	return item, txn, nil
}

func (uc *inventoryUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	return uc.repo.ListTransactions(ctx, filters)
}

func (uc *inventoryUseCase) ApplyRemoteTransaction(ctx context.Context, txn *model.InventoryTransaction) (bool, error) {
	exists, err := uc.repo.TransactionExists(ctx, txn.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	lockValue := uuid.New().String()
	if !uc.acquireItemLock(ctx, txn.InventoryItemID, lockValue) {
		return false, inventory.ErrLockBusy
	}
	defer uc.locker.ReleaseLock(ctx, lockKey(txn.InventoryItemID), lockValue)

	item, err := uc.repo.FindByID(ctx, txn.InventoryItemID)
	if err != nil {
		return false, err
	}
	if item == nil {
		// The item itself has not replicated yet; the event will be
		// redelivered by the consumer group.
		return false, inventory.ErrItemNotFound
	}

	if err := uc.repo.ApplyTransaction(ctx, txn); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *inventoryUseCase) acquireItemLock(ctx context.Context, itemID, lockValue string) bool {
	for i := 0; i < itemLockRetries; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey(itemID), lockValue, itemLockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire item lock", zap.String("item_id", itemID), zap.Error(err))
		}
		if ok {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(itemLockRetryDelay):
		}
	}
	return false
}

func lockKey(itemID string) string {
	return "lock:item:" + itemID
}

func (uc *inventoryUseCase) publishTransaction(ctx context.Context, txn *model.InventoryTransaction) {
	if uc.publisher == nil {
		return
	}
	key, value, err := replication.EncodeTransactionEvent(uc.deviceID, txn)
	if err != nil {
		uc.logger.Error("failed to encode transaction event", zap.Error(err))
		return
	}
	// Best effort: the ledger row is already durable, replication catches
	// up from the topic when the broker is back.
	if err := uc.publisher.Publish(ctx, key, value); err != nil {
		uc.logger.Error("failed to publish transaction event",
			zap.String("transaction_id", txn.ID),
			zap.Error(err),
		)
	}
}
