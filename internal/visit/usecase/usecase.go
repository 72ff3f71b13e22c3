package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tinttrack/inventory-service/internal/entitlement"
	"github.com/tinttrack/inventory-service/internal/inventory"
	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/internal/replication"
	"github.com/tinttrack/inventory-service/internal/visit"
	"github.com/tinttrack/inventory-service/internal/visit/dto"
	"github.com/tinttrack/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	itemLockTTL        = 5 * time.Second
	itemLockRetries    = 3
	itemLockRetryDelay = 100 * time.Millisecond
)

type visitUseCase struct {
	repo      visit.Repository
	items     inventory.Repository
	gate      entitlement.Gate
	locker    inventory.Locker
	publisher inventory.Publisher
	deviceID  string
	logger    logger.ZapLogger
}

func NewVisitUseCase(
	repo visit.Repository,
	items inventory.Repository,
	gate entitlement.Gate,
	locker inventory.Locker,
	publisher inventory.Publisher,
	deviceID string,
	log logger.ZapLogger,
) visit.UseCase {
	return &visitUseCase{
		repo:      repo,
		items:     items,
		gate:      gate,
		locker:    locker,
		publisher: publisher,
		deviceID:  deviceID,
		logger:    log,
	}
}

func (uc *visitUseCase) CreateVisit(ctx context.Context, input *dto.CreateVisitInput) (*model.Visit, []model.InventoryTransaction, error) {
	if !uc.gate.CanCreateConsumingRecords(ctx) {
		return nil, nil, entitlement.ErrNotEntitled
	}

	itemIDs := distinctItemIDs(input)

	// Locks are taken in sorted order so two visits touching overlapping
	// item sets cannot deadlock each other.
	release, ok := uc.lockItems(ctx, itemIDs)
	if !ok {
		return nil, nil, inventory.ErrLockBusy
	}
	defer release()

	itemsByID, err := uc.loadItems(ctx, itemIDs)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]visit.ConsumptionLine, 0)
	for _, f := range input.Formulas {
		for _, li := range f.LineItems {
			item := itemsByID[li.InventoryItemID]
			lines = append(lines, visit.ConsumptionLine{
				Item:        item,
				AmountGrams: li.AmountGrams,
			})
		}
	}

	plan, err := visit.PlanDeductions(lines, input.AllowNegative)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	v := buildVisit(input, now)

	var createdBy *string
	if input.ActorID != "" {
		createdBy = &input.ActorID
	}

	txns := make([]model.InventoryTransaction, 0, len(plan))
	for _, d := range plan {
		txns = append(txns, model.InventoryTransaction{
			ID:              uuid.New().String(),
			InventoryItemID: d.Item.ID,
			DeltaGrams:      -d.RequiredGrams,
			Reason:          model.ReasonVisitConsumption,
			VisitID:         &v.ID,
			CreatedBy:       createdBy,
			OccurredAt:      now,
		})
	}

	if err := uc.repo.CreateWithConsumption(ctx, v, txns); err != nil {
		return nil, nil, err
	}

	for i := range txns {
		uc.publishTransaction(ctx, &txns[i])
	}

	return v, txns, nil
}

func (uc *visitUseCase) GetVisit(ctx context.Context, id string) (*model.Visit, error) {
	v, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, visit.ErrVisitNotFound
	}
	return v, nil
}

func (uc *visitUseCase) ListVisits(ctx context.Context, filters *dto.VisitFilters) ([]model.Visit, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func distinctItemIDs(input *dto.CreateVisitInput) []string {
	seen := map[string]bool{}
	ids := []string{}
	for _, f := range input.Formulas {
		for _, li := range f.LineItems {
			if !seen[li.InventoryItemID] {
				seen[li.InventoryItemID] = true
				ids = append(ids, li.InventoryItemID)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

func (uc *visitUseCase) lockItems(ctx context.Context, itemIDs []string) (func(), bool) {
	type held struct {
		key   string
		value string
	}
	locks := make([]held, 0, len(itemIDs))

	release := func() {
		for _, l := range locks {
			uc.locker.ReleaseLock(ctx, l.key, l.value)
		}
	}

	for _, id := range itemIDs {
		key := "lock:item:" + id
		value := uuid.New().String()
		acquired := false
		for i := 0; i < itemLockRetries; i++ {
			ok, err := uc.locker.AcquireLock(ctx, key, value, itemLockTTL)
			if err != nil {
				uc.logger.Error("failed to acquire item lock", zap.String("item_id", id), zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			select {
			case <-ctx.Done():
				release()
				return nil, false
			case <-time.After(itemLockRetryDelay):
			}
		}
		if !acquired {
			release()
			return nil, false
		}
		locks = append(locks, held{key: key, value: value})
	}

	return release, true
}

func (uc *visitUseCase) loadItems(ctx context.Context, itemIDs []string) (map[string]*model.InventoryItem, error) {
	items, err := uc.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.InventoryItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for _, id := range itemIDs {
		if byID[id] == nil {
			return nil, &visit.UnknownItemError{ItemID: id}
		}
	}
	return byID, nil
}

func buildVisit(input *dto.CreateVisitInput, now time.Time) *model.Visit {
	visitedAt := input.VisitedAt
	if visitedAt.IsZero() {
		visitedAt = now
	}
	var notes *string
	if input.Notes != "" {
		notes = &input.Notes
	}

	v := &model.Visit{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ClientID:  input.ClientID,
		VisitedAt: visitedAt,
		Notes:     notes,
	}

	for i, f := range input.Formulas {
		formula := model.Formula{
			BaseModel: model.BaseModel{
				ID:        uuid.New().String(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			VisitID:   v.ID,
			Name:      f.Name,
			SortOrder: i,
		}
		for _, li := range f.LineItems {
			formula.LineItems = append(formula.LineItems, model.FormulaLineItem{
				ID:              uuid.New().String(),
				FormulaID:       formula.ID,
				InventoryItemID: li.InventoryItemID,
				AmountUsedGrams: li.AmountGrams,
			})
		}
		v.Formulas = append(v.Formulas, formula)
	}

	return v
}

func (uc *visitUseCase) publishTransaction(ctx context.Context, txn *model.InventoryTransaction) {
	if uc.publisher == nil {
		return
	}
	key, value, err := replication.EncodeTransactionEvent(uc.deviceID, txn)
	if err != nil {
		uc.logger.Error("failed to encode transaction event", zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, key, value); err != nil {
		uc.logger.Error("failed to publish transaction event",
			zap.String("transaction_id", txn.ID),
			zap.Error(err),
		)
	}
}
