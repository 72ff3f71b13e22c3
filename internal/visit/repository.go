package visit

import (
	"context"

	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/internal/visit/dto"
)

type Repository interface {
	// CreateWithConsumption persists the visit tree (formulas and line
	// items) together with the planned stock deltas and their ledger rows
	// in a single database transaction.
	CreateWithConsumption(ctx context.Context, v *model.Visit, txns []model.InventoryTransaction) error
	FindByID(ctx context.Context, id string) (*model.Visit, error)
	FindAll(ctx context.Context, filters *dto.VisitFilters) ([]model.Visit, int, error)
}
