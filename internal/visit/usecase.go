package visit

import (
	"context"
	"errors"
	"fmt"

	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/internal/visit/dto"
)

type UseCase interface {
	// CreateVisit validates and commits a visit with all of its formulas,
	// deducting the aggregate consumption per inventory item and appending
	// one ledger transaction per distinct item, atomically or not at all.
	CreateVisit(ctx context.Context, input *dto.CreateVisitInput) (*model.Visit, []model.InventoryTransaction, error)
	GetVisit(ctx context.Context, id string) (*model.Visit, error)
	ListVisits(ctx context.Context, filters *dto.VisitFilters) ([]model.Visit, int, error)
}

var ErrVisitNotFound = errors.New("visit not found")

// UnknownItemError marks a line item whose inventory reference does not
// resolve; the store enforces referential integrity, so this only occurs
// for stale client state.
type UnknownItemError struct {
	ItemID string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("line item references unknown inventory item %s", e.ItemID)
}
