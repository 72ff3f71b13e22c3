package visit

import (
	"fmt"

	"github.com/tinttrack/inventory-service/internal/model"
)

// ConsumptionLine is one resolved line item: the loaded inventory item plus
// the requested amount in canonical grams.
type ConsumptionLine struct {
	Item        *model.InventoryItem
	AmountGrams float64
}

// PlannedDeduction is the aggregate requirement for one distinct item across
// the whole batch. Commit produces exactly one ledger transaction per entry.
type PlannedDeduction struct {
	Item          *model.InventoryItem
	RequiredGrams float64
}

// Shortfall describes one item whose aggregate requirement exceeds its
// current stock. It carries everything the caller needs to render a
// remediation message without re-querying.
type Shortfall struct {
	Item           *model.InventoryItem
	RequiredGrams  float64
	AvailableGrams float64
}

// ArchivedItemError aborts the whole batch before any aggregation result is
// used. The referenced item must be removed or replaced by the caller.
type ArchivedItemError struct {
	Item *model.InventoryItem
}

func (e *ArchivedItemError) Error() string {
	return fmt.Sprintf("archived item %s used in formula", e.Item.ID)
}

// InsufficientStockError lists every short item. The caller may retry the
// same batch with allowNegative=true to force the commit.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d item(s)", len(e.Shortfalls))
}

// PlanDeductions validates a batch of consumption lines and computes the
// per-item deductions a commit must apply. It is pure: no stock is mutated
// and no transactions are created here.
//
// The batch is aggregated by item identity before any sufficiency
// comparison: a visit may consume the same item from several formulas, and
// validating per line would under-report shortfalls and emit one transaction
// per line instead of one per item. Negative requested amounts are clamped
// to zero consumption, not treated as restock.
//
// Stock comparisons are exact floating-point, no epsilon. Entries keep the
// first-appearance order of their item in the batch, so commit output is
// deterministic. An empty batch plans zero deductions.
func PlanDeductions(lines []ConsumptionLine, allowNegative bool) ([]PlannedDeduction, error) {
	for _, line := range lines {
		if line.Item == nil {
			continue
		}
		if line.Item.IsArchived {
			return nil, &ArchivedItemError{Item: line.Item}
		}
	}

	totals := make(map[string]int)
	plan := make([]PlannedDeduction, 0, len(lines))
	for _, line := range lines {
		if line.Item == nil {
			continue
		}
		amount := line.AmountGrams
		if amount < 0 {
			amount = 0
		}
		if idx, ok := totals[line.Item.ID]; ok {
			plan[idx].RequiredGrams += amount
			continue
		}
		totals[line.Item.ID] = len(plan)
		plan = append(plan, PlannedDeduction{Item: line.Item, RequiredGrams: amount})
	}

	if !allowNegative {
		var shortfalls []Shortfall
		for _, d := range plan {
			available := d.Item.CurrentStockGrams
			if available-d.RequiredGrams < 0 {
				shortfalls = append(shortfalls, Shortfall{
					Item:           d.Item,
					RequiredGrams:  d.RequiredGrams,
					AvailableGrams: available,
				})
			}
		}
		if len(shortfalls) > 0 {
			return nil, &InsufficientStockError{Shortfalls: shortfalls}
		}
	}

	return plan, nil
}
