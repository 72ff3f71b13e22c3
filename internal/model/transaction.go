package model

import "time"

type TransactionReason string

const (
	ReasonVisitConsumption TransactionReason = "visit_consumption"
	ReasonManualAdjustment TransactionReason = "manual_adjustment"
)

// InventoryTransaction is one immutable entry of the stock ledger. Rows are
// appended exactly once per committed deduction or adjustment and never
// mutated or deleted.
type InventoryTransaction struct {
	ID              string            `db:"id" json:"id"`
	InventoryItemID string            `db:"inventory_item_id" json:"inventory_item_id"`
	// DeltaGrams is negative for consumption, positive for restock.
	DeltaGrams float64           `db:"delta_grams" json:"delta_grams"`
	Reason     TransactionReason `db:"reason" json:"reason"`
	VisitID    *string           `db:"visit_id" json:"visit_id,omitempty"`
	Notes      *string           `db:"notes" json:"notes,omitempty"`
	CreatedBy  *string           `db:"created_by" json:"created_by,omitempty"`
	OccurredAt time.Time         `db:"occurred_at" json:"occurred_at"`
}
