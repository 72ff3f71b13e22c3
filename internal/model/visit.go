package model

import "time"

// Visit groups the formulas applied during one client appointment.
type Visit struct {
	BaseModel
	ClientID  *string   `db:"client_id" json:"client_id,omitempty"`
	VisitedAt time.Time `db:"visited_at" json:"visited_at"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`

	Formulas []Formula `db:"-" json:"formulas,omitempty"`
}

// Formula is one mixture within a visit.
type Formula struct {
	BaseModel
	VisitID   string `db:"visit_id" json:"visit_id"`
	Name      string `db:"name" json:"name"`
	SortOrder int    `db:"sort_order" json:"sort_order"`

	LineItems []FormulaLineItem `db:"-" json:"line_items,omitempty"`
}

// FormulaLineItem consumes a measured amount of one inventory item.
type FormulaLineItem struct {
	ID              string  `db:"id" json:"id"`
	FormulaID       string  `db:"formula_id" json:"formula_id"`
	InventoryItemID string  `db:"inventory_item_id" json:"inventory_item_id"`
	AmountUsedGrams float64 `db:"amount_used_grams" json:"amount_used_grams"`
}
