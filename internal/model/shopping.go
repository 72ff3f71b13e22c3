package model

// ShoppingListItem is either system-derived (InventoryItemID set, backing the
// purchased checkbox of a low-stock item, at most one per item) or manual
// (freeform title and quantity, no item reference).
type ShoppingListItem struct {
	BaseModel
	Title           string  `db:"title" json:"title"`
	Quantity        string  `db:"quantity" json:"quantity"`
	IsPurchased     bool    `db:"is_purchased" json:"is_purchased"`
	IsManual        bool    `db:"is_manual" json:"is_manual"`
	InventoryItemID *string `db:"inventory_item_id" json:"inventory_item_id,omitempty"`
}
