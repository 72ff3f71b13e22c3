package model

// InventoryItem is a stocked product variant. Stock is a mutable running
// total in canonical grams; every change to it is paired with exactly one
// InventoryTransaction carrying the same signed delta.
type InventoryItem struct {
	BaseModel
	CategoryID             *string     `db:"category_id" json:"category_id"`
	Fields                 FieldValues `db:"fields" json:"fields"`
	CurrentStockGrams      float64     `db:"current_stock_grams" json:"current_stock_grams"`
	LowStockThresholdGrams float64     `db:"low_stock_threshold_grams" json:"low_stock_threshold_grams"`
	// UnitSizeGrams is grams per purchasable unit. Zero means the unit size
	// is not configured and disables unit-based displays.
	UnitSizeGrams float64 `db:"unit_size_grams" json:"unit_size_grams"`
	// IsArchived soft-deletes the item: excluded from low-stock detection
	// and rejects new consumption. Items referenced by historical
	// transactions are never destroyed.
	IsArchived bool `db:"is_archived" json:"is_archived"`
}

// Title returns the display title from the field bag.
func (i *InventoryItem) Title() string {
	if t := i.Fields[FieldTitle]; t != "" {
		return t
	}
	return "Untitled"
}

// SecondaryLine joins brand and product line for list display.
func (i *InventoryItem) SecondaryLine() string {
	brand := i.Fields[FieldBrand]
	line := i.Fields[FieldProductLine]
	switch {
	case brand != "" && line != "":
		return brand + " - " + line
	case brand != "":
		return brand
	default:
		return line
	}
}
