package inventory

import (
	"strconv"

	"github.com/tinttrack/inventory-service/internal/model"
)

// Read-only stock predicates. These operate on already-loaded items so that
// list views and the shopping list can evaluate them without extra queries.

// IsLowStock reports whether the item's stock is at or below its threshold.
// Archived items are never low.
func IsLowStock(item *model.InventoryItem) bool {
	if item.IsArchived {
		return false
	}
	return item.CurrentStockGrams <= item.LowStockThresholdGrams
}

// LowStockItems filters by IsLowStock, preserving input order.
func LowStockItems(items []model.InventoryItem) []model.InventoryItem {
	low := make([]model.InventoryItem, 0)
	for _, item := range items {
		if IsLowStock(&item) {
			low = append(low, item)
		}
	}
	return low
}

// UnitsRemaining returns current stock expressed in purchasable units. The
// second return is false when the unit size is not configured; that is
// distinct from zero units left.
func UnitsRemaining(item *model.InventoryItem) (float64, bool) {
	if item.UnitSizeGrams <= 0 {
		return 0, false
	}
	return item.CurrentStockGrams / item.UnitSizeGrams, true
}

// LowStockThresholdUnits returns the threshold expressed in purchasable units.
func LowStockThresholdUnits(item *model.InventoryItem) (float64, bool) {
	if item.UnitSizeGrams <= 0 {
		return 0, false
	}
	return item.LowStockThresholdGrams / item.UnitSizeGrams, true
}

// CostForUsage estimates the cost of consuming amountGrams. It requires a
// configured unit size and a parseable numeric Cost field; otherwise the
// second return is false. Negative amounts count as zero consumption.
func CostForUsage(item *model.InventoryItem, amountGrams float64) (float64, bool) {
	if item.UnitSizeGrams <= 0 {
		return 0, false
	}
	costPerUnit, err := strconv.ParseFloat(item.Fields[model.FieldCost], 64)
	if err != nil {
		return 0, false
	}
	if amountGrams < 0 {
		amountGrams = 0
	}
	return amountGrams * (costPerUnit / item.UnitSizeGrams), true
}
