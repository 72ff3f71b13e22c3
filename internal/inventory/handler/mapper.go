package handler

import (
	"time"

	"github.com/tinttrack/inventory-service/internal/inventory"
	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/internal/units"
)

// itemResponse augments the persisted item with computed display values in
// the requested unit. Optional computations stay null when the unit size is
// not configured; null is distinct from zero.
type itemResponse struct {
	ID                string            `json:"id"`
	CategoryID        *string           `json:"category_id,omitempty"`
	Title             string            `json:"title"`
	SecondaryLine     string            `json:"secondary_line,omitempty"`
	Fields            map[string]string `json:"fields"`
	Unit              string            `json:"unit"`
	CurrentStock      float64           `json:"current_stock"`
	LowStockThreshold float64           `json:"low_stock_threshold"`
	UnitSize          float64           `json:"unit_size"`
	IsArchived        bool              `json:"is_archived"`
	IsLowStock        bool              `json:"is_low_stock"`
	UnitsRemaining    *float64          `json:"units_remaining,omitempty"`
	ThresholdUnits    *float64          `json:"threshold_units,omitempty"`
	UsageCost         *float64          `json:"usage_cost,omitempty"`
	CreatedAt         string            `json:"created_at"`
	UpdatedAt         string            `json:"updated_at"`
}

func mapItem(item *model.InventoryItem, unit units.Unit) *itemResponse {
	if item == nil {
		return nil
	}

	resp := &itemResponse{
		ID:                item.ID,
		CategoryID:        item.CategoryID,
		Title:             item.Title(),
		SecondaryLine:     item.SecondaryLine(),
		Fields:            item.Fields,
		Unit:              string(unit),
		CurrentStock:      units.FromGrams(item.CurrentStockGrams, unit),
		LowStockThreshold: units.FromGrams(item.LowStockThresholdGrams, unit),
		UnitSize:          units.FromGrams(item.UnitSizeGrams, unit),
		IsArchived:        item.IsArchived,
		IsLowStock:        inventory.IsLowStock(item),
		CreatedAt:         item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         item.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if remaining, ok := inventory.UnitsRemaining(item); ok {
		resp.UnitsRemaining = &remaining
	}
	if thresholdUnits, ok := inventory.LowStockThresholdUnits(item); ok {
		resp.ThresholdUnits = &thresholdUnits
	}

	return resp
}

func mapItems(items []model.InventoryItem, unit units.Unit) []*itemResponse {
	responses := make([]*itemResponse, len(items))
	for i := range items {
		responses[i] = mapItem(&items[i], unit)
	}
	return responses
}
