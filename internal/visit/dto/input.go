package dto

import "time"

type LineItemInput struct {
	InventoryItemID string
	AmountGrams     float64
}

type FormulaInput struct {
	Name      string
	LineItems []LineItemInput
}

type CreateVisitInput struct {
	ClientID      *string
	VisitedAt     time.Time
	Notes         string
	Formulas      []FormulaInput
	AllowNegative bool
	ActorID       string
}

type VisitFilters struct {
	ClientID string
	Page     int
	PageSize int
}
