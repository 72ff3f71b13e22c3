package dto

type CreateItemInput struct {
	CategoryID             *string
	Fields                 map[string]string
	CurrentStockGrams      float64
	LowStockThresholdGrams float64
	UnitSizeGrams          float64
}

type UpdateItemInput struct {
	ID                     string
	CategoryID             *string
	Fields                 map[string]string
	LowStockThresholdGrams float64
	UnitSizeGrams          float64
}

type AdjustStockInput struct {
	ItemID        string
	DeltaGrams    float64
	AllowNegative bool
	Notes         string
	ActorID       string
}
