package dto

type ItemFilters struct {
	CategoryID      string
	LowStock        bool
	IncludeArchived bool
	Page            int
	PageSize        int
}

type TransactionFilters struct {
	ItemID   string
	VisitID  string
	Reason   string
	Page     int
	PageSize int
}
