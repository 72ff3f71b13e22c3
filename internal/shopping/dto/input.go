package dto

type CreateEntryInput struct {
	Title    string
	Quantity string
}
