package dto

import "github.com/tinttrack/inventory-service/internal/model"

type CreateCategoryInput struct {
	Name      string
	SortOrder int
}

type UpdateCategoryInput struct {
	ID        string
	Name      string
	SortOrder int
}

type CreateFieldInput struct {
	CategoryID    string
	Name          string
	Type          model.FieldType
	PickerOptions []string
	SortOrder     int
}

type UpdateFieldInput struct {
	CategoryID    string
	FieldID       string
	Name          string
	Type          model.FieldType
	PickerOptions []string
	SortOrder     int
}
