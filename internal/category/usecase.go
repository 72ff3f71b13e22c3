package category

import (
	"context"
	"errors"

	"github.com/tinttrack/inventory-service/internal/category/dto"
	"github.com/tinttrack/inventory-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateField(ctx context.Context, input *dto.CreateFieldInput) (*model.FieldDefinition, error)
	UpdateField(ctx context.Context, input *dto.UpdateFieldInput) (*model.FieldDefinition, error)
	DeleteField(ctx context.Context, categoryID, fieldID string) error
}

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrFieldNotFound    = errors.New("field definition not found")
	ErrSystemCategory   = errors.New("system categories cannot be deleted")
)
