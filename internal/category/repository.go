package category

import (
	"context"

	"github.com/tinttrack/inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id string) error

	CreateField(ctx context.Context, f *model.FieldDefinition) error
	FindFieldByID(ctx context.Context, id string) (*model.FieldDefinition, error)
	ListFields(ctx context.Context, categoryID string) ([]model.FieldDefinition, error)
	UpdateField(ctx context.Context, f *model.FieldDefinition) error
	DeleteField(ctx context.Context, id string) error
}
