package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tinttrack/inventory-service/internal/category"
	"github.com/tinttrack/inventory-service/internal/category/dto"
	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/pkg/logger"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	now := time.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      input.Name,
		SortOrder: input.SortOrder,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, category.ErrCategoryNotFound
	}

	fields, err := uc.repo.ListFields(ctx, id)
	if err != nil {
		return nil, err
	}
	cat.Fields = fields
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, category.ErrCategoryNotFound
	}

	cat.Name = input.Name
	cat.SortOrder = input.SortOrder
	cat.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if cat == nil {
		return category.ErrCategoryNotFound
	}
	if cat.IsSystem {
		return category.ErrSystemCategory
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *categoryUseCase) CreateField(ctx context.Context, input *dto.CreateFieldInput) (*model.FieldDefinition, error) {
	cat, err := uc.repo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, category.ErrCategoryNotFound
	}

	now := time.Now()
	field := &model.FieldDefinition{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CategoryID:    input.CategoryID,
		Name:          input.Name,
		Type:          input.Type,
		PickerOptions: input.PickerOptions,
		SortOrder:     input.SortOrder,
	}

	if err := uc.repo.CreateField(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

func (uc *categoryUseCase) UpdateField(ctx context.Context, input *dto.UpdateFieldInput) (*model.FieldDefinition, error) {
	field, err := uc.repo.FindFieldByID(ctx, input.FieldID)
	if err != nil {
		return nil, err
	}
	if field == nil || field.CategoryID != input.CategoryID {
		return nil, category.ErrFieldNotFound
	}

	field.Name = input.Name
	field.Type = input.Type
	field.PickerOptions = input.PickerOptions
	field.SortOrder = input.SortOrder
	field.UpdatedAt = time.Now()

	if err := uc.repo.UpdateField(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

func (uc *categoryUseCase) DeleteField(ctx context.Context, categoryID, fieldID string) error {
	field, err := uc.repo.FindFieldByID(ctx, fieldID)
	if err != nil {
		return err
	}
	if field == nil || field.CategoryID != categoryID {
		return category.ErrFieldNotFound
	}
	return uc.repo.DeleteField(ctx, fieldID)
}
