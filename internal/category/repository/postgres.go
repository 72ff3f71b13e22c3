package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/tinttrack/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, name, sort_order, is_system, created_at, updated_at)
        VALUES (:id, :name, :sort_order, :is_system, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	query := `SELECT * FROM categories WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	query := `SELECT * FROM categories ORDER BY sort_order ASC, name ASC`
	err := r.DB.SelectContext(ctx, &categories, query)
	return categories, err
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories SET
            name = :name,
            sort_order = :sort_order,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

func (r *PGRepository) CreateField(ctx context.Context, f *model.FieldDefinition) error {
	query := `
        INSERT INTO field_definitions (id, category_id, name, type, picker_options, sort_order, created_at, updated_at)
        VALUES (:id, :category_id, :name, :type, :picker_options, :sort_order, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, f)
	return err
}

func (r *PGRepository) FindFieldByID(ctx context.Context, id string) (*model.FieldDefinition, error) {
	var field model.FieldDefinition
	query := `SELECT * FROM field_definitions WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &field, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &field, nil
}

func (r *PGRepository) ListFields(ctx context.Context, categoryID string) ([]model.FieldDefinition, error) {
	var fields []model.FieldDefinition
	query := `SELECT * FROM field_definitions WHERE category_id = $1 ORDER BY sort_order ASC`
	err := r.DB.SelectContext(ctx, &fields, query, categoryID)
	return fields, err
}

func (r *PGRepository) UpdateField(ctx context.Context, f *model.FieldDefinition) error {
	query := `
        UPDATE field_definitions SET
            name = :name,
            type = :type,
            picker_options = :picker_options,
            sort_order = :sort_order,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, f)
	return err
}

func (r *PGRepository) DeleteField(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM field_definitions WHERE id = $1`, id)
	return err
}
