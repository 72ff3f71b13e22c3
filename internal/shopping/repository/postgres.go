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

func (r *PGRepository) FindAll(ctx context.Context) ([]model.ShoppingListItem, error) {
	var entries []model.ShoppingListItem
	err := r.DB.SelectContext(ctx, &entries,
		`SELECT * FROM shopping_list_items ORDER BY created_at ASC`)
	return entries, err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.ShoppingListItem, error) {
	var entry model.ShoppingListItem
	err := r.DB.GetContext(ctx, &entry,
		`SELECT * FROM shopping_list_items WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PGRepository) FindByItemID(ctx context.Context, itemID string) (*model.ShoppingListItem, error) {
	var entry model.ShoppingListItem
	err := r.DB.GetContext(ctx, &entry,
		`SELECT * FROM shopping_list_items WHERE inventory_item_id = $1 LIMIT 1`, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PGRepository) Create(ctx context.Context, entry *model.ShoppingListItem) error {
	query := `
        INSERT INTO shopping_list_items (
            id, title, quantity, is_purchased, is_manual, inventory_item_id,
            created_at, updated_at
        )
        VALUES (
            :id, :title, :quantity, :is_purchased, :is_manual, :inventory_item_id,
            :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, entry)
	return err
}

func (r *PGRepository) Update(ctx context.Context, entry *model.ShoppingListItem) error {
	query := `
        UPDATE shopping_list_items SET
            title = :title,
            quantity = :quantity,
            is_purchased = :is_purchased,
            updated_at = now()
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, entry)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM shopping_list_items WHERE id = $1`, id)
	return err
}

func (r *PGRepository) SetPurchasedWhere(ctx context.Context, ids []string, purchased bool) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(
		`UPDATE shopping_list_items SET is_purchased = ?, updated_at = now() WHERE id IN (?)`,
		purchased, ids)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, r.DB.Rebind(query), args...)
	return err
}

func (r *PGRepository) ClearPurchased(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE shopping_list_items SET is_purchased = false, updated_at = now() WHERE is_purchased = true`)
	return err
}
