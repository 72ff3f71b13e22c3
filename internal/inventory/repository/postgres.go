package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tinttrack/inventory-service/internal/inventory/dto"
	"github.com/tinttrack/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	query := `SELECT * FROM inventory_items WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) ([]model.InventoryItem, error) {
	if len(ids) == 0 {
		return []model.InventoryItem{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM inventory_items WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var items []model.InventoryItem
	err = r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ItemFilters) ([]model.InventoryItem, int, error) {
	var items []model.InventoryItem
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if !f.IncludeArchived {
		conditions = append(conditions, "is_archived = false")
	}
	if f.LowStock {
		// Archived rows are already excluded above; low stock never
		// includes archived items regardless.
		conditions = append(conditions, "is_archived = false AND current_stock_grams <= low_stock_threshold_grams")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_items" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_items" + whereClause + " ORDER BY created_at ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	query := `
        INSERT INTO inventory_items (
            id, category_id, fields, current_stock_grams,
            low_stock_threshold_grams, unit_size_grams, is_archived,
            created_at, updated_at
        )
        VALUES (
            :id, :category_id, :fields, :current_stock_grams,
            :low_stock_threshold_grams, :unit_size_grams, :is_archived,
            :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	query := `
        UPDATE inventory_items SET
            category_id = :category_id,
            fields = :fields,
            current_stock_grams = :current_stock_grams,
            low_stock_threshold_grams = :low_stock_threshold_grams,
            unit_size_grams = :unit_size_grams,
            is_archived = :is_archived,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

const insertTransactionQuery = `
    INSERT INTO inventory_transactions (
        id, inventory_item_id, delta_grams, reason, visit_id, notes,
        created_by, occurred_at
    )
    VALUES (
        :id, :inventory_item_id, :delta_grams, :reason, :visit_id, :notes,
        :created_by, :occurred_at
    )
`

func (r *PGRepository) AdjustStockWithTransaction(ctx context.Context, item *model.InventoryItem, txn *model.InventoryTransaction) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateQuery := `
        UPDATE inventory_items SET
            current_stock_grams = :current_stock_grams,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err = tx.NamedExecContext(ctx, updateQuery, item); err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	if _, err = tx.NamedExecContext(ctx, insertTransactionQuery, txn); err != nil {
		return fmt.Errorf("failed to append ledger transaction: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) ApplyTransaction(ctx context.Context, txn *model.InventoryTransaction) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateQuery := `
        UPDATE inventory_items SET
            current_stock_grams = current_stock_grams + $1,
            updated_at = now()
        WHERE id = $2
    `
	if _, err = tx.ExecContext(ctx, updateQuery, txn.DeltaGrams, txn.InventoryItemID); err != nil {
		return fmt.Errorf("failed to apply stock delta: %w", err)
	}

	if _, err = tx.NamedExecContext(ctx, insertTransactionQuery, txn); err != nil {
		return fmt.Errorf("failed to append ledger transaction: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) TransactionExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM inventory_transactions WHERE id = $1)`, id)
	return exists, err
}

func (r *PGRepository) ListTransactions(ctx context.Context, f *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	var txns []model.InventoryTransaction
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ItemID != "" {
		conditions = append(conditions, "inventory_item_id = :inventory_item_id")
		args["inventory_item_id"] = f.ItemID
	}
	if f.VisitID != "" {
		conditions = append(conditions, "visit_id = :visit_id")
		args["visit_id"] = f.VisitID
	}
	if f.Reason != "" {
		conditions = append(conditions, "reason = :reason")
		args["reason"] = f.Reason
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_transactions" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_transactions" + whereClause + " ORDER BY occurred_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &txns, args)
	return txns, count, err
}
