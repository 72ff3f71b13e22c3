package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/internal/visit/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateWithConsumption(ctx context.Context, v *model.Visit, txns []model.InventoryTransaction) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	visitQuery := `
        INSERT INTO visits (id, client_id, visited_at, notes, created_at, updated_at)
        VALUES (:id, :client_id, :visited_at, :notes, :created_at, :updated_at)
    `
	if _, err = tx.NamedExecContext(ctx, visitQuery, v); err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}

	formulaQuery := `
        INSERT INTO formulas (id, visit_id, name, sort_order, created_at, updated_at)
        VALUES (:id, :visit_id, :name, :sort_order, :created_at, :updated_at)
    `
	lineQuery := `
        INSERT INTO formula_line_items (id, formula_id, inventory_item_id, amount_used_grams)
        VALUES (:id, :formula_id, :inventory_item_id, :amount_used_grams)
    `
	for i := range v.Formulas {
		f := &v.Formulas[i]
		if _, err = tx.NamedExecContext(ctx, formulaQuery, f); err != nil {
			return fmt.Errorf("failed to insert formula: %w", err)
		}
		for j := range f.LineItems {
			if _, err = tx.NamedExecContext(ctx, lineQuery, &f.LineItems[j]); err != nil {
				return fmt.Errorf("failed to insert line item: %w", err)
			}
		}
	}

	stockQuery := `
        UPDATE inventory_items SET
            current_stock_grams = current_stock_grams + $1,
            updated_at = now()
        WHERE id = $2
    `
	txnQuery := `
        INSERT INTO inventory_transactions (
            id, inventory_item_id, delta_grams, reason, visit_id, notes,
            created_by, occurred_at
        )
        VALUES (
            :id, :inventory_item_id, :delta_grams, :reason, :visit_id, :notes,
            :created_by, :occurred_at
        )
    `
	for i := range txns {
		txn := &txns[i]
		if _, err = tx.ExecContext(ctx, stockQuery, txn.DeltaGrams, txn.InventoryItemID); err != nil {
			return fmt.Errorf("failed to apply stock delta: %w", err)
		}
		if _, err = tx.NamedExecContext(ctx, txnQuery, txn); err != nil {
			return fmt.Errorf("failed to append ledger transaction: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Visit, error) {
	var v model.Visit
	err := r.DB.GetContext(ctx, &v, `SELECT * FROM visits WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadFormulas(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) loadFormulas(ctx context.Context, v *model.Visit) error {
	var formulas []model.Formula
	err := r.DB.SelectContext(ctx, &formulas,
		`SELECT * FROM formulas WHERE visit_id = $1 ORDER BY sort_order ASC`, v.ID)
	if err != nil {
		return err
	}

	for i := range formulas {
		var lines []model.FormulaLineItem
		err = r.DB.SelectContext(ctx, &lines,
			`SELECT * FROM formula_line_items WHERE formula_id = $1`, formulas[i].ID)
		if err != nil {
			return err
		}
		formulas[i].LineItems = lines
	}

	v.Formulas = formulas
	return nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.VisitFilters) ([]model.Visit, int, error) {
	var visits []model.Visit
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ClientID != "" {
		conditions = append(conditions, "client_id = :client_id")
		args["client_id"] = f.ClientID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM visits" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM visits" + whereClause + " ORDER BY visited_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &visits, args)
	return visits, count, err
}
