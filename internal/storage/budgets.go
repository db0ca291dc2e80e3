package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kanakku-money/kanakku/internal/common"
	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/shopspring/decimal"
)

// SaveBudget inserts a budget (or updates it when ID is set) and fills the
// generated ID back in.
func (s *SQLiteStorage) SaveBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if budget == nil {
		return fmt.Errorf("budget cannot be nil")
	}
	if budget.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", common.ErrInvalidBudget)
	}

	var category sql.NullString
	if budget.CategoryID != nil && *budget.CategoryID != "" {
		category = sql.NullString{String: *budget.CategoryID, Valid: true}
	}

	if budget.ID > 0 {
		_, err := s.db.ExecContext(ctx, `
			UPDATE budgets SET category_id = ?, amount = ?, period = ?, start_date = ?
			WHERE id = ?
		`, category, budget.Amount.String(), string(budget.Period), budget.StartDate.UTC(), budget.ID)
		if err != nil {
			return fmt.Errorf("failed to update budget %d: %w", budget.ID, err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (category_id, amount, period, start_date)
		VALUES (?, ?, ?, ?)
	`, category, budget.Amount.String(), string(budget.Period), budget.StartDate.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read budget id: %w", err)
	}
	budget.ID = id
	return nil
}

// GetBudgets returns all budgets.
func (s *SQLiteStorage) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, amount, period, start_date FROM budgets ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		var category sql.NullString
		var amount string
		var start time.Time

		if err := rows.Scan(&b.ID, &category, &amount, &b.Period, &start); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}

		b.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt budget amount %q: %w", amount, err)
		}
		if category.Valid {
			c := category.String
			b.CategoryID = &c
		}
		b.StartDate = start

		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes a budget; deleting an unknown ID is common.ErrNotFound.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("budget %d: %w", id, common.ErrNotFound)
	}
	return nil
}
