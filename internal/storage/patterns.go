package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kanakku-money/kanakku/internal/common"
	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/shopspring/decimal"
)

// SaveRecurringPatterns upserts detected patterns keyed by (merchant, amount).
// A re-detection refreshes intervals and next-expected dates but preserves
// the user-confirmed flag.
func (s *SQLiteStorage) SaveRecurringPatterns(ctx context.Context, patterns []model.RecurringPattern) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(patterns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recurring_patterns
			(merchant_pattern, amount, frequency, type, transaction_ids, average_interval, next_expected, is_user_confirmed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (merchant_pattern, amount) DO UPDATE SET
			frequency = excluded.frequency,
			type = excluded.type,
			transaction_ids = excluded.transaction_ids,
			average_interval = excluded.average_interval,
			next_expected = excluded.next_expected
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range patterns {
		p := &patterns[i]
		ids, err := json.Marshal(p.TransactionIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction ids: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			p.MerchantPattern, p.Amount.String(), string(p.Frequency), string(p.Type),
			string(ids), p.AverageInterval, p.NextExpected.UTC(), p.IsUserConfirmed); err != nil {
			return fmt.Errorf("failed to upsert pattern %s: %w", p.MerchantPattern, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit patterns: %w", err)
	}
	return nil
}

// GetRecurringPatterns returns all stored patterns, next occurrence first.
func (s *SQLiteStorage) GetRecurringPatterns(ctx context.Context) ([]model.RecurringPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT merchant_pattern, amount, frequency, type, transaction_ids,
		       average_interval, next_expected, is_user_confirmed
		FROM recurring_patterns ORDER BY next_expected ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []model.RecurringPattern
	for rows.Next() {
		var p model.RecurringPattern
		var amount, ids string
		var next time.Time

		if err := rows.Scan(&p.MerchantPattern, &amount, &p.Frequency, &p.Type,
			&ids, &p.AverageInterval, &next, &p.IsUserConfirmed); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}

		p.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt pattern amount %q: %w", amount, err)
		}
		if err := json.Unmarshal([]byte(ids), &p.TransactionIDs); err != nil {
			return nil, fmt.Errorf("corrupt transaction ids: %w", err)
		}
		p.NextExpected = next

		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patterns: %w", err)
	}
	return patterns, nil
}

// ConfirmRecurringPattern marks one stored pattern as user confirmed.
func (s *SQLiteStorage) ConfirmRecurringPattern(ctx context.Context, merchantPattern string, amount decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(merchantPattern, "merchantPattern"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE recurring_patterns SET is_user_confirmed = 1
		WHERE merchant_pattern = ? AND amount = ?
	`, merchantPattern, amount.String())
	if err != nil {
		return fmt.Errorf("failed to confirm pattern: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check confirm result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("pattern %s: %w", merchantPattern, common.ErrNotFound)
	}
	return nil
}
