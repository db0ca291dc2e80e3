package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PrefsAlertStore implements service.AlertStore over the app_prefs table.
// The single shared SQLite connection serializes concurrent checks, so two
// callers can never both read "not yet sent" for the same flag.
type PrefsAlertStore struct {
	db *sql.DB
}

// Get returns the stored flag, false if absent.
func (p *PrefsAlertStore) Get(ctx context.Context, key string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	var value bool
	err := p.db.QueryRowContext(ctx, `SELECT value FROM app_prefs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read pref %s: %w", key, err)
	}
	return value, nil
}

// Set stores a flag value, overwriting any existing one.
func (p *PrefsAlertStore) Set(ctx context.Context, key string, value bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO app_prefs (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write pref %s: %w", key, err)
	}
	return nil
}

// Remove deletes a flag; removing an absent key is not an error.
func (p *PrefsAlertStore) Remove(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := p.db.ExecContext(ctx, `DELETE FROM app_prefs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove pref %s: %w", key, err)
	}
	return nil
}

// Keys returns all preference keys in sorted order.
func (p *PrefsAlertStore) Keys(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := p.db.QueryContext(ctx, `SELECT key FROM app_prefs ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list prefs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan pref key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pref keys: %w", err)
	}
	return keys, nil
}
