package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/kanakku-money/kanakku/internal/storage"
	"github.com/spf13/viper"
)

// initStorage opens the configured database and runs pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "kanakku", "kanakku.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}

	return store, nil
}

// alertSettingsFromConfig reads the alert toggles from viper.
func alertSettingsFromConfig() model.AlertSettings {
	return model.AlertSettings{
		Enabled:            viper.GetBool("alerts.enabled"),
		NotifyAt80Percent:  viper.GetBool("alerts.notify_at_80"),
		NotifyAt100Percent: viper.GetBool("alerts.notify_at_100"),
	}
}
