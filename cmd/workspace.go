package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/camden-git/familyring/config"
	"github.com/camden-git/familyring/database"
	"github.com/camden-git/familyring/family"
	"github.com/camden-git/familyring/metrics"
	"github.com/camden-git/familyring/repository"
	"github.com/camden-git/familyring/workspace"
)

// loadConfig reads the environment and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load configuration: %w", err)
	}
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	return cfg, nil
}

// openWorkspace opens the database, the history stacks and the workspace on
// top of them. The returned func closes the database handles.
func openWorkspace(cfg config.Config, notifier workspace.Notifier, m *metrics.Metrics) (*workspace.Workspace, func(), error) {
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	gormDB, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.AutoMigrateModels(gormDB); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	var historyDB *sql.DB
	closeAll := func() {
		if historyDB != nil {
			historyDB.Close()
		}
		if raw, err := gormDB.DB(); err == nil {
			raw.Close()
		}
	}

	var history *family.History
	if cfg.PersistHistory {
		historyDB, err = database.InitDB(cfg.DatabasePath)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to initialize history tables: %w", err)
		}
		history = family.NewHistory(
			database.NewSnapshotStack(historyDB, database.UndoStack),
			database.NewSnapshotStack(historyDB, database.RedoStack),
			cfg.UndoDepth,
		)
	} else {
		history = family.NewHistory(family.NewMemoryStack(), family.NewMemoryStack(), cfg.UndoDepth)
	}

	ws, err := workspace.Open(workspace.Options{
		Store:       repository.NewPersonRepository(gormDB),
		History:     history,
		Notifier:    notifier,
		Metrics:     m,
		SeedOnEmpty: cfg.SeedOnEmpty,
	})
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	log.Printf("Using database: %s (persisted history: %t, undo depth: %d)", cfg.DatabasePath, cfg.PersistHistory, cfg.UndoDepth)
	return ws, closeAll, nil
}
