package database

import (
	"database/sql"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// InitDB opens the raw handle used for the undo and redo history tables.
func InitDB(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// enable write-ahead Logging so the GORM handle and this one can share the file
	_, err = db.Exec("PRAGMA journal_mode=WAL;")
	if err != nil {
		log.Printf("warning: failed to set WAL mode: %v", err)
	}
	_, err = db.Exec("PRAGMA busy_timeout=5000;")
	if err != nil {
		log.Printf("warning: failed to set busy timeout: %v", err)
	}

	sqlStmt := `
	CREATE TABLE IF NOT EXISTS history_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stack TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_snapshots_stack ON history_snapshots(stack, id);
	`
	_, err = db.Exec(sqlStmt)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history_snapshots table: %w", err)
	}

	log.Println("database initialized successfully at", dataSourceName)
	return db, nil
}
