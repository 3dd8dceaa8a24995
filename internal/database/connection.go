package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported values of DB_TYPE
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Connect opens the database and creates the schema if it is missing.
// For sqlite dsn is a file path (or ":memory:"), for postgres a connection URL.
func Connect(dbType, dsn string) (*sqlx.DB, error) {
	driver, err := driverName(dbType)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite3" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers; a single connection also keeps :memory: alive
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func driverName(dbType string) (string, error) {
	switch strings.ToLower(dbType) {
	case "", TypeSQLite, "sqlite3":
		return "sqlite3", nil
	case TypePostgres, "postgresql":
		return "postgres", nil
	}
	return "", fmt.Errorf("unsupported database type: %s", dbType)
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	statements := []struct {
		table string
		ddl   string
	}{
		{"words", `
			CREATE TABLE IF NOT EXISTS words (
				` + idColumn + `,
				word TEXT NOT NULL,
				category TEXT NOT NULL DEFAULT '',
				meaning TEXT NOT NULL DEFAULT '',
				example TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(word, category)
			)`},
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				chat_id BIGINT PRIMARY KEY,
				username TEXT NOT NULL DEFAULT '',
				severity TEXT NOT NULL DEFAULT 'light',
				notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
				notification_hour INTEGER NOT NULL DEFAULT 9,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`},
		{"kv_store", `
			CREATE TABLE IF NOT EXISTS kv_store (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`},
	}

	for _, st := range statements {
		if _, err := db.Exec(st.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", st.table, err)
		}
	}
	return nil
}
