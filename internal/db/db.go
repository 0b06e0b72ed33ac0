// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

// Package db provides SQLite database access for the run history.
package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// GetDefaultDBPath returns the default database path (~/.cicd-hello/history.db).
// It creates the directory if it doesn't exist.
func GetDefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, ".cicd-hello")
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	return filepath.Join(dataDir, "history.db"), nil
}

// ResolvePath returns configured if set, otherwise the default path.
// The parent directory of a configured path is created if missing.
func ResolvePath(configured string) (string, error) {
	if configured == "" {
		return GetDefaultDBPath()
	}
	if configured == MemoryPath {
		return configured, nil
	}
	if err := os.MkdirAll(filepath.Dir(configured), 0750); err != nil {
		return "", fmt.Errorf("creating database directory: %w", err)
	}
	return configured, nil
}

// Open opens or creates a SQLite database at the specified path.
// Use ":memory:" for an in-memory database (useful for testing).
func Open(dbPath string) (*sql.DB, error) {
	slog.Debug("opening database", "component", "db", "path", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		slog.Error("failed to open database", "component", "db", "path", dbPath, "error", err)
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every new connection to :memory: is a separate empty database
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return db, nil
}

// OpenAndMigrate resolves the path, opens the database and runs pending migrations.
func OpenAndMigrate(configured string) (*sql.DB, error) {
	dbPath, err := ResolvePath(configured)
	if err != nil {
		return nil, fmt.Errorf("getting database path: %w", err)
	}

	database, err := Open(dbPath)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(database); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}

// Close closes the database connection.
func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	slog.Debug("closing database", "component", "db")
	if err := db.Close(); err != nil {
		slog.Error("failed to close database", "component", "db", "error", err)
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}
