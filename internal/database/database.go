package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// New opens (or creates) the SQLite database at the given path.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite handles one writer at a time; keep the pool small
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	log.Println("✅ SQLite database connected")

	return &DB{db}, nil
}

// Initialize creates all required tables and runs schema migrations
func (db *DB) Initialize() error {
	log.Println("🔍 Checking database schema...")

	schema := []string{
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			ts TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS facts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			remind_at TIMESTAMP,
			resolved BOOLEAN NOT NULL DEFAULT 0,
			reminded BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_ts ON chat_messages(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_facts_key ON facts(key)`,
		`CREATE INDEX IF NOT EXISTS idx_facts_remind_at ON facts(remind_at)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if err := db.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database schema ready")
	return nil
}

// runMigrations runs database migrations for schema updates on existing databases
func (db *DB) runMigrations() error {
	columnExists := func(tableName, columnName string) (bool, error) {
		var count int
		query := `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`
		err := db.QueryRow(query, tableName, columnName).Scan(&count)
		if err != nil {
			return false, err
		}
		return count > 0, nil
	}

	// Migration: add reminded column to facts (databases created before reminder dedup)
	if exists, _ := columnExists("facts", "reminded"); !exists {
		log.Println("📦 Running migration: Adding reminded to facts table")
		if _, err := db.Exec("ALTER TABLE facts ADD COLUMN reminded BOOLEAN NOT NULL DEFAULT 0"); err != nil {
			return fmt.Errorf("failed to add reminded to facts: %w", err)
		}
		log.Println("✅ Migration completed: facts.reminded added")
	}

	return nil
}
