package database

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestNew(t *testing.T) {
	db := newTestDB(t)

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}
}

func TestInitialize(t *testing.T) {
	db := newTestDB(t)

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	// Verify tables were created
	tables := []string{
		"chat_messages",
		"facts",
	}

	for _, table := range tables {
		var name string
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		err := db.QueryRow(query, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestInitialize_Indexes(t *testing.T) {
	db := newTestDB(t)

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	indexes := []string{
		"idx_chat_messages_ts",
		"idx_facts_key",
		"idx_facts_remind_at",
	}

	for _, index := range indexes {
		var name string
		query := "SELECT name FROM sqlite_master WHERE type='index' AND name=?"
		err := db.QueryRow(query, index).Scan(&name)
		if err != nil {
			t.Errorf("Index %s was not created: %v", index, err)
		}
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	db := newTestDB(t)

	// Initialize multiple times - should not error
	if err := db.Initialize(); err != nil {
		t.Fatalf("First initialization failed: %v", err)
	}

	if err := db.Initialize(); err != nil {
		t.Fatalf("Second initialization failed: %v", err)
	}
}

func TestInitialize_RemindedMigration(t *testing.T) {
	db := newTestDB(t)

	// Simulate a pre-migration database: facts table without reminded column
	_, err := db.Exec(`CREATE TABLE facts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		remind_at TIMESTAMP,
		resolved BOOLEAN NOT NULL DEFAULT 0
	)`)
	if err != nil {
		t.Fatalf("Failed to create legacy facts table: %v", err)
	}

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('facts') WHERE name = 'reminded'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check reminded column: %v", err)
	}
	if count != 1 {
		t.Error("Expected reminded column to be added by migration")
	}
}

func TestDatabase_InsertAndQuery(t *testing.T) {
	db := newTestDB(t)

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	_, err := db.Exec(`INSERT INTO chat_messages (role, content) VALUES (?, ?)`,
		"user", "hello there")
	if err != nil {
		t.Fatalf("Failed to insert message: %v", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM chat_messages WHERE role = 'user'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query messages: %v", err)
	}

	if count != 1 {
		t.Errorf("Expected 1 message, got %d", count)
	}
}
