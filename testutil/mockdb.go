package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite state database for testing
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS playgroundKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create playgroundKV table: %v", err)
	}

	return db
}

// SeedValue inserts a raw key-value pair into the state database
func SeedValue(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO playgroundKV (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to seed value for key %s: %v", key, err)
	}
}
