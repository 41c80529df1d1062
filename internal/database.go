package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// StateKey is the fixed key the full session store is persisted under. It
// matches the localStorage key used by the playground web UI so both front
// ends read the same state shape.
const StateKey = "cbt-mcp-playground.sessions"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS playgroundKV (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// OpenDatabase opens the local SQLite state database, creating the key-value
// table on first use.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("create table: %w", err)}
	}

	return db, nil
}

// QueryValue reads one value from the key-value table. The second return is
// false when the key is absent.
func QueryValue(db *sql.DB, key string) (string, bool, error) {
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM playgroundKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query failed: %w", err)
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// PutValue writes one value into the key-value table, overwriting any prior
// value under the same key.
func PutValue(db *sql.DB, key, value string) error {
	_, err := db.Exec(
		"INSERT INTO playgroundKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}
