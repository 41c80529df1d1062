package internal

import (
	"database/sql"
	"encoding/json"
)

// StorageBackend persists the full session store as one serialized blob
// under a fixed key. LoadState never fails: missing or malformed data
// degrades to the empty state. SaveState is best effort; a failed write does
// not invalidate the in-memory state.
type StorageBackend interface {
	LoadState() StoreState
	SaveState(state StoreState) error
}

// SQLiteBackend stores the session state in the local SQLite key-value table
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend creates a backend on an open state database
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// LoadState reads and normalizes the persisted state blob
func (b *SQLiteBackend) LoadState() StoreState {
	value, ok, err := QueryValue(b.db, StateKey)
	if err != nil {
		LogWarn("Failed to read persisted sessions, starting empty: %v", err)
		return EmptyState()
	}
	if !ok {
		return EmptyState()
	}
	return DecodeState([]byte(value))
}

// SaveState serializes the state and overwrites the stored blob
func (b *SQLiteBackend) SaveState(state StoreState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return &StorageError{Path: StateKey, Op: "write", Err: err}
	}
	if err := PutValue(b.db, StateKey, string(data)); err != nil {
		return &StorageError{Path: StateKey, Op: "write", Err: err}
	}
	return nil
}
