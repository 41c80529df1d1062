package internal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/tsfarizi/cbt-mcp-playground/testutil"
)

func TestOpenDatabase(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "state.db")

	db, err := OpenDatabase(path)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	// The key-value table exists and is usable right away
	if err := PutValue(db, "k", "v"); err != nil {
		t.Fatalf("PutValue() error = %v", err)
	}
	value, ok, err := QueryValue(db, "k")
	if err != nil {
		t.Fatalf("QueryValue() error = %v", err)
	}
	if !ok || value != "v" {
		t.Errorf("QueryValue() = (%q, %v), want (v, true)", value, ok)
	}
}

func TestOpenDatabase_BadPath(t *testing.T) {
	_, err := OpenDatabase(filepath.Join("/nonexistent-root-dir", "state.db"))
	if err == nil {
		t.Fatal("OpenDatabase() succeeded on unwritable path")
	}
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("error = %T, want *StorageError", err)
	}
}

func TestQueryValue_MissingKey(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)

	value, ok, err := QueryValue(db, "absent")
	if err != nil {
		t.Fatalf("QueryValue() error = %v", err)
	}
	if ok || value != "" {
		t.Errorf("QueryValue() = (%q, %v), want empty and false", value, ok)
	}
}

func TestPutValue_Overwrites(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)

	if err := PutValue(db, StateKey, "first"); err != nil {
		t.Fatalf("PutValue() error = %v", err)
	}
	if err := PutValue(db, StateKey, "second"); err != nil {
		t.Fatalf("PutValue() overwrite error = %v", err)
	}
	value, ok, err := QueryValue(db, StateKey)
	if err != nil {
		t.Fatalf("QueryValue() error = %v", err)
	}
	if !ok || value != "second" {
		t.Errorf("QueryValue() = (%q, %v), want (second, true)", value, ok)
	}
}
