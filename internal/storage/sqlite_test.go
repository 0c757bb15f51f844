//go:build sqlite

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db")))
}

func TestSQLiteStore_NotInitialized(t *testing.T) {
	st := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if _, err := st.List(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestNewStore_SQLiteDirectory(t *testing.T) {
	st, err := NewStore("sqlite", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	_ = st.Close()
}
