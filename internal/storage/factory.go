package storage

import (
	"fmt"
	"path/filepath"
)

// DefaultSQLiteFile is the database file used when a sqlite store is given
// a directory.
const DefaultSQLiteFile = "runs.db"

// NewStore returns the backend named by kind. For "fs" path is the data
// directory; for "sqlite" it is the database file, or a directory to hold
// DefaultSQLiteFile.
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", "fs":
		return NewFSStore(path), nil
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, DefaultSQLiteFile)
		}
		return newSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}
