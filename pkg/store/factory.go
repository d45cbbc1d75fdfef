package store

import (
	"fmt"
	"path/filepath"

	prefs "github.com/goliatone/go-prefs"
)

// New creates a backing store based on the backend name.
//
// Supported backends:
//
//	"file"   - JSON file in dataDir (default)
//	"sqlite" - SQLite database at dataDir/prefs.db
//	"memory" - in-memory (ephemeral, for testing)
func New(backend, dataDir string) (prefs.Store, error) {
	switch backend {
	case "file", "":
		return NewFileStore(dataDir)
	case "sqlite":
		return NewSQLiteStore(filepath.Join(dataDir, "prefs.db"))
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q (supported: file, sqlite, memory)", backend)
	}
}
