package testfixtures

import (
	"path/filepath"
	"testing"

	"github.com/example/conference-manager/internal/persistence/sqlite"
)

// NewSQLiteRepository constructs a snapshot repository backed by a temporary
// database file. Cleanup is registered with the provided testing.TB.
func NewSQLiteRepository(tb testing.TB) *sqlite.Repository {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "conference.db")
	repo, err := sqlite.NewRepository(sqlite.DefaultConfig(path))
	if err != nil {
		tb.Fatalf("failed to open snapshot database: %v", err)
	}
	tb.Cleanup(func() {
		if err := repo.Close(); err != nil {
			tb.Errorf("failed to close snapshot database: %v", err)
		}
	})
	return repo
}
