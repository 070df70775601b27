package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movielist/internal/database"
)

// NewStore returns a migrated SQLite database in a per-test temp directory.
// The handle is closed when the test finishes.
func NewStore(t testing.TB) *sqlx.DB {
	t.Helper()
	uri := "sqlite://" + filepath.Join(t.TempDir(), "movies.db")
	require.NoError(t, database.Migrate(uri))

	db, err := database.Open(uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
