package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	cases := []struct {
		name    string
		uri     string
		dialect string
		dsn     string
	}{
		{"sqlite", "sqlite://movies.db", DialectSQLite, "movies.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"},
		{"sqlite with params", "sqlite:///tmp/m.db?mode=rwc", DialectSQLite, "/tmp/m.db?mode=rwc"},
		{"mysql", "mysql://u:p@tcp(db:3306)/movies", DialectMySQL, "u:p@tcp(db:3306)/movies?charset=utf8mb4&parseTime=true&loc=UTC&multiStatements=true"},
		{"mysql keeps params", "mysql://u@tcp(db:3306)/movies?parseTime=true", DialectMySQL, "u@tcp(db:3306)/movies?parseTime=true&charset=utf8mb4&loc=UTC&multiStatements=true"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dialect, dsn, err := ParseURI(tc.uri)
			require.NoError(t, err)
			assert.Equal(t, tc.dialect, dialect)
			assert.Equal(t, tc.dsn, dsn)
		})
	}
}

func TestParseURIRejectsUnknownScheme(t *testing.T) {
	for _, uri := range []string{"postgres://x", "", "sqlite://", "mysql://"} {
		_, _, err := ParseURI(uri)
		assert.ErrorIs(t, err, ErrUnsupportedDSN, uri)
	}
}

func TestMigrateCreatesTablesAndIsIdempotent(t *testing.T) {
	uri := "sqlite://" + filepath.Join(t.TempDir(), "movies.db")

	require.NoError(t, Migrate(uri))
	require.NoError(t, Migrate(uri))

	db, err := Open(uri)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"catalog_movies", "personal_movies"} {
		var n int
		require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table), table)
		assert.Zero(t, n, table)
	}
}
