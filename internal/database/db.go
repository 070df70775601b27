package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Dialects understood by Open and Migrate.
const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

// ErrUnsupportedDSN is returned when the connection string has an unknown scheme.
var ErrUnsupportedDSN = errors.New("unsupported database uri")

// ParseURI splits a store connection string into its dialect and the
// driver-specific DSN.  Accepted forms are sqlite://<path> and
// mysql://<go-sql-driver dsn>.
func ParseURI(uri string) (dialect, dsn string, err error) {
	switch {
	case strings.HasPrefix(uri, "sqlite://"):
		path := strings.TrimPrefix(uri, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDSN)
		}
		return DialectSQLite, sqliteDSN(path), nil
	case strings.HasPrefix(uri, "mysql://"):
		dsn := strings.TrimPrefix(uri, "mysql://")
		if dsn == "" {
			return "", "", fmt.Errorf("%w: empty mysql dsn", ErrUnsupportedDSN)
		}
		return DialectMySQL, mysqlDSN(dsn), nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, uri)
}

// parseTime=true -> DATETIME -> time.Time | multiStatements lets migrations carry several statements
func mysqlDSN(dsn string) string {
	params := []string{"charset=utf8mb4", "parseTime=true", "loc=UTC", "multiStatements=true"}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	var missing []string
	for _, p := range params {
		key := p[:strings.Index(p, "=")+1]
		if !strings.Contains(dsn, key) {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return dsn
	}
	return dsn + sep + strings.Join(missing, "&")
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Open connects to the store named by uri and verifies the connection.
func Open(uri string) (*sqlx.DB, error) {
	dialect, dsn, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(dialect, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	if dialect == DialectSQLite {
		// one writer at a time; a single connection avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
