package database

import (
	"context"

	"github.com/koustreak/sqlconsole/internal/dialect"
)

// DB is the central contract for the host database.
// Layers above this package talk only to this interface;
// they never import the sqlite, mysql or postgres packages directly.
type DB interface {
	// Dialect reports which engine the connection speaks.
	Dialect() dialect.Dialect

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Acquire pins one connection for the caller. Statements that depend on
	// session state (the MySQL row-limit pragma) must share a Session.
	// The caller must Close the session on every path.
	Acquire(ctx context.Context) (Session, error)

	// Close releases all resources held by the connection pool.
	Close()
}

// Session is a single pinned connection.
type Session interface {
	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// Exec executes a SQL statement whose result is discarded.
	Exec(ctx context.Context, sql string, args ...any) error

	// Discard closes the underlying connection so it never returns to the
	// pool. Use it when session state could not be restored. Close must
	// still be called afterwards.
	Discard()

	// Close returns the connection to the pool.
	Close() error
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Columns returns the column names of the result set.
	Columns() ([]string, error)

	// Close releases resources held by the result set.
	Close()

	// Err returns any error encountered during iteration.
	Err() error
}
