// Package connect opens the database.DB implementation matching a
// connection string's dialect. It is the only package that imports every
// driver.
package connect

import (
	"context"

	"github.com/koustreak/sqlconsole/internal/database"
	"github.com/koustreak/sqlconsole/internal/database/mysql"
	"github.com/koustreak/sqlconsole/internal/database/postgres"
	"github.com/koustreak/sqlconsole/internal/database/sqlite"
	"github.com/koustreak/sqlconsole/internal/dialect"
	"github.com/koustreak/sqlconsole/internal/errs"
)

// Open connects to the database described by cfg.Conn.
func Open(ctx context.Context, cfg *database.Config) (database.DB, error) {
	var (
		db  database.DB
		err error
	)

	switch cfg.Conn.Dialect {
	case dialect.SQLite:
		db, err = sqlite.New(ctx, cfg)
	case dialect.MySQL:
		db, err = mysql.New(ctx, cfg)
	case dialect.Postgres:
		db, err = postgres.New(ctx, cfg)
	default:
		return nil, errs.Newf(errs.ErrKindUnsupportedDialect, "unsupported dialect: %s", cfg.Conn.Dialect)
	}

	// Keep a typed nil driver out of the interface.
	if err != nil {
		return nil, err
	}
	return db, nil
}
