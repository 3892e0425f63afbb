package mysql

import (
	"context"
	"database/sql"

	"github.com/koustreak/sqlconsole/internal/database"
	"github.com/koustreak/sqlconsole/internal/dialect"
	"github.com/koustreak/sqlconsole/internal/errs"

	_ "github.com/go-sql-driver/mysql" // register "mysql" driver
)

// readOnlySession makes every transaction on a pinned connection read-only.
const readOnlySession = "SET SESSION TRANSACTION READ ONLY"

// Driver is a MySQL implementation of database.DB backed by database/sql.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	database.SQLPool
}

// New opens a MySQL connection pool using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	dsn, err := buildDSN(cfg.Conn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}
	cfg.Configure(db)

	d := &Driver{SQLPool: database.SQLPool{DB: db, MapError: mapError}}
	if cfg.ReadOnly {
		d.OnAcquire = []string{readOnlySession}
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

func (d *Driver) Dialect() dialect.Dialect { return dialect.MySQL }
