// Package sqlite implements database.DB over the pure-Go modernc.org/sqlite
// driver. A Trac environment keeps its SQLite file relative to the
// environment directory, so relative paths resolve against Config.BaseDir.
package sqlite

import (
	"context"
	"database/sql"
	"net/url"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // register "sqlite" driver

	"github.com/koustreak/sqlconsole/internal/database"
	"github.com/koustreak/sqlconsole/internal/dialect"
	"github.com/koustreak/sqlconsole/internal/errs"
)

const memory = ":memory:"

// queryOnly rejects writes on a pinned connection even when the file itself
// was opened read-write.
const queryOnly = "PRAGMA query_only = ON"

// Driver is a SQLite implementation of database.DB.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	database.SQLPool
	path string
}

// New opens the SQLite file named by cfg.Conn and pings it.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	path, dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}
	cfg.Configure(db)

	d := &Driver{SQLPool: database.SQLPool{DB: db, MapError: mapError}, path: path}
	if cfg.ReadOnly {
		d.OnAcquire = []string{queryOnly}
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

func (d *Driver) Dialect() dialect.Dialect { return dialect.SQLite }

// Path is the resolved database file.
func (d *Driver) Path() string { return d.path }

// buildDSN resolves the locator and returns both the file path and the URI
// handed to the driver. Read-only configs open the file with mode=ro.
func buildDSN(cfg *database.Config) (string, string, error) {
	path := cfg.Conn.Locator
	if path == "" {
		return "", "", errs.New(errs.ErrKindInvalidInput, "sqlite locator is empty")
	}
	if path == memory {
		return path, path, nil
	}

	path, rawQuery, _ := strings.Cut(path, "?")
	if !filepath.IsAbs(path) && cfg.BaseDir != "" {
		path = filepath.Join(cfg.BaseDir, path)
	}

	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", "", errs.Wrap(errs.ErrKindInvalidInput, "invalid sqlite parameters", err)
	}
	if cfg.ReadOnly && params.Get("mode") == "" {
		params.Set("mode", "ro")
	}

	dsn := "file:" + path
	if len(params) > 0 {
		dsn += "?" + params.Encode()
	}
	return path, dsn, nil
}
