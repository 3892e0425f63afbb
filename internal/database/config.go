package database

import (
	"time"

	"github.com/koustreak/sqlconsole/internal/dialect"
)

// Config holds all settings needed to connect to and pool the host database.
type Config struct {
	// Conn is the parsed "<dialect>:<locator>" connection string.
	Conn dialect.Descriptor

	// BaseDir resolves relative SQLite paths (the host environment directory).
	BaseDir string

	// ReadOnly opens the connection in the engine's read-only mode where the
	// driver offers one (SQLite mode=ro, session read-only transactions).
	ReadOnly bool

	// Pool tuning
	MaxConns        int32         // maximum number of connections in the pool
	MinConns        int32         // minimum number of idle connections kept alive
	MaxConnLifetime time.Duration // maximum time a connection may be reused
	MaxConnIdleTime time.Duration // maximum time a connection may sit idle

	// ConnectTimeout bounds the initial ping. Queries carry no deadline of
	// their own; they run until the driver returns or the caller's context ends.
	ConnectTimeout time.Duration
}

// DefaultConfig returns pool settings suited to an admin console: a handful
// of connections, read-only, with a short connect timeout.
func DefaultConfig(conn dialect.Descriptor) *Config {
	return &Config{
		Conn:            conn,
		ReadOnly:        true,
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		ConnectTimeout:  10 * time.Second,
	}
}
