// Package dialect knows how each supported SQL backend spells the console's
// fixed set of introspection statements.
//
// A Dialect is chosen once from configuration and then passed explicitly to
// every call; nothing in this package keeps a "current" dialect.
package dialect

import (
	"strings"

	"github.com/koustreak/sqlconsole/internal/errs"
)

// Dialect identifies the database engine behind the host application.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

// All lists the supported dialects in a stable order.
var All = []Dialect{SQLite, MySQL, Postgres}

// Valid reports whether d is one of the supported dialects.
func (d Dialect) Valid() bool {
	switch d {
	case SQLite, MySQL, Postgres:
		return true
	}
	return false
}

func (d Dialect) String() string { return string(d) }

// Descriptor is the parsed form of the host's "<dialect>:<locator>"
// connection string. Locator is a file path for SQLite and a DSN or
// "//user:pass@host/db" URL tail for the network engines.
type Descriptor struct {
	Dialect Dialect
	Locator string
}

// Parse splits a connection string on its first colon and validates the
// dialect half. It fails with ErrKindUnsupportedDialect for anything outside
// the supported set.
func Parse(conn string) (Descriptor, error) {
	name, locator, ok := strings.Cut(strings.TrimSpace(conn), ":")
	if !ok {
		return Descriptor{}, errs.Newf(errs.ErrKindUnsupportedDialect,
			"connection string %q has no dialect prefix", conn)
	}

	d := Dialect(strings.ToLower(name))
	if !d.Valid() {
		return Descriptor{}, errs.Newf(errs.ErrKindUnsupportedDialect,
			"unsupported dialect: %s", name)
	}
	if locator == "" {
		return Descriptor{}, errs.Newf(errs.ErrKindInvalidInput,
			"connection string %q has an empty locator", conn)
	}

	return Descriptor{Dialect: d, Locator: locator}, nil
}

// String reassembles the descriptor into its configuration form.
func (c Descriptor) String() string {
	return string(c.Dialect) + ":" + c.Locator
}

// URL reports whether the locator is written as a URL tail ("//host/db"),
// in which case the full URL is the original connection string.
func (c Descriptor) URL() bool {
	return strings.HasPrefix(c.Locator, "//")
}
