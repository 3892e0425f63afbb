// Package schema browses the host database's catalog: the table list and a
// per-table detail view of columns, row count and indexes.
//
// The browser is stateless. Every call receives the dialect and the pinned
// session to run on.
package schema

import (
	"context"
	"slices"

	"github.com/koustreak/sqlconsole/internal/database"
	"github.com/koustreak/sqlconsole/internal/dialect"
	"github.com/koustreak/sqlconsole/internal/errs"
	"github.com/koustreak/sqlconsole/internal/result"
)

// Browser resolves catalog inquiries through a dialect registry.
type Browser struct {
	reg *dialect.Registry
}

// NewBrowser returns a Browser backed by reg.
func NewBrowser(reg *dialect.Registry) *Browser {
	return &Browser{reg: reg}
}

// run looks up (d, op) and executes it without a row limit.
func (b *Browser) run(ctx context.Context, s database.Session, d dialect.Dialect, op dialect.Operation, args ...string) (*result.ResultSet, error) {
	stmt, err := b.reg.Lookup(d, op, args...)
	if err != nil {
		return nil, err
	}
	return database.Run(ctx, s, stmt, 0)
}

// ListTables returns every table name, sorted lexicographically.
// Duplicates reported by the catalog are kept.
func (b *Browser) ListTables(ctx context.Context, s database.Session, d dialect.Dialect) ([]string, error) {
	rs, err := b.run(ctx, s, d, dialect.ListTables)
	if err != nil {
		return nil, err
	}

	tables := make([]string, 0, rs.Len())
	for _, row := range rs.Rows {
		if len(row) > 0 {
			tables = append(tables, result.AsString(row[0]))
		}
	}
	slices.Sort(tables)
	return tables, nil
}

// ListDatabases returns the engine's database list in its native shape.
func (b *Browser) ListDatabases(ctx context.Context, s database.Session, d dialect.Dialect) (*result.ResultSet, error) {
	return b.run(ctx, s, d, dialect.ListDatabases)
}

// DescribeTable returns columns, row count and indexes for name. The name
// must exactly match an entry of ListTables; otherwise it fails with
// ErrKindTableNotFound and no detail statement is issued.
func (b *Browser) DescribeTable(ctx context.Context, s database.Session, d dialect.Dialect, name string) (*Table, error) {
	tables, err := b.ListTables(ctx, s, d)
	if err != nil {
		return nil, err
	}
	if _, found := slices.BinarySearch(tables, name); !found {
		return nil, errs.Newf(errs.ErrKindTableNotFound, "table not found: %s", name)
	}

	cols, err := b.columns(ctx, s, d, name)
	if err != nil {
		return nil, err
	}

	count, err := b.rowCount(ctx, s, d, name)
	if err != nil {
		return nil, err
	}

	indexes, err := b.indexes(ctx, s, d, name)
	if err != nil {
		return nil, err
	}

	return &Table{Name: name, Columns: cols, RowCount: count, Indexes: indexes}, nil
}

func (b *Browser) columns(ctx context.Context, s database.Session, d dialect.Dialect, table string) ([]Column, error) {
	rs, err := b.run(ctx, s, d, dialect.DescribeTable, table)
	if err != nil {
		return nil, err
	}

	cols := make([]Column, 0, rs.Len())
	for _, row := range rs.Rows {
		cols = append(cols, Column{
			Name:     result.AsString(row[0]),
			SQLType:  result.AsString(row[1]),
			Nullable: result.AsBool(row[2]),
			Default:  result.AsOptionalString(row[3]),
		})
	}
	return cols, nil
}

func (b *Browser) rowCount(ctx context.Context, s database.Session, d dialect.Dialect, table string) (int64, error) {
	rs, err := b.run(ctx, s, d, dialect.RowCount, table)
	if err != nil {
		return 0, err
	}
	if rs.Len() == 0 || len(rs.Rows[0]) == 0 {
		return 0, errs.Newf(errs.ErrKindQueryFailed, "row count for %s returned no rows", table)
	}

	n, ok := result.AsInt64(rs.Rows[0][0])
	if !ok {
		return 0, errs.Newf(errs.ErrKindQueryFailed, "row count for %s is not a number: %v", table, rs.Rows[0][0])
	}
	return n, nil
}
