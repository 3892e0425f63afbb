package schema

import (
	"context"
	"strings"

	"github.com/koustreak/sqlconsole/internal/database"
	"github.com/koustreak/sqlconsole/internal/dialect"
	"github.com/koustreak/sqlconsole/internal/result"
)

// mysqlColumnSeparator matches the GROUP_CONCAT separator of the MySQL
// list-indexes statement.
const mysqlColumnSeparator = ", "

// indexes lists table's indexes and post-processes them per dialect.
func (b *Browser) indexes(ctx context.Context, s database.Session, d dialect.Dialect, table string) ([]Index, error) {
	rs, err := b.run(ctx, s, d, dialect.ListIndexes, table)
	if err != nil {
		return nil, err
	}

	out := make([]Index, 0, rs.Len())
	for _, row := range rs.Rows {
		name := result.AsString(row[0])

		switch d {
		case dialect.SQLite:
			cols, err := b.indexColumns(ctx, s, d, name)
			if err != nil {
				return nil, err
			}
			out = append(out, Index{Name: name, Columns: cols, Definition: strings.Join(cols, mysqlColumnSeparator)})

		case dialect.MySQL:
			def := result.AsString(row[1])
			out = append(out, Index{Name: name, Columns: strings.Split(def, mysqlColumnSeparator), Definition: def})

		default:
			out = append(out, Index{Name: name, Columns: []string{}, Definition: result.AsString(row[1])})
		}
	}
	return out, nil
}

// indexColumns expands one SQLite index into its column names.
func (b *Browser) indexColumns(ctx context.Context, s database.Session, d dialect.Dialect, index string) ([]string, error) {
	rs, err := b.run(ctx, s, d, dialect.IndexColumns, index)
	if err != nil {
		return nil, err
	}

	cols := make([]string, 0, rs.Len())
	for _, row := range rs.Rows {
		cols = append(cols, result.AsString(row[0]))
	}
	return cols, nil
}
