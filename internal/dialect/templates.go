package dialect

import (
	"strconv"
	"strings"

	"github.com/koustreak/sqlconsole/internal/errs"
	"github.com/koustreak/sqlconsole/internal/result"
)

// quoteDouble wraps an identifier in double-quotes (ANSI, SQLite, PostgreSQL).
func quoteDouble(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteBacktick wraps an identifier in backticks (MySQL default mode).
func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// fixed is a Build func for statements without arguments.
func fixed(sql string) func(func(string) string, []string) (string, []any, error) {
	return func(func(string) string, []string) (string, []any, error) {
		return sql, nil, nil
	}
}

// ident interpolates its single argument as a quoted identifier.
// Used only where the catalog statement cannot take a bound parameter.
func ident(format string) func(func(string) string, []string) (string, []any, error) {
	return func(quote func(string) string, args []string) (string, []any, error) {
		return strings.Replace(format, "%s", quote(args[0]), 1), nil, nil
	}
}

// bound passes its arguments through as parameters.
func bound(sql string) func(func(string) string, []string) (string, []any, error) {
	return func(_ func(string) string, args []string) (string, []any, error) {
		out := make([]any, len(args))
		for i, a := range args {
			out[i] = a
		}
		return sql, out, nil
	}
}

// noop is a Build func for operations that need no statement on a dialect.
func noop(func(string) string, []string) (string, []any, error) {
	return "", nil, nil
}

// limit validates the row limit before it is spliced into the pragma.
func limit(format string) func(func(string) string, []string) (string, []any, error) {
	return func(_ func(string) string, args []string) (string, []any, error) {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "", nil, errs.Newf(errs.ErrKindInvalidInput, "invalid row limit %q", args[0])
		}
		return strings.Replace(format, "%d", strconv.Itoa(n), 1), nil, nil
	}
}

// pick keeps the native columns at idx, in that order.
func pick(idx ...int) func([]any) []any {
	return func(row []any) []any {
		out := make([]any, len(idx))
		for i, j := range idx {
			if j < len(row) {
				out[i] = row[j]
			}
		}
		return out
	}
}

func sqliteEntry() *Entry {
	return &Entry{
		Quote: quoteDouble,
		Templates: map[Operation]Template{
			ListTables: {
				Columns: TableColumns,
				Build:   fixed(`SELECT name FROM sqlite_master WHERE type = 'table'`),
			},
			ListDatabases: {
				Build: fixed(`PRAGMA database_list`),
			},
			// cid, name, type, notnull, dflt_value, pk
			DescribeTable: {
				Arity:   1,
				Columns: DescribeColumns,
				Build:   ident(`PRAGMA table_info(%s)`),
				Shape: func(row []any) []any {
					out := pick(1, 2, 3, 4)(row)
					notNull, _ := result.AsInt64(out[2])
					out[2] = notNull == 0
					return out
				},
			},
			// seq, name, unique, origin, partial
			ListIndexes: {
				Arity:   1,
				Columns: TableColumns,
				Build:   ident(`PRAGMA index_list(%s)`),
				Shape:   pick(1),
			},
			// seqno, cid, name
			IndexColumns: {
				Arity:   1,
				Columns: TableColumns,
				Build:   ident(`PRAGMA index_info(%s)`),
				Shape:   pick(2),
			},
			RowCount: {
				Arity:   1,
				Columns: CountColumns,
				Build:   ident(`SELECT COUNT(*) FROM %s`),
			},
			LimitPragma: {Arity: 1, Build: noop},
			ResetLimit:  {Build: noop},
		},
	}
}

func mysqlEntry() *Entry {
	return &Entry{
		Quote: quoteBacktick,
		Templates: map[Operation]Template{
			ListTables: {
				Columns: TableColumns,
				Build:   fixed(`SHOW TABLES`),
			},
			ListDatabases: {
				Build: fixed(`SHOW DATABASES`),
			},
			// Field, Type, Null, Key, Default, Extra
			DescribeTable: {
				Arity:   1,
				Columns: DescribeColumns,
				Build:   ident(`DESCRIBE %s`),
				Shape: func(row []any) []any {
					out := pick(0, 1, 2, 4)(row)
					out[2] = strings.EqualFold(result.AsString(out[2]), "YES")
					return out
				},
			},
			ListIndexes: {
				Arity:   1,
				Columns: IndexColumnsOut,
				Build: bound(`
		SELECT index_name,
		       GROUP_CONCAT(column_name ORDER BY seq_in_index SEPARATOR ', ')
		FROM information_schema.statistics
		WHERE table_schema = DATABASE()
		  AND table_name   = ?
		GROUP BY index_name
		ORDER BY index_name`),
			},
			RowCount: {
				Arity:   1,
				Columns: CountColumns,
				Build:   ident(`SELECT COUNT(*) FROM %s`),
			},
			// The limit is session state; pooled connections outlive the request.
			LimitPragma: {Arity: 1, Build: limit(`SET SQL_SELECT_LIMIT=%d`)},
			ResetLimit:  {Build: fixed(`SET SQL_SELECT_LIMIT=DEFAULT`)},
		},
	}
}

func postgresEntry() *Entry {
	return &Entry{
		Quote: quoteDouble,
		Templates: map[Operation]Template{
			ListTables: {
				Columns: TableColumns,
				Build: fixed(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		  AND table_type   = 'BASE TABLE'`),
			},
			DescribeTable: {
				Arity:   1,
				Columns: DescribeColumns,
				Build: bound(`
		SELECT column_name,
		       data_type,
		       is_nullable = 'YES',
		       column_default
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name   = $1
		ORDER BY ordinal_position`),
			},
			ListIndexes: {
				Arity:   1,
				Columns: IndexColumnsOut,
				Build: bound(`
		SELECT indexname, indexdef
		FROM pg_indexes
		WHERE schemaname = current_schema()
		  AND tablename  = $1
		ORDER BY indexname`),
			},
			RowCount: {
				Arity:   1,
				Columns: CountColumns,
				Build:   ident(`SELECT COUNT(*) FROM %s`),
			},
			LimitPragma: {Arity: 1, Build: noop},
			ResetLimit:  {Build: noop},
		},
	}
}
