package dialect

import (
	"fmt"

	"github.com/koustreak/sqlconsole/internal/errs"
)

// Operation is one of the fixed, dialect-independent schema inquiries.
type Operation int

const (
	ListTables Operation = iota
	ListDatabases
	DescribeTable // arg: table
	ListIndexes   // arg: table
	IndexColumns  // arg: index
	RowCount      // arg: table
	LimitPragma   // arg: row limit
	ResetLimit
)

func (op Operation) String() string {
	switch op {
	case ListTables:
		return "list_tables"
	case ListDatabases:
		return "list_databases"
	case DescribeTable:
		return "describe_table"
	case ListIndexes:
		return "list_indexes"
	case IndexColumns:
		return "index_columns"
	case RowCount:
		return "row_count"
	case LimitPragma:
		return "limit_pragma"
	case ResetLimit:
		return "reset_limit"
	default:
		return fmt.Sprintf("operation(%d)", int(op))
	}
}

// Normalized column shapes shared by every dialect.
var (
	TableColumns    = []string{"name"}
	DescribeColumns = []string{"name", "type", "nullable", "default"}
	IndexColumnsOut = []string{"name", "columns"}
	CountColumns    = []string{"count"}
)

// Template builds one statement for one dialect.
//
// Build receives the dialect's identifier quoter and the caller's arguments
// and returns the SQL plus any bound parameters. Shape, when set, maps a
// native catalog row onto Columns.
type Template struct {
	Arity   int
	Columns []string
	Build   func(quote func(string) string, args []string) (string, []any, error)
	Shape   func(row []any) []any
}

// Statement is a ready-to-run SQL text with its bound parameters.
// An empty SQL means the operation is a no-op for the dialect.
type Statement struct {
	SQL     string
	Args    []any
	Columns []string
	shape   func(row []any) []any
}

// Noop reports whether there is nothing to execute.
func (s Statement) Noop() bool { return s.SQL == "" }

// Shape projects a native row onto the normalized column order.
func (s Statement) Shape(row []any) []any {
	if s.shape == nil {
		return row
	}
	return s.shape(row)
}

// Relabel returns the normalized column names when the statement defines
// them, and native otherwise.
func (s Statement) Relabel(native []string) []string {
	if s.Columns == nil {
		return native
	}
	return s.Columns
}

// Entry is everything the registry knows about one dialect.
type Entry struct {
	Quote     func(string) string
	Templates map[Operation]Template
}

// Registry maps a dialect to its operation templates.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	entries map[Dialect]*Entry
}

// NewRegistry builds a registry from explicit entries.
func NewRegistry(entries map[Dialect]*Entry) *Registry {
	return &Registry{entries: entries}
}

// DefaultRegistry returns the registry for SQLite, MySQL and PostgreSQL.
func DefaultRegistry() *Registry {
	return NewRegistry(map[Dialect]*Entry{
		SQLite:   sqliteEntry(),
		MySQL:    mysqlEntry(),
		Postgres: postgresEntry(),
	})
}

// Lookup produces the statement for (d, op). It fails with
// ErrKindUnsupportedDialect when d is not registered and with
// ErrKindUnsupportedOperation when d has no template for op.
func (r *Registry) Lookup(d Dialect, op Operation, args ...string) (Statement, error) {
	entry, ok := r.entries[d]
	if !ok {
		return Statement{}, errs.Newf(errs.ErrKindUnsupportedDialect, "unsupported dialect: %s", d)
	}

	tpl, ok := entry.Templates[op]
	if !ok {
		return Statement{}, errs.Newf(errs.ErrKindUnsupportedOperation,
			"%s is not supported for %s", op, d)
	}
	if len(args) != tpl.Arity {
		return Statement{}, errs.Newf(errs.ErrKindInvalidInput,
			"%s expects %d argument(s), got %d", op, tpl.Arity, len(args))
	}

	sql, bound, err := tpl.Build(entry.Quote, args)
	if err != nil {
		return Statement{}, err
	}

	return Statement{SQL: sql, Args: bound, Columns: tpl.Columns, shape: tpl.Shape}, nil
}

// Supports reports whether (d, op) has a template.
func (r *Registry) Supports(d Dialect, op Operation) bool {
	entry, ok := r.entries[d]
	if !ok {
		return false
	}
	_, ok = entry.Templates[op]
	return ok
}
