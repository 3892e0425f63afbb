package schema

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/sqlconsole/internal/database"
	"github.com/koustreak/sqlconsole/internal/database/dbtest"
	"github.com/koustreak/sqlconsole/internal/database/sqlite"
	"github.com/koustreak/sqlconsole/internal/dialect"
	"github.com/koustreak/sqlconsole/internal/errs"
)

// openTrac creates a small SQLite environment and returns a pinned
// read-only session on it.
func openTrac(t *testing.T, ddl ...string) database.Session {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trac.db")

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range ddl {
		_, err := raw.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, raw.Close())

	conn, err := dialect.Parse("sqlite:" + path)
	require.NoError(t, err)

	ctx := context.Background()
	db, err := sqlite.New(ctx, database.DefaultConfig(conn))
	require.NoError(t, err)
	t.Cleanup(db.Close)

	s, err := db.Acquire(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDescribeTable_SQLiteTicket(t *testing.T) {
	s := openTrac(t,
		`CREATE TABLE ticket (id integer, summary text NOT NULL DEFAULT '')`,
		`INSERT INTO ticket (id, summary) VALUES (1, 'a'), (2, 'b'), (3, 'c')`,
	)

	b := NewBrowser(dialect.DefaultRegistry())
	table, err := b.DescribeTable(context.Background(), s, dialect.SQLite, "ticket")
	require.NoError(t, err)

	empty := "''"
	assert.Equal(t, "ticket", table.Name)
	assert.Equal(t, []Column{
		{Name: "id", SQLType: "integer", Nullable: true, Default: nil},
		{Name: "summary", SQLType: "text", Nullable: false, Default: &empty},
	}, table.Columns)
	assert.Equal(t, int64(3), table.RowCount)
	assert.NotNil(t, table.Indexes)
	assert.Empty(t, table.Indexes)
}

func TestDescribeTable_SQLiteIndexes(t *testing.T) {
	s := openTrac(t,
		`CREATE TABLE ticket_change (ticket integer, time integer, field text)`,
		`CREATE INDEX ticket_change_ticket_idx ON ticket_change (ticket, time)`,
	)

	b := NewBrowser(dialect.DefaultRegistry())
	table, err := b.DescribeTable(context.Background(), s, dialect.SQLite, "ticket_change")
	require.NoError(t, err)

	require.Len(t, table.Indexes, 1)
	assert.Equal(t, Index{
		Name:       "ticket_change_ticket_idx",
		Columns:    []string{"ticket", "time"},
		Definition: "ticket, time",
	}, table.Indexes[0])
}

func TestListTables_SQLiteSorted(t *testing.T) {
	s := openTrac(t,
		`CREATE TABLE wiki (name text)`,
		`CREATE TABLE attachment (id text)`,
		`CREATE TABLE ticket (id integer)`,
	)

	tables, err := NewBrowser(dialect.DefaultRegistry()).ListTables(context.Background(), s, dialect.SQLite)
	require.NoError(t, err)
	assert.Equal(t, []string{"attachment", "ticket", "wiki"}, tables)
}

func TestListTables_KeepsDuplicates(t *testing.T) {
	s := dbtest.NewSession().On("SHOW TABLES", []string{"Tables_in_trac"},
		[]any{"wiki"}, []any{"Ticket"}, []any{"wiki"}, []any{"attachment"},
	)

	tables, err := NewBrowser(dialect.DefaultRegistry()).ListTables(context.Background(), s, dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ticket", "attachment", "wiki", "wiki"}, tables)
}

func TestDescribeTable_NotFoundIssuesNoDetail(t *testing.T) {
	s := dbtest.NewSession().On("SHOW TABLES", []string{"Tables_in_trac"}, []any{"ticket"})

	_, err := NewBrowser(dialect.DefaultRegistry()).DescribeTable(context.Background(), s, dialect.MySQL, "ticket; drop table ticket")
	require.Error(t, err)
	assert.True(t, errs.IsTableNotFound(err))

	calls := s.Calls()
	require.Len(t, calls, 1, "only the table list may run")
	assert.Equal(t, "SHOW TABLES", calls[0].SQL)
}

func TestDescribeTable_NameIsCaseSensitive(t *testing.T) {
	s := dbtest.NewSession().On("SHOW TABLES", []string{"Tables_in_trac"}, []any{"ticket"})

	_, err := NewBrowser(dialect.DefaultRegistry()).DescribeTable(context.Background(), s, dialect.MySQL, "TICKET")
	assert.True(t, errs.IsTableNotFound(err))
}

func TestDescribeTable_MySQL(t *testing.T) {
	s := dbtest.NewSession().
		On("SHOW TABLES", []string{"Tables_in_trac"}, []any{"ticket"}).
		On("DESCRIBE `ticket`", []string{"Field", "Type", "Null", "Key", "Default", "Extra"},
			[]any{[]byte("id"), []byte("int(11)"), []byte("NO"), []byte("PRI"), nil, []byte("auto_increment")},
			[]any{[]byte("owner"), []byte("text"), []byte("YES"), []byte(""), nil, []byte("")},
		).
		On("SELECT COUNT(*) FROM `ticket`", []string{"COUNT(*)"}, []any{int64(12)}).
		On("FROM information_schema.statistics", []string{"index_name", "columns"},
			[]any{[]byte("PRIMARY"), []byte("id")},
			[]any{[]byte("ticket_status_time_idx"), []byte("status, time")},
		)

	table, err := NewBrowser(dialect.DefaultRegistry()).DescribeTable(context.Background(), s, dialect.MySQL, "ticket")
	require.NoError(t, err)

	assert.Equal(t, []Column{
		{Name: "id", SQLType: "int(11)", Nullable: false},
		{Name: "owner", SQLType: "text", Nullable: true},
	}, table.Columns)
	assert.Equal(t, int64(12), table.RowCount)
	assert.Equal(t, []Index{
		{Name: "PRIMARY", Columns: []string{"id"}, Definition: "id"},
		{Name: "ticket_status_time_idx", Columns: []string{"status", "time"}, Definition: "status, time"},
	}, table.Indexes)

	for _, c := range s.Calls() {
		if c.SQL != "SHOW TABLES" && c.SQL != "DESCRIBE `ticket`" && c.SQL != "SELECT COUNT(*) FROM `ticket`" {
			assert.Equal(t, []any{"ticket"}, c.Args, "index lookup binds the table name")
		}
	}
}

func TestDescribeTable_Postgres(t *testing.T) {
	def := "CREATE INDEX ticket_time_idx ON public.ticket USING btree (\"time\")"
	s := dbtest.NewSession().
		On("FROM information_schema.tables", []string{"table_name"}, []any{"ticket"}).
		On("FROM information_schema.columns", []string{"column_name", "data_type", "?column?", "column_default"},
			[]any{"id", "integer", false, "nextval('ticket_id_seq'::regclass)"},
		).
		On(`SELECT COUNT(*) FROM "ticket"`, []string{"count"}, []any{int64(0)}).
		On("FROM pg_indexes", []string{"indexname", "indexdef"}, []any{"ticket_time_idx", def})

	table, err := NewBrowser(dialect.DefaultRegistry()).DescribeTable(context.Background(), s, dialect.Postgres, "ticket")
	require.NoError(t, err)

	seq := "nextval('ticket_id_seq'::regclass)"
	assert.Equal(t, []Column{{Name: "id", SQLType: "integer", Nullable: false, Default: &seq}}, table.Columns)
	assert.Equal(t, int64(0), table.RowCount)
	assert.Equal(t, []Index{{Name: "ticket_time_idx", Columns: []string{}, Definition: def}}, table.Indexes)
}

func TestListDatabases(t *testing.T) {
	s := openTrac(t, `CREATE TABLE system (name text, value text)`)

	rs, err := NewBrowser(dialect.DefaultRegistry()).ListDatabases(context.Background(), s, dialect.SQLite)
	require.NoError(t, err)
	assert.Equal(t, []string{"seq", "name", "file"}, rs.Columns)
	require.NotEmpty(t, rs.Rows)
	assert.Equal(t, "main", rs.Rows[0][1])

	_, err = NewBrowser(dialect.DefaultRegistry()).ListDatabases(context.Background(), dbtest.NewSession(), dialect.Postgres)
	assert.True(t, errs.IsUnsupportedOperation(err))
}
