package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/sqlconsole/internal/database"
	"github.com/koustreak/sqlconsole/internal/dialect"
	"github.com/koustreak/sqlconsole/internal/errs"
)

func config(t *testing.T, conn string) *database.Config {
	t.Helper()
	d, err := dialect.Parse(conn)
	require.NoError(t, err)
	return database.DefaultConfig(d)
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		conn     string
		baseDir  string
		readOnly bool
		wantPath string
		wantDSN  string
	}{
		{
			name:     "relative path resolves against base dir",
			conn:     "sqlite:db/trac.db",
			baseDir:  "/var/trac/env",
			readOnly: true,
			wantPath: "/var/trac/env/db/trac.db",
			wantDSN:  "file:/var/trac/env/db/trac.db?mode=ro",
		},
		{
			name:     "absolute path ignores base dir",
			conn:     "sqlite:/srv/trac.db",
			baseDir:  "/var/trac/env",
			wantPath: "/srv/trac.db",
			wantDSN:  "file:/srv/trac.db",
		},
		{
			name:     "explicit mode wins",
			conn:     "sqlite:/srv/trac.db?mode=rw",
			readOnly: true,
			wantPath: "/srv/trac.db",
			wantDSN:  "file:/srv/trac.db?mode=rw",
		},
		{
			name:     "memory",
			conn:     "sqlite::memory:",
			readOnly: true,
			wantPath: ":memory:",
			wantDSN:  ":memory:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config(t, tt.conn)
			cfg.BaseDir = tt.baseDir
			cfg.ReadOnly = tt.readOnly

			path, dsn, err := buildDSN(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func seed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trac.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE ticket (id integer PRIMARY KEY, summary text)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO ticket (id, summary) VALUES (1, 'crash'), (2, 'typo')`)
	require.NoError(t, err)
	return path
}

func TestDriver_ReadOnlySession(t *testing.T) {
	dir := filepath.Dir(seed(t))
	cfg := config(t, "sqlite:trac.db")
	cfg.BaseDir = dir

	ctx := context.Background()
	d, err := New(ctx, cfg)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, dialect.SQLite, d.Dialect())
	assert.Equal(t, filepath.Join(dir, "trac.db"), d.Path())

	s, err := d.Acquire(ctx)
	require.NoError(t, err)
	defer s.Close()

	rows, err := s.Query(ctx, "SELECT id, summary FROM ticket ORDER BY id")
	require.NoError(t, err)
	rs, err := database.Fetch(rows, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "summary"}, rs.Columns)
	assert.Equal(t, [][]any{{int64(1), "crash"}, {int64(2), "typo"}}, rs.Rows)

	err = s.Exec(ctx, "DELETE FROM ticket")
	require.Error(t, err)
	assert.True(t, errs.IsReadOnlyViolation(err), "got %v", err)
}

func TestDriver_QueryError(t *testing.T) {
	cfg := config(t, "sqlite:"+seed(t))

	ctx := context.Background()
	d, err := New(ctx, cfg)
	require.NoError(t, err)
	defer d.Close()

	s, err := d.Acquire(ctx)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Query(ctx, "SELECT * FROM nope")
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
	assert.Contains(t, err.Error(), "no such table")
}

func TestSession_DiscardDropsConnection(t *testing.T) {
	cfg := config(t, "sqlite:"+seed(t))

	ctx := context.Background()
	d, err := New(ctx, cfg)
	require.NoError(t, err)
	defer d.Close()

	s, err := d.Acquire(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, d.DB.Stats().OpenConnections)

	s.Discard()
	require.NoError(t, s.Close())
	assert.Zero(t, d.DB.Stats().OpenConnections, "discarded connection must not be pooled")

	s, err = d.Acquire(ctx)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 1, d.DB.Stats().OpenConnections)
}

func TestNew_MissingFile(t *testing.T) {
	cfg := config(t, "sqlite:"+filepath.Join(t.TempDir(), "missing.db"))

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err), "got %v", err)
}
