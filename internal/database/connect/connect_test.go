package connect

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

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trac.db")
	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE system (name text, value text)`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	conn, err := dialect.Parse("sqlite:" + path)
	require.NoError(t, err)

	db, err := Open(context.Background(), database.DefaultConfig(conn))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, dialect.SQLite, db.Dialect())
}

func TestOpen_UnsupportedDialect(t *testing.T) {
	cfg := database.DefaultConfig(dialect.Descriptor{Dialect: "oracle", Locator: "x"})

	db, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.True(t, errs.IsUnsupportedDialect(err))
}

func TestOpen_FailureReturnsNilDB(t *testing.T) {
	conn, err := dialect.Parse("sqlite:" + filepath.Join(t.TempDir(), "missing.db"))
	require.NoError(t, err)

	db, err := Open(context.Background(), database.DefaultConfig(conn))
	require.Error(t, err)
	assert.Nil(t, db)
}
