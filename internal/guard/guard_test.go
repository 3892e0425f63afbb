package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/sqlconsole/internal/errs"
)

func TestCheck_Allowed(t *testing.T) {
	allowed := []string{
		"SELECT * FROM ticket",
		"select id, summary from ticket where status = 'new'",
		"SHOW TABLES",
		"PRAGMA table_info(\"ticket\")",
		"",
	}

	for _, q := range allowed {
		t.Run(q, func(t *testing.T) {
			assert.NoError(t, Check(q))
		})
	}
}

func TestCheck_Rejected(t *testing.T) {
	tests := []struct {
		query   string
		keyword string
	}{
		{"drop table foo", "drop"},
		{"DELETE FROM ticket", "delete"},
		{"InSeRt INTO t VALUES (1)", "insert"},
		{"REPLACE INTO t VALUES (1)", "replace"},
		{"UPDATE ticket SET status = 'closed'", "update"},
		{"SET SQL_SELECT_LIMIT=5", "set"},
		// Over-rejection is part of the policy.
		{"SELECT * FROM wiki WHERE text = 'please do not drop this'", "drop"},
		{"SELECT name FROM settings", "set"},
		{"SELECT updated_at FROM ticket", "update"},
		{"SELECT * FROM ticket WHERE keywords = 'offset'", "set"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			err := Check(tt.query)
			require.Error(t, err)
			assert.True(t, errs.IsReadOnlyViolation(err))
			assert.Equal(t, Message(tt.keyword), errs.Message(err))
		})
	}
}

func TestCheck_LeftmostKeyword(t *testing.T) {
	err := Check("select 1; update t set x = 1; drop table t")
	require.Error(t, err)
	assert.Equal(t,
		"Only read-only queries are allowed (query contains a forbidden keyword: update)",
		errs.Message(err))
}
