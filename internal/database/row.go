package database

import (
	"context"
	"errors"
	"time"

	"github.com/koustreak/sqlconsole/internal/dialect"
	"github.com/koustreak/sqlconsole/internal/errs"
	"github.com/koustreak/sqlconsole/internal/result"
)

// Fetch reads up to limit rows from the result set into an ordered
// ResultSet. When a further row exists the set is marked Truncated and
// reading stops. A non-positive limit reads everything.
//
// Fetch always closes rows; callers do not need to call Close().
func Fetch(rows Rows, limit int) (*result.ResultSet, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, wrap("failed to read column names", err)
	}

	rs := &result.ResultSet{Columns: columns, Rows: make([][]any, 0)}

	for rows.Next() {
		if limit > 0 && len(rs.Rows) >= limit {
			rs.Truncated = true
			break
		}

		// Allocate scan targets as *any so the driver can write any type.
		dest := make([]any, len(columns))
		destPtrs := make([]any, len(columns))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}

		if err := rows.Scan(destPtrs...); err != nil {
			return nil, wrap("failed to scan row", err)
		}

		for i := range dest {
			dest[i] = result.Normalize(dest[i])
		}
		rs.Rows = append(rs.Rows, dest)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("error during row iteration", err)
	}

	return rs, nil
}

// wrap classifies a raw driver error as a query failure. Errors a driver
// already mapped keep their kind.
func wrap(msg string, err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

// Run executes stmt on s and returns its rows in the statement's
// normalized shape. Elapsed covers execution and fetching.
func Run(ctx context.Context, s Session, stmt dialect.Statement, limit int) (*result.ResultSet, error) {
	start := time.Now()

	rows, err := s.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}

	rs, err := Fetch(rows, limit)
	if err != nil {
		return nil, err
	}

	rs.Columns = stmt.Relabel(rs.Columns)
	for i, row := range rs.Rows {
		rs.Rows[i] = stmt.Shape(row)
	}
	rs.Elapsed = time.Since(start)
	return rs, nil
}
