package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/koustreak/sqlconsole/internal/errs"
)

// PostgreSQL SQLSTATE error codes (read-relevant only)
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgClassConnection       = "08"
	pgClassInvalidAuth      = "28"
	pgErrInsufficientPriv   = "42501"
	pgErrReadOnlyTx         = "25006"
	pgErrQueryCanceled      = "57014"
	pgErrInvalidCatalogName = "3D000"
)

// mapError translates pgx / pgconn native errors into *errs.Error.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	// Context cancellation / deadline exceeded
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	// No rows
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	// Postgres server-side error (SQLSTATE codes)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errs.Wrap(classifySQLState(pgErr.Code), msg, err)
	}

	// Fallthrough: connection-level errors (TLS, network, auth)
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

func classifySQLState(code string) errs.ErrKind {
	switch {
	case len(code) >= 2 && (code[:2] == pgClassConnection || code[:2] == pgClassInvalidAuth):
		return errs.ErrKindConnectionFailed
	case code == pgErrInvalidCatalogName:
		return errs.ErrKindConnectionFailed
	case code == pgErrInsufficientPriv:
		return errs.ErrKindPermissionDenied
	case code == pgErrReadOnlyTx:
		return errs.ErrKindReadOnlyViolation
	case code == pgErrQueryCanceled:
		return errs.ErrKindTimeout
	default:
		return errs.ErrKindQueryFailed
	}
}
