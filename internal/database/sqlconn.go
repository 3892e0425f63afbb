package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
)

// ErrorMapper translates a native driver error into an *errs.Error.
type ErrorMapper func(err error, msg string) error

// SQLPool is the shared Acquire/Ping/Close logic for drivers built on
// database/sql (SQLite and MySQL). Each Acquire pins one *sql.Conn and, when
// OnAcquire is set, runs it on the fresh connection before handing it out.
type SQLPool struct {
	DB        *sql.DB
	MapError  ErrorMapper
	OnAcquire []string
}

func (p *SQLPool) Ping(ctx context.Context) error {
	if err := p.DB.PingContext(ctx); err != nil {
		return p.MapError(err, "ping failed")
	}
	return nil
}

func (p *SQLPool) Close() {
	_ = p.DB.Close()
}

// Acquire pins a connection for the caller's exclusive use.
func (p *SQLPool) Acquire(ctx context.Context) (Session, error) {
	conn, err := p.DB.Conn(ctx)
	if err != nil {
		return nil, p.MapError(err, "failed to acquire connection")
	}

	s := &sqlSession{conn: conn, mapError: p.MapError}
	for _, stmt := range p.OnAcquire {
		if err := s.Exec(ctx, stmt); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Configure applies pool tuning from cfg to db.
func (cfg *Config) Configure(db *sql.DB) {
	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
}

// --- *sql.Conn wrappers ---

type sqlSession struct {
	conn     *sql.Conn
	mapError ErrorMapper
}

func (s *sqlSession) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.mapError(err, "query failed")
	}
	return &sqlRows{rows: rows}, nil
}

func (s *sqlSession) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return s.mapError(err, "exec failed")
	}
	return nil
}

// Discard reports the connection as bad, which makes database/sql close it
// instead of pooling it.
func (s *sqlSession) Discard() {
	_ = s.conn.Raw(func(any) error { return driver.ErrBadConn })
}

func (s *sqlSession) Close() error {
	if err := s.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool                 { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error     { return r.rows.Scan(dest...) }
func (r *sqlRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *sqlRows) Close()                     { _ = r.rows.Close() }
func (r *sqlRows) Err() error                 { return r.rows.Err() }
