// Package dbtest provides a scripted in-memory database.DB for tests that
// need MySQL or PostgreSQL catalog output without a server.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/koustreak/sqlconsole/internal/database"
	"github.com/koustreak/sqlconsole/internal/dialect"
)

// Call records one statement that reached the session.
type Call struct {
	SQL  string
	Args []any
	Exec bool
}

type script struct {
	match   string
	columns []string
	rows    [][]any
	err     error
}

// Session answers statements from a script. A statement is matched by
// whitespace-normalized text: exact matches win, then the first scripted
// fragment contained in the statement. Unscripted statements fail.
type Session struct {
	mu        sync.Mutex
	scripts   []script
	calls     []Call
	closed    bool
	discarded bool
}

// NewSession returns an empty script.
func NewSession() *Session {
	return &Session{}
}

// On scripts the rows returned for statements matching sql.
func (s *Session) On(sql string, columns []string, rows ...[]any) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, script{match: normalize(sql), columns: columns, rows: rows})
	return s
}

// Fail scripts an error for statements matching sql.
func (s *Session) Fail(sql string, err error) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, script{match: normalize(sql), err: err})
	return s
}

// Calls returns every statement executed so far, in order.
func (s *Session) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) Query(_ context.Context, sql string, args ...any) (database.Rows, error) {
	sc, err := s.record(sql, args, false)
	if err != nil {
		return nil, err
	}
	return &Rows{columns: sc.columns, rows: sc.rows, pos: -1}, nil
}

// Exec records sql and fails only when a Fail script matches it.
func (s *Session) Exec(_ context.Context, sql string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{SQL: sql, Args: args, Exec: true})

	key := normalize(sql)
	for _, sc := range s.scripts {
		if sc.err != nil && (sc.match == key || strings.Contains(key, sc.match)) {
			return sc.err
		}
	}
	return nil
}

// Discarded reports whether Discard was called.
func (s *Session) Discarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discarded
}

func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discarded = true
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Session) record(sql string, args []any, exec bool) (script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{SQL: sql, Args: args, Exec: exec})

	key := normalize(sql)
	for _, sc := range s.scripts {
		if sc.match == key {
			return sc, sc.err
		}
	}
	for _, sc := range s.scripts {
		if strings.Contains(key, sc.match) {
			return sc, sc.err
		}
	}
	return script{}, fmt.Errorf("dbtest: unscripted statement: %s", key)
}

func normalize(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

// Rows iterates over scripted rows.
type Rows struct {
	columns []string
	rows    [][]any
	pos     int
	closed  bool
}

func (r *Rows) Next() bool {
	if r.closed || r.pos+1 >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.rows) {
		return fmt.Errorf("dbtest: scan outside of a row")
	}
	row := r.rows[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("dbtest: expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		p, ok := d.(*any)
		if !ok {
			return fmt.Errorf("dbtest: destination %d is %T, want *any", i, d)
		}
		*p = row[i]
	}
	return nil
}

func (r *Rows) Columns() ([]string, error) { return r.columns, nil }
func (r *Rows) Close()                     { r.closed = true }
func (r *Rows) Err() error                 { return nil }

// DB hands out a single scripted Session.
type DB struct {
	D          dialect.Dialect
	Session    *Session
	AcquireErr error

	mu       sync.Mutex
	acquired int
}

// NewDB wraps session as a database.DB speaking d.
func NewDB(d dialect.Dialect, session *Session) *DB {
	return &DB{D: d, Session: session}
}

func (db *DB) Dialect() dialect.Dialect   { return db.D }
func (db *DB) Ping(context.Context) error { return nil }
func (db *DB) Close()                     {}

func (db *DB) Acquire(context.Context) (database.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.AcquireErr != nil {
		return nil, db.AcquireErr
	}
	db.acquired++
	return db.Session, nil
}

// Acquired reports how many sessions were handed out.
func (db *DB) Acquired() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.acquired
}
