// Package console is the query-entry boundary. It turns one request into at
// most one pinned session, runs the requested action on it and folds every
// execution-time failure into the response's Error string. Only
// misconfiguration and connection acquisition failures are returned as
// errors.
package console

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/koustreak/sqlconsole/internal/database"
	"github.com/koustreak/sqlconsole/internal/dialect"
	"github.com/koustreak/sqlconsole/internal/errs"
	"github.com/koustreak/sqlconsole/internal/format"
	"github.com/koustreak/sqlconsole/internal/guard"
	"github.com/koustreak/sqlconsole/internal/logger"
	"github.com/koustreak/sqlconsole/internal/result"
	"github.com/koustreak/sqlconsole/internal/schema"
)

// Action selects what a request does.
type Action string

const (
	ActionQuery     Action = "query"
	ActionTables    Action = "tables"
	ActionDatabases Action = "database"
	ActionTable     Action = "table"
)

// ParseAction maps the request's action parameter to an Action. Anything
// unrecognised runs the free-form query.
func ParseAction(s string) Action {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionTables, ActionDatabases, ActionTable:
		return a
	case "databases":
		return ActionDatabases
	default:
		return ActionQuery
	}
}

// Request is one console interaction.
type Request struct {
	Action Action
	Query  string
	Table  string
	Raw    bool
	Limit  int // overrides Config.Limit when positive
}

// Response is everything the renderer needs. Result is never nil.
type Response struct {
	Dialect dialect.Dialect   `json:"dialect"`
	Action  Action            `json:"action"`
	Query   string            `json:"query"`
	Error   string            `json:"error"`
	Result  *result.ResultSet `json:"result"`
	Elapsed float64           `json:"elapsed"`
	Tables  []string          `json:"tables,omitempty"`
	Table   *schema.Table     `json:"table,omitempty"`
}

// QuerySpec is a free-form statement with its execution policy.
type QuerySpec struct {
	SQL      string
	Limit    int
	ReadOnly bool
}

// NewQuerySpec returns a read-only spec capped at result.DefaultLimit.
func NewQuerySpec(sql string) QuerySpec {
	return QuerySpec{SQL: sql, Limit: result.DefaultLimit, ReadOnly: true}
}

// Config holds the console's execution policy.
type Config struct {
	Limit    int
	ReadOnly bool
}

// DefaultConfig caps results at result.DefaultLimit and enforces the
// read-only guard.
func DefaultConfig() Config {
	return Config{Limit: result.DefaultLimit, ReadOnly: true}
}

// Console runs requests against one database.
// It is safe for concurrent use; each request acquires its own session.
type Console struct {
	db        database.DB
	reg       *dialect.Registry
	browser   *schema.Browser
	formatter *format.Formatter
	cfg       Config
	log       *logger.Logger
}

// New wires a Console. A nil log discards output.
func New(db database.DB, reg *dialect.Registry, formatter *format.Formatter, cfg Config, log *logger.Logger) *Console {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Limit <= 0 {
		cfg.Limit = result.DefaultLimit
	}
	return &Console{
		db:        db,
		reg:       reg,
		browser:   schema.NewBrowser(reg),
		formatter: formatter,
		cfg:       cfg,
		log:       log,
	}
}

// Dialect reports the dialect every request runs under.
func (c *Console) Dialect() dialect.Dialect {
	return c.db.Dialect()
}

// Handle runs req. Execution failures (bad SQL, guard rejections, unknown
// tables, unsupported inquiries) are reported in Response.Error with an
// empty result. The returned error is reserved for misconfiguration and
// failures to obtain a session.
func (c *Console) Handle(ctx context.Context, req Request) (*Response, error) {
	d := c.db.Dialect()
	if !d.Valid() {
		return nil, errs.Newf(errs.ErrKindUnsupportedDialect, "unsupported dialect: %s", d)
	}
	if req.Action == "" {
		req.Action = ActionQuery
	}

	resp := &Response{Dialect: d, Action: req.Action, Query: req.Query, Result: result.Empty()}

	// Nothing to run: no session, no guard.
	if req.Action == ActionQuery && strings.TrimSpace(req.Query) == "" {
		return resp, nil
	}

	s, err := c.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	start := time.Now()
	err = c.dispatch(ctx, s, d, req, resp)
	elapsed := time.Since(start)

	fields := map[string]interface{}{
		"dialect": d.String(),
		"action":  string(req.Action),
		"elapsed": elapsed.String(),
	}

	if err != nil {
		if errs.IsUnsupportedDialect(err) {
			return nil, err
		}
		c.log.WarnWith("console action failed", err, fields)
		resp.Error = errs.Message(err)
		resp.Result = result.Empty()
		resp.Table = nil
		resp.Tables = nil
		return resp, nil
	}

	resp.Elapsed = elapsed.Seconds()
	fields["rows"] = resp.Result.Len()
	fields["truncated"] = resp.Result.Truncated
	c.log.DebugWith("console action", fields)
	return resp, nil
}

func (c *Console) dispatch(ctx context.Context, s database.Session, d dialect.Dialect, req Request, resp *Response) error {
	switch req.Action {
	case ActionTables:
		tables, err := c.browser.ListTables(ctx, s, d)
		if err != nil {
			return err
		}
		resp.Tables = tables
		resp.Result = c.formatter.Format(tablesResult(tables), "", format.Options{Raw: req.Raw, Table: format.TableList})
		return nil

	case ActionDatabases:
		rs, err := c.browser.ListDatabases(ctx, s, d)
		if err != nil {
			return err
		}
		resp.Result = rs
		return nil

	case ActionTable:
		t, err := c.browser.DescribeTable(ctx, s, d, req.Table)
		if err != nil {
			return err
		}
		resp.Table = t
		resp.Result = columnsResult(t)
		return nil

	default:
		spec := QuerySpec{SQL: req.Query, Limit: c.cfg.Limit, ReadOnly: c.cfg.ReadOnly}
		if req.Limit > 0 {
			spec.Limit = req.Limit
		}
		rs, err := c.Query(ctx, s, d, spec)
		if err != nil {
			return err
		}
		resp.Result = c.formatter.Format(rs, spec.SQL, format.Options{Raw: req.Raw})
		return nil
	}
}

// Query runs spec on s. Read-only specs pass the guard first, so a
// rejected statement never reaches the session. The result is capped at
// spec.Limit rows.
func (c *Console) Query(ctx context.Context, s database.Session, d dialect.Dialect, spec QuerySpec) (rs *result.ResultSet, err error) {
	if spec.ReadOnly {
		if err := guard.Check(spec.SQL); err != nil {
			return nil, err
		}
	}

	if spec.Limit > 0 {
		// One extra row lets Fetch tell a full page from a truncated one.
		pragma, lerr := c.reg.Lookup(d, dialect.LimitPragma, strconv.Itoa(spec.Limit+1))
		if lerr != nil {
			return nil, lerr
		}
		if !pragma.Noop() {
			if xerr := s.Exec(ctx, pragma.SQL, pragma.Args...); xerr != nil {
				return nil, xerr
			}
			defer func() {
				rerr := c.resetLimit(ctx, s, d)
				if rerr == nil {
					return
				}
				// The limit would outlive this request on a pooled connection.
				s.Discard()
				if err == nil {
					rs, err = nil, rerr
				}
			}()
		}
	}

	return database.Run(ctx, s, dialect.Statement{SQL: spec.SQL}, spec.Limit)
}

func (c *Console) resetLimit(ctx context.Context, s database.Session, d dialect.Dialect) error {
	stmt, err := c.reg.Lookup(d, dialect.ResetLimit)
	if err != nil || stmt.Noop() {
		return err
	}
	return s.Exec(ctx, stmt.SQL, stmt.Args...)
}

// tablesResult presents a table list as a one-column result.
func tablesResult(tables []string) *result.ResultSet {
	rs := &result.ResultSet{Columns: []string{"name"}, Rows: make([][]any, len(tables))}
	for i, t := range tables {
		rs.Rows[i] = []any{t}
	}
	return rs
}

// columnsResult presents a table's columns in the describe shape.
func columnsResult(t *schema.Table) *result.ResultSet {
	rs := &result.ResultSet{
		Columns: append([]string(nil), dialect.DescribeColumns...),
		Rows:    make([][]any, len(t.Columns)),
	}
	for i, col := range t.Columns {
		var def any
		if col.Default != nil {
			def = *col.Default
		}
		rs.Rows[i] = []any{col.Name, col.SQLType, col.Nullable, def}
	}
	return rs
}
