// Package format turns raw result cells into presentation values: links to
// other host resources, wiki markup and human-readable timestamps.
//
// Rendering is keyed by column name only. A base rule set applies to every
// result; a table-specific set is layered on top when the SQL text selects
// from a table the host knows about.
package format

import (
	"regexp"
	"strings"
	"time"

	"github.com/koustreak/sqlconsole/internal/result"
)

// Rule renders one cell. It returns false when it cannot render v, in which
// case the cell is left as it was.
type Rule func(v any) (any, bool)

// RuleSet maps a column name to its Rule.
type RuleSet map[string]Rule

// Merge returns a new set holding rs overlaid with other. Neither input is
// modified.
func (rs RuleSet) Merge(other RuleSet) RuleSet {
	out := make(RuleSet, len(rs)+len(other))
	for k, r := range rs {
		out[k] = r
	}
	for k, r := range other {
		out[k] = r
	}
	return out
}

// TimeUnit is the resolution of numeric timestamps stored by the host.
type TimeUnit string

const (
	Seconds      TimeUnit = "seconds"
	Microseconds TimeUnit = "microseconds"
)

// Table names understood by the sniffer, plus the table-listing view.
const (
	TableWiki   = "wiki"
	TableTicket = "ticket"
	TableReport = "report"
	TableList   = "tables"
)

var sniff = regexp.MustCompile(`(?i)from\s+(wiki|ticket|report)`)

// Sniff returns the host table the SQL text selects from, or "" when none
// is recognised. It is a plain substring scan: the first match wins, so
// "from ticket_change" counts as ticket and subqueries are not told apart.
func Sniff(sql string) string {
	m := sniff.FindStringSubmatch(sql)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// Config holds what the rule sets need at construction time.
type Config struct {
	Links    LinkBuilder
	TimeUnit TimeUnit
	Location *time.Location
}

// Options controls a single Format call.
type Options struct {
	// Raw skips all rendering.
	Raw bool

	// Table forces a table rule set instead of sniffing the SQL text.
	Table string
}

// Formatter holds the rule sets, built once and shared read-only.
// It is safe for concurrent use.
type Formatter struct {
	base   RuleSet
	tables map[string]RuleSet
}

// New builds the base and table rule sets for cfg.
func New(cfg Config) *Formatter {
	if cfg.Links == nil {
		cfg.Links = PathLinks{}
	}
	if cfg.TimeUnit == "" {
		cfg.TimeUnit = Microseconds
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &Formatter{
		base: baseRules(cfg),
		tables: map[string]RuleSet{
			TableWiki:   wikiRules(cfg.Links),
			TableTicket: ticketRules(cfg.Links),
			TableReport: reportRules(cfg.Links),
			TableList:   listRules(cfg.Links),
		},
	}
}

// Rules returns the effective rule set for sqlText under opts.
func (f *Formatter) Rules(sqlText string, opts Options) RuleSet {
	table := opts.Table
	if table == "" {
		table = Sniff(sqlText)
	}
	if extra, ok := f.tables[table]; ok {
		return f.base.Merge(extra)
	}
	return f.base
}

// Format returns a presentation copy of rs. With opts.Raw, rs itself is
// returned. The input is never modified.
func (f *Formatter) Format(rs *result.ResultSet, sqlText string, opts Options) *result.ResultSet {
	if opts.Raw || rs == nil {
		return rs
	}

	rules := f.Rules(sqlText, opts)
	applied := make([]Rule, len(rs.Columns))
	matched := false
	for i, col := range rs.Columns {
		if r, ok := rules[col]; ok {
			applied[i] = r
			matched = true
		}
	}
	if !matched {
		return rs
	}

	out := rs.Clone()
	for _, row := range out.Rows {
		for i, r := range applied {
			if r == nil || i >= len(row) {
				continue
			}
			if v, ok := r(row[i]); ok {
				row[i] = v
			}
		}
	}
	return out
}
