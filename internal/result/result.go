// Package result holds the tabular result model shared by the console,
// the schema browser and the exporters.
package result

import (
	"time"
)

// DefaultLimit is the courtesy row cap applied to every user query.
const DefaultLimit = 1000

// ResultSet is one executed statement's output.
// Column names need not be unique; their order matches each row's order.
type ResultSet struct {
	Columns   []string      `json:"columns"`
	Rows      [][]any       `json:"rows"`
	Elapsed   time.Duration `json:"-"`
	Truncated bool          `json:"truncated"`
}

// Empty returns a result set with no columns and no rows.
// Columns and Rows are non-nil so renderers can range over them.
func Empty() *ResultSet {
	return &ResultSet{Columns: []string{}, Rows: [][]any{}}
}

// ElapsedSeconds reports the execution time as fractional seconds.
func (rs *ResultSet) ElapsedSeconds() float64 {
	return rs.Elapsed.Seconds()
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	return len(rs.Rows)
}

// Index returns the position of the first column named name, or -1.
func (rs *ResultSet) Index(name string) int {
	for i, c := range rs.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the column list and rows. Cell values are
// copied by assignment.
func (rs *ResultSet) Clone() *ResultSet {
	out := &ResultSet{
		Columns:   append([]string(nil), rs.Columns...),
		Rows:      make([][]any, len(rs.Rows)),
		Elapsed:   rs.Elapsed,
		Truncated: rs.Truncated,
	}
	for i, row := range rs.Rows {
		out.Rows[i] = append([]any(nil), row...)
	}
	return out
}

// Cap trims rs to at most limit rows and marks it truncated when rows were
// dropped. A non-positive limit leaves rs untouched.
func (rs *ResultSet) Cap(limit int) {
	if limit <= 0 || len(rs.Rows) <= limit {
		return
	}
	rs.Rows = rs.Rows[:limit]
	rs.Truncated = true
}
