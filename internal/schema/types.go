package schema

// Column describes a single column in a table.
type Column struct {
	Name     string  `json:"name"`
	SQLType  string  `json:"type"`
	Nullable bool    `json:"nullable"`
	Default  *string `json:"default"` // nil if no default
}

// Index describes one index on a table.
// Definition is PostgreSQL's verbatim indexdef, otherwise the comma-joined
// column list. Columns is empty on PostgreSQL.
type Index struct {
	Name       string   `json:"name"`
	Columns    []string `json:"columns"`
	Definition string   `json:"definition"`
}

// Table is the detail view of one table.
type Table struct {
	Name     string   `json:"name"`
	Columns  []Column `json:"columns"`
	RowCount int64    `json:"row_count"`
	Indexes  []Index  `json:"indexes"`
}
