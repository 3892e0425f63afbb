package result

import (
	"bufio"
	"encoding/csv"
	"io"
)

// CSVOptions selects the CSV dialect written by WriteCSV.
type CSVOptions struct {
	// Strict writes RFC 4180 output: fields containing commas, quotes or
	// newlines are quoted and no trailing comma is emitted.
	//
	// The zero value writes the legacy format existing consumers parse:
	// every cell followed by a comma, including the last one, and no
	// escaping at all. An embedded comma therefore shifts the remaining
	// cells of that line.
	Strict bool
}

// WriteCSV writes a header line with the column names followed by one line
// per row. Cells are rendered with AsString, so formatted values
// (links, markup) export as their display text.
func WriteCSV(w io.Writer, rs *ResultSet, opts CSVOptions) error {
	if opts.Strict {
		return writeStrict(w, rs)
	}
	return writeLegacy(w, rs)
}

func writeLegacy(w io.Writer, rs *ResultSet) error {
	bw := bufio.NewWriter(w)
	line := func(cells []string) {
		for _, c := range cells {
			bw.WriteString(c)
			bw.WriteByte(',')
		}
		bw.WriteByte('\n')
	}

	line(rs.Columns)
	for _, row := range rs.Rows {
		line(cellStrings(row))
	}
	return bw.Flush()
}

func writeStrict(w io.Writer, rs *ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rs.Columns); err != nil {
		return err
	}
	for _, row := range rs.Rows {
		if err := cw.Write(cellStrings(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = AsString(v)
	}
	return out
}
