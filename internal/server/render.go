package server

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Template names handed to the Renderer.
const (
	TemplateQuery  = "sql.html"
	TemplateTable  = "sql_table.html"
	TemplateExport = "sql_export.html"
)

// Renderer displays data with the named template.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, template string, data any) error
}

// JSONRenderer ignores the template and writes data as JSON, naming the
// template in the X-Template header. Nothing is written when encoding
// fails, so the caller can still answer with an error.
type JSONRenderer struct{}

func (JSONRenderer) Render(w http.ResponseWriter, _ *http.Request, template string, data any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Template", template)
	_, err := w.Write(buf.Bytes())
	return err
}
