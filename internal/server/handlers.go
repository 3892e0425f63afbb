package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/koustreak/sqlconsole/internal/console"
	"github.com/koustreak/sqlconsole/internal/errs"
	"github.com/koustreak/sqlconsole/internal/result"
)

// handleQuery serves GET /sql. The action parameter selects the table or
// database listing the way older links do; anything else runs ?query=.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.run(w, r, TemplateQuery, console.Request{
		Action: console.ParseAction(q.Get("action")),
		Query:  q.Get("query"),
		Raw:    flag(q.Get("raw")),
	})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, TemplateQuery, console.Request{Action: console.ActionTables, Raw: flag(r.URL.Query().Get("raw"))})
}

func (s *Server) handleDatabases(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, TemplateQuery, console.Request{Action: console.ActionDatabases})
}

// handleTable serves GET /sql/tables/{table}.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	name, err := tableParam(r)
	if err != nil {
		http.Error(w, "invalid table name", http.StatusBadRequest)
		return
	}
	s.run(w, r, TemplateTable, console.Request{Action: console.ActionTable, Table: name})
}

// handleExport serves GET /sql/export. The result is written as a CSV
// download, or published to the object store when ?publish=1.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := result.CSVOptions{Strict: flag(q.Get("strict"))}
	publish := flag(q.Get("publish"))

	if publish && s.publisher == nil {
		http.Error(w, "export publishing is not configured", http.StatusNotImplemented)
		return
	}

	resp, ok := s.handle(w, r, console.Request{Query: q.Get("query"), Raw: !flag(q.Get("formatted"))})
	if !ok {
		return
	}
	if resp.Error != "" {
		http.Error(w, resp.Error, http.StatusBadRequest)
		return
	}

	if publish {
		exp, err := s.publisher.Publish(r.Context(), resp.Result, opts)
		if err != nil {
			s.log.ErrorWith("export publish failed", err, map[string]interface{}{"rows": resp.Result.Len()})
			http.Error(w, errs.Message(err), http.StatusBadGateway)
			return
		}
		s.renderPage(w, r, TemplateExport, exp)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="query.csv"`)
	if err := result.WriteCSV(w, resp.Result, opts); err != nil {
		s.log.WarnWith("csv write failed", err, nil)
	}
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, template string, req console.Request) {
	resp, ok := s.handle(w, r, req)
	if !ok {
		return
	}
	s.renderPage(w, r, template, resp)
}

// handle runs req. Misconfiguration and session failures answer 500; the
// caller only sees responses, whose Error may still be set.
func (s *Server) handle(w http.ResponseWriter, r *http.Request, req console.Request) (*console.Response, bool) {
	resp, err := s.console.Handle(r.Context(), req)
	if err != nil {
		s.log.ErrorWith("console request failed", err, map[string]interface{}{
			"action": string(req.Action),
		})
		http.Error(w, errs.Message(err), http.StatusInternalServerError)
		return nil, false
	}
	return resp, true
}

// renderPage hands data to the renderer. A renderer that fails before
// writing anything gets a 500 in its place.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, template string, data any) {
	rec := &writeTracker{ResponseWriter: w}
	if err := s.render.Render(rec, r, template, data); err != nil {
		s.log.ErrorWith("render failed", err, map[string]interface{}{"template": template})
		if !rec.wrote {
			http.Error(w, "failed to render "+template, http.StatusInternalServerError)
		}
	}
}

// writeTracker records whether a response has been started.
type writeTracker struct {
	http.ResponseWriter
	wrote bool
}

func (t *writeTracker) WriteHeader(code int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *writeTracker) Write(b []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(b)
}

// tableParam returns the decoded {table} segment. chi matches on RawPath
// when the request carries one, and the segment is still escaped then;
// otherwise it comes from the already decoded Path.
func tableParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "table")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

// flag reads a boolean query parameter; "1", "true", "on" and "yes" are true.
func flag(v string) bool {
	switch v {
	case "on", "yes":
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
