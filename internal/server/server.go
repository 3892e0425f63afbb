// Package server is the HTTP adapter around the console. It routes
// requests under /sql, gates every route on the configured permission and
// hands console responses to a Renderer.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/koustreak/sqlconsole/internal/console"
	"github.com/koustreak/sqlconsole/internal/export"
	"github.com/koustreak/sqlconsole/internal/logger"
	"github.com/koustreak/sqlconsole/internal/result"
)

const (
	DefaultPermission = "TRAC_ADMIN"
	DefaultUserHeader = "X-Remote-User"
)

// Config holds the listener and access settings.
type Config struct {
	Addr              string
	Permission        string
	UserHeader        string
	Admins            []string
	ReadHeaderTimeout time.Duration
}

// Publisher uploads an exported result and returns where to fetch it.
type Publisher interface {
	Publish(ctx context.Context, rs *result.ResultSet, opts result.CSVOptions) (*export.Export, error)
}

// Options supplies the collaborators. Nil fields get defaults: a
// HeaderAuthorizer built from Config, a JSONRenderer, no publishing and a
// discarding logger.
type Options struct {
	Authorizer Authorizer
	Renderer   Renderer
	Publisher  Publisher
	Logger     *logger.Logger
}

// Server serves the console over HTTP.
type Server struct {
	console   *console.Console
	cfg       Config
	auth      Authorizer
	render    Renderer
	publisher Publisher
	log       *logger.Logger
	router    chi.Router
}

// New builds the router.
func New(c *console.Console, cfg Config, opts Options) *Server {
	if cfg.Permission == "" {
		cfg.Permission = DefaultPermission
	}
	if cfg.UserHeader == "" {
		cfg.UserHeader = DefaultUserHeader
	}

	s := &Server{
		console:   c,
		cfg:       cfg,
		auth:      opts.Authorizer,
		render:    opts.Renderer,
		publisher: opts.Publisher,
		log:       opts.Logger,
	}
	if s.auth == nil {
		s.auth = NewHeaderAuthorizer(cfg.UserHeader, cfg.Admins)
	}
	if s.render == nil {
		s.render = JSONRenderer{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)

	r.Route("/sql", func(r chi.Router) {
		r.Use(s.requirePermission)
		r.Get("/", s.handleQuery)
		r.Get("/tables", s.handleTables)
		r.Get("/tables/{table}", s.handleTable)
		r.Get("/databases", s.handleDatabases)
		r.Get("/export", s.handleExport)
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then drains
// in-flight requests for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Infof("sql console listening on %s", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
