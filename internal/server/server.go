// Package server exposes a shared edit history over HTTP.
//
// One [Server] owns one history. Clients read the current snapshot, run
// registered actions against it, and move the undo cursor. Every
// successful mutation is optionally written back to a snapshot store as a
// named session, so `mapgraph session` commands and the server can share
// state.
//
// Routes:
//
//	GET  /health
//	GET  /metrics                    (when a collector is configured)
//	GET  /api/actions                registered action names
//	GET  /api/graph                  current snapshot (?format=yaml)
//	GET  /api/graph.dot              Graphviz source (?detailed=1&geo=1)
//	GET  /api/graph.svg              rendered Graphviz view
//	GET  /api/history                snapshot names and cursor
//	POST /api/actions/{name}         perform one action
//	POST /api/actions/{name}/check   disabled reason without performing
//	POST /api/sequence               perform several actions atomically
//	POST /api/undo
//	POST /api/redo
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mapgraph/internal/metrics"
	"github.com/matzehuels/mapgraph/pkg/action"
	"github.com/matzehuels/mapgraph/pkg/history"
	"github.com/matzehuels/mapgraph/pkg/store"
)

// Options configures a Server.
type Options struct {
	Addr           string
	AllowedOrigins []string
	// ShutdownTimeout bounds graceful shutdown; zero means 10s.
	ShutdownTimeout time.Duration

	Env action.Env
	// Defaults fills configured defaults into request parameters.
	Defaults func(name string, p action.Params) action.Params

	// Store and Session enable write-back after every mutation.
	Store   store.Store
	Session string
	TTL     time.Duration

	// PresetsPath is reloaded on change when WatchPresets is set.
	PresetsPath  string
	WatchPresets bool

	Metrics *metrics.Collector
	Logger  *log.Logger
}

// Server serves a history over HTTP.
type Server struct {
	history *history.History
	opts    Options
	logger  *log.Logger

	mu  sync.RWMutex
	env action.Env
}

// New returns a server for h.
func New(h *history.History, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{history: h, opts: opts, logger: logger, env: opts.Env}
}

// History returns the served history.
func (s *Server) History() *history.History { return s.history }

// SetSchemas swaps the schema source used by change_preset.
func (s *Server) SetSchemas(src action.SchemaSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.env.Schemas = src
}

func (s *Server) actionEnv() action.Env {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.env
}

// Run listens on opts.Addr until ctx is cancelled, then shuts down
// gracefully. The preset watcher, when enabled, runs alongside.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if s.opts.WatchPresets && s.opts.PresetsPath != "" {
		g.Go(func() error { return s.watchPresets(ctx) })
	}
	return g.Wait()
}
