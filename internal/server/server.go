// Package server exposes the edit session and graph store over a JSON
// HTTP API. This is the boundary the UI collaborator talks to: it sends
// user intents (add-node, connect, delete, clear, layout, import, export,
// save) and receives the current graph and validation report after every
// mutation.
//
// Error mapping follows the edit-session taxonomy: rejected mutations are
// 422 (the graph is unchanged and the client may retry), malformed input
// is 400, missing resources are 404, and collaborator failures are 502.
package server

import (
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dagboard/dagboard/pkg/cache"
	"github.com/dagboard/dagboard/pkg/editor"
	"github.com/dagboard/dagboard/pkg/history"
	"github.com/dagboard/dagboard/pkg/store"
)

// Options configures a Server.
type Options struct {
	Session  *editor.Session
	History  *history.Buffer
	Store    store.Store
	Cache    cache.Cache
	CacheTTL time.Duration
	Logger   *charmlog.Logger
}

// Server wires the edit session, history buffer, store, and cache behind
// the HTTP API.
type Server struct {
	session  *editor.Session
	history  *history.Buffer
	store    store.Store
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *charmlog.Logger
}

// New creates a Server. Session is required; History, Store, and Cache
// fall back to a fresh buffer, the in-memory store, and the null cache.
func New(opts Options) *Server {
	s := &Server{
		session:  opts.Session,
		history:  opts.History,
		store:    opts.Store,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		logger:   opts.Logger,
	}
	if s.session == nil {
		s.session = editor.New("untitled")
	}
	if s.history == nil {
		s.history = history.NewBuffer(history.DefaultLimit)
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.logger == nil {
		s.logger = charmlog.Default()
	}
	// Seed history with the initial (empty) state so the first mutation
	// can be undone.
	s.history.Push(s.session.Snapshot())
	return s
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/graph", func(r chi.Router) {
		r.Get("/", s.handleGetGraph)
		r.Get("/report", s.handleGetReport)
		r.Get("/export", s.handleExport)
		r.Post("/nodes", s.handleAddNode)
		r.Post("/edges", s.handleConnect)
		r.Post("/delete", s.handleDeleteSelection)
		r.Post("/clear", s.handleClear)
		r.Post("/layout", s.handleAutoLayout)
		r.Post("/import", s.handleImport)
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
	})

	r.Route("/api/graphs", func(r chi.Router) {
		r.Get("/", s.handleListGraphs)
		r.Post("/", s.handleSaveGraph)
		r.Get("/{id}", s.handleGetStoredGraph)
		r.Post("/{id}/load", s.handleLoadGraph)
		r.Delete("/{id}", s.handleDeleteGraph)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
