// Package api serves the REST API, the board endpoints and the HTML boards.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gmllt/talentboard/internal/auth"
	"github.com/gmllt/talentboard/internal/events"
	"github.com/gmllt/talentboard/internal/hr"
	"github.com/gmllt/talentboard/internal/idgen"
	"github.com/gmllt/talentboard/internal/metrics"
	"github.com/gmllt/talentboard/internal/store"
)

// Options wires the server's collaborators. Events and Logger may be nil.
type Options struct {
	Store   store.Store
	Auth    *auth.Service
	Events  events.Publisher
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

type Server struct {
	store   store.Store
	auth    *auth.Service
	events  events.Publisher
	metrics *metrics.Metrics
	logger  *zap.Logger
	newID   func(prefix string) (string, error)
}

func New(opts Options) *Server {
	s := &Server{
		store:   opts.Store,
		auth:    opts.Auth,
		events:  opts.Events,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		newID:   idgen.New,
	}
	if s.events == nil {
		s.events = events.NoopPublisher{}
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Router returns the HTTP handler with every route registered.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	handle(r, "/api/token/", s.handleLogin, http.MethodPost)
	handle(r, "/api/token/refresh/", s.handleRefresh, http.MethodPost)

	requireAuth := mux.MiddlewareFunc(auth.RequireAuth(s.auth, s.logger))

	api := r.PathPrefix("/api").Subrouter()
	api.Use(requireAuth)
	handle(api, "/users/me/", s.handleMe, http.MethodGet)
	handle(api, "/applicants/", s.handleListTalents, http.MethodGet)
	handle(api, "/applicants/", s.handleCreateTalent, http.MethodPost)
	handle(api, "/applicants/{id}/", s.handleGetTalent, http.MethodGet)
	handle(api, "/applicants/{id}/", s.handleUpdateTalent, http.MethodPut)
	handle(api, "/applicants/{id}/", s.handleDeleteTalent, http.MethodDelete)

	handle(api, "/selection-processes/", s.handleListProcesses, http.MethodGet)
	handle(api, "/selection-processes/", s.handleCreateProcess, http.MethodPost)
	handle(api, "/selection-processes/{id}/", s.handleGetProcess, http.MethodGet)
	handle(api, "/selection-processes/{id}/", s.handlePatchProcess, http.MethodPatch)
	handle(api, "/selection-processes/{id}/", s.handleDeleteProcess, http.MethodDelete)
	handle(api, "/selection-processes/{id}/applications", s.handleListApplications, http.MethodGet)
	handle(api, "/selection-processes/{id}/applications", s.handleCreateApplication, http.MethodPost)
	handle(api, "/applications/{id}/", s.handlePatchApplication, http.MethodPatch)

	handle(api, "/boards/processes", s.handleProcessBoard, http.MethodGet)
	handle(api, "/boards/processes/drop", s.handleProcessDrop, http.MethodPost)
	handle(api, "/boards/processes/{id}", s.handleApplicationBoard, http.MethodGet)
	handle(api, "/boards/processes/{id}/drop", s.handleApplicationDrop, http.MethodPost)

	pages := r.PathPrefix("/boards").Subrouter()
	pages.Use(requireAuth)
	handle(pages, "/processes", s.handleProcessBoardPage, http.MethodGet)
	handle(pages, "/processes/{id}", s.handleApplicationBoardPage, http.MethodGet)

	return r
}

// handle registers path with and without its trailing slash.
func handle(r *mux.Router, path string, h http.HandlerFunc, method string) {
	r.HandleFunc(path, h).Methods(method)
	alt := strings.TrimSuffix(path, "/")
	if alt == path {
		alt = path + "/"
	}
	r.HandleFunc(alt, h).Methods(method)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.ObserveRequest(route, r.Method, start)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) publish(ctx context.Context, topic string, event any) {
	if err := s.events.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("topic", topic), zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps err onto a status code. Unexpected errors are logged and hidden
// behind a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, hr.ErrInvalid), errors.Is(err, hr.ErrUnknownStep), errors.Is(err, hr.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
