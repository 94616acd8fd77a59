// Package server is a small REST todo API for local development.
// It speaks the same protocol the client expects from a real endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/validate"
)

// Options configures a Server.
type Options struct {
	// Logger receives one line per request. Default: log.Default().
	Logger *log.Logger

	// Registry holds the request metrics. Default: a fresh registry.
	Registry *prometheus.Registry
}

// Server serves a todo collection stored in a JSON file.
type Server struct {
	data    *jsonstore.File
	logger  *log.Logger
	metrics *metrics
	router  chi.Router
}

// New builds the routes:
//
//	GET    /todos
//	POST   /todos
//	GET    /todos/{id}
//	PUT    /todos/{id}
//	DELETE /todos/{id}
//	GET    /metrics
func New(data *jsonstore.File, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		data:    data,
		logger:  opts.Logger,
		metrics: newMetrics(opts.Registry),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.get)
			r.Put("/", s.update)
			r.Delete("/", s.delete)
		})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "data", s.data.Path())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// todoPatch carries the fields a PUT may set. Missing fields keep their value,
// so title-only clients do not reset completion.
type todoPatch struct {
	UserID    *int    `json:"userId"`
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	items, err := s.data.List()
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	item, err := s.data.Get(id)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var p todoPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	var item model.TodoItem
	p.apply(&item)
	if err := s.checkTitle(p); err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	created, err := s.data.Create(item)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var p todoPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	if p.Title != nil {
		if err := s.checkTitle(p); err != nil {
			s.fail(w, r, http.StatusUnprocessableEntity, err)
			return
		}
	}
	item, err := s.data.Get(id)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	p.apply(&item)
	updated, err := s.data.Update(item)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// delete is idempotent: removing an unknown id still succeeds.
func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	found, err := s.data.Delete(id)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if !found {
		s.logger.Debug("delete of unknown todo", "id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) checkTitle(p todoPatch) error {
	form := map[string]any{}
	if p.Title != nil {
		form["title"] = *p.Title
	}
	return validate.Todo(form)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, errors.New("invalid todo id"))
		return 0, false
	}
	return id, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (p todoPatch) apply(item *model.TodoItem) {
	if p.UserID != nil {
		item.UserID = *p.UserID
	}
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Completed != nil {
		item.Completed = *p.Completed
	}
}

func statusFor(err error) int {
	if errors.Is(err, jsonstore.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
