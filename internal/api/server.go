package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"tasklist/pkg/task"
)

// TaskService is the subset of task.Service the handlers call.
type TaskService interface {
	Add(ctx context.Context, text string, priority *int) (*task.Task, error)
	Complete(ctx context.Context, id int64) (bool, error)
	Edit(ctx context.Context, id int64, text *string, priority *int) (*task.Task, error)
	Remove(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*task.Task, error)
	List(ctx context.Context) ([]task.Task, error)
	Stats(ctx context.Context) (task.Stats, error)
}

// Server is the HTTP API server.
type Server struct {
	tasks   TaskService
	logger  *log.Logger
	mux     *http.ServeMux
	handler http.Handler
}

// New creates a new Server.
func New(tasks TaskService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		tasks:  tasks,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.routes()
	s.handler = s.withRequestLog(s.mux)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	// Tasks
	s.mux.HandleFunc("GET /api/tasks", s.handleTaskList)
	s.mux.HandleFunc("POST /api/tasks", s.handleTaskCreate)
	s.mux.HandleFunc("GET /api/tasks/{id}", s.handleTaskGet)
	s.mux.HandleFunc("PATCH /api/tasks/{id}", s.handleTaskUpdate)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handleTaskDelete)
	s.mux.HandleFunc("POST /api/tasks/{id}/complete", s.handleTaskComplete)

	// Routes kept for clients of the original flat-file app
	s.mux.HandleFunc("GET /api/tarefas", s.handleTaskList)
	s.mux.HandleFunc("GET /api/tarefas/{id}", s.handleTaskGet)
	s.mux.HandleFunc("POST /api/adicionar", s.handleTaskCreate)
	s.mux.HandleFunc("POST /api/completar/{id}", s.handleTaskComplete)

	// System
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.tasks.Stats(r.Context())
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	s.writeJSON(w, 200, st)
}

// statusRecorder captures the status code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.Must(uuid.NewV7()).String()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"dur", time.Since(start).Round(time.Microsecond),
			"request_id", id)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write json", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	s.writeError(w, 500, err.Error())
}
