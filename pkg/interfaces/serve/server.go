// Package serve exposes visualizer sessions over HTTP so a host page can
// drive a controller remotely and fetch rendered output.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vsinha/planviz/pkg/application/session"
	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/infrastructure/events"
)

// maxPayloadBytes caps chart and explanation uploads
const maxPayloadBytes = 10 << 20

// Config wires the server's collaborators
type Config struct {
	Sessions session.Repository
	Events   events.EventStore
	Logger   *slog.Logger
	Title    string
}

// Server is the HTTP surface
type Server struct {
	sessions session.Repository
	events   events.EventStore
	logger   *slog.Logger
	title    string
	router   chi.Router
}

// New creates a server and builds its router
func New(cfg Config) *Server {
	s := &Server{
		sessions: cfg.Sessions,
		events:   cfg.Events,
		logger:   cfg.Logger,
		title:    cfg.Title,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/callbacks", s.handleCallbacks)
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions", s.handleListSessions)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)
			r.Get("/callbacks", s.handleSessionCallbacks)

			r.Post("/chart", s.withSession(s.handleLoadChart))
			r.Post("/explanations", s.withSession(s.handleLoadExplanations))

			r.Put("/visibility", s.withSession(s.handleVisibility))
			r.Put("/projection", s.withSession(s.handleProjection))
			r.Put("/categories/{category}", s.withSession(s.handleCategory))
			r.Put("/tracking", s.withSession(s.handleTracking))
			r.Put("/coverage", s.withSession(s.handleCoverage))
			r.Put("/horizon", s.withSession(s.handleHorizon))
			r.Put("/highlight", s.withSession(s.handleHighlight))

			r.Get("/chart.svg", s.withSession(s.handleChartSVG))
			r.Get("/chart.json", s.withSession(s.handleChartJSON))
			r.Get("/page.html", s.withSession(s.handlePage))
			r.Get("/explanations.html", s.withSession(s.handleExplanationsHTML))
			r.Get("/hover", s.withSession(s.handleHover))
			r.Post("/click", s.withSession(s.handleClick))
			r.Post("/cards/{index}/toggle", s.withSession(s.handleToggleCard))
			r.Post("/explanations/{reqLineNo}/activate", s.withSession(s.handleActivate))
		})
	})

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// sessionHandler is a handler that runs with exclusive access to a controller
type sessionHandler func(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error

// withSession resolves {id} and runs h under the session lock
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		err = sess.Do(func(c *visualizer.Controller) error {
			return h(w, r, c)
		})
		if err != nil {
			writeError(w, statusFor(err), err.Error())
		}
	}
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	var syntax *json.SyntaxError
	var badRequest *requestError
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidPayload), errors.As(err, &syntax), errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.Is(err, visualizer.ErrNoChart):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// requestError marks a malformed request
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...interface{}) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("error encoding JSON", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
