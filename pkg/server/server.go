// Package server exposes the content catalog over a read-only HTTP API so
// editors and dashboards can browse commands, agents, skills, workflows, and
// installed packs without shelling out to the CLI.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/doanchienthangdev/omgkit/pkg/catalog"
	"github.com/doanchienthangdev/omgkit/pkg/logger"
	"github.com/doanchienthangdev/omgkit/pkg/packs"
	"github.com/doanchienthangdev/omgkit/pkg/presenter"
)

// Config holds the configuration for the content server.
type Config struct {
	Host string
	Port int
}

// Validate validates the server configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Server serves the content catalog over HTTP.
type Server struct {
	router    *mux.Router
	config    *Config
	discovery *packs.Discovery
	builder   *catalog.Builder
	server    *http.Server

	mu    sync.RWMutex
	index *catalog.Index
}

// NewServer creates a content server and builds the initial catalog snapshot.
// A nil discovery means default pack discovery.
func NewServer(ctx context.Context, config *Config, discovery *packs.Discovery) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	if discovery == nil {
		d, err := packs.NewDiscovery()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create pack discovery")
		}
		discovery = d
	}

	builder, err := catalog.NewBuilder(discovery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create catalog builder")
	}

	s := &Server{
		router:    mux.NewRouter(),
		config:    config,
		discovery: discovery,
		builder:   builder,
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	s.setupRoutes()

	return s, nil
}

// Reload rebuilds the catalog snapshot from disk. The watcher calls this when
// content changes.
func (s *Server) Reload(ctx context.Context) error {
	index, err := s.builder.Build(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to build catalog")
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()

	logger.G(ctx).WithFields(map[string]interface{}{
		"commands":  len(index.Commands),
		"agents":    len(index.Agents),
		"skills":    len(index.Skills),
		"workflows": len(index.Workflows),
	}).Debug("catalog reloaded")

	return nil
}

func (s *Server) snapshot() *catalog.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// setupRoutes configures all the HTTP routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Content names may contain slashes (pack prefixes), so the name
	// matchers are greedy. Action routes must be registered before the
	// bare name routes.
	api.HandleFunc("/commands", s.handleListCommands).Methods("GET")
	api.HandleFunc("/commands/{name:.+}/render", s.handleRenderCommand).Methods("GET")
	api.HandleFunc("/commands/{name:.+}", s.handleGetCommand).Methods("GET")
	api.HandleFunc("/agents", s.handleListAgents).Methods("GET")
	api.HandleFunc("/agents/{name:.+}", s.handleGetAgent).Methods("GET")
	api.HandleFunc("/skills", s.handleListSkills).Methods("GET")
	api.HandleFunc("/skills/{name:.+}", s.handleGetSkill).Methods("GET")
	api.HandleFunc("/workflows", s.handleListWorkflows).Methods("GET")
	api.HandleFunc("/workflows/{name:.+}", s.handleGetWorkflow).Methods("GET")
	api.HandleFunc("/packs", s.handleListPacks).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)
}

// requestIDMiddleware tags every request with an id for log correlation.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := logger.WithLogger(r.Context(),
			logger.G(r.Context()).WithField("request_id", requestID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		next.ServeHTTP(rw, r)

		logger.G(r.Context()).WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration":    time.Since(start),
			"remote_addr": r.RemoteAddr,
		}).Info("HTTP request")
	})
}

// corsMiddleware adds CORS headers.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:    address,
		Handler: s.router,
	}

	presenter.Info(fmt.Sprintf("Serving content catalog on http://%s", address))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.G(ctx).WithError(err).Error("content server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Stop stops the server immediately.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// writeJSONResponse writes a JSON response.
func (s *Server) writeJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.G(context.TODO()).WithError(err).Error("failed to encode JSON response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes an error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil {
		logger.G(context.TODO()).WithError(err).Error(message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]interface{}{
		"error":   message,
		"status":  statusCode,
		"success": false,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.G(context.TODO()).WithError(err).Error("failed to encode error response")
	}
}
