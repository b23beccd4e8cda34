// Package server exposes the detection engine and session history over HTTP:
// a JSON API for session control and a WebSocket stream for live frames.
package server

import (
	"log/slog"
	"net/http"

	"github.com/Abhiram-Bhat/aifit/internal/pose"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker  *pose.Tracker
	registry *pose.Registry
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(tracker *pose.Tracker, registry *pose.Registry, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		tracker:  tracker,
		registry: registry,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Session control (API key required)
	s.router.Route("/api/v1/detect", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/start", s.handleStart)
		r.Post("/stop", s.handleStop)
		r.Post("/observe", s.handleObserve)
		r.Post("/save", s.handleSave)
		r.Get("/status", s.handleStatus)
	})

	// Read-only history and catalog
	s.router.Get("/api/v1/sessions", s.handleSessions)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/exercises", s.handleExercises)

	// Live frame stream
	s.router.Get("/ws/detect", s.handleDetectWS)
}

// SetMCP mounts the MCP streamable-HTTP handler under /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}
