// Package mcp exposes the session history and exercise catalog to AI
// assistants over the Model Context Protocol.
package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/Abhiram-Bhat/aifit/internal/models"
	"github.com/Abhiram-Bhat/aifit/internal/pose"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DataSource abstracts the history store for MCP tools. *storage.DB (live)
// and *storage.Memory (tests) both satisfy it.
type DataSource interface {
	ListSessionSummaries(ctx context.Context, start, end time.Time) ([]models.SessionSummary, error)
	AllSessionSummaries(ctx context.Context) ([]models.SessionSummary, error)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, registry *pose.Registry, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("AI-FIT", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("AI-FIT pose coaching server. Query practiced exercise sessions (reps, durations), aggregate workout statistics, and the exercise catalog with its detection thresholds."),
	)

	h := &handlers{ds: ds, registry: registry, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutStats, Handler: h.getWorkoutStats},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds       DataSource
	registry *pose.Registry
	log      *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"aifit://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Pose detection sessions saved in the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"aifit://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All registered exercises with their angle definitions and rep/hold thresholds"),
	mcp.WithMIMEType("application/json"),
)
