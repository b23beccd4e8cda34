package mcp

import (
	"context"
	"time"

	"github.com/Abhiram-Bhat/aifit/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetWorkoutStats = mcp.NewTool("get_workout_stats",
	mcp.WithDescription("Aggregate statistics over all saved pose sessions: total sessions, total reps, total duration, distinct exercises practiced, and sessions within the last 7 days."),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("List saved pose detection sessions: exercise, reps completed, duration in seconds, timestamps."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (fuzzy match, e.g. 'pushups')")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List all exercises the detection engine supports, with their movement-signal angle definitions and rep or hold thresholds."),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := h.ds.AllSessionSummaries(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	stats := models.ComputeWorkoutStats(summaries, time.Now())
	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	summaries, err := h.ds.ListSessionSummaries(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if filter := req.GetString("exercise", ""); filter != "" {
		// Resolve the filter to a canonical profile so naming variants match.
		want := h.registry.Resolve(filter).Name
		filtered := summaries[:0]
		for _, s := range summaries {
			if h.registry.Resolve(s.Exercise).Name == want {
				filtered = append(filtered, s)
			}
		}
		summaries = filtered
	}

	result, err := mcp.NewToolResultJSON(summaries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.catalog())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
