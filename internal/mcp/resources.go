package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	summaries, err := h.ds.ListSessionSummaries(ctx, start, end)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) exerciseCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(h.catalog())
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// catalogEntry describes one registered exercise for assistants.
type catalogEntry struct {
	Name      string   `json:"name"`
	Mode      string   `json:"mode"` // "reps" or "hold"
	Angles    []string `json:"angles"`
	UpAngle   float64  `json:"up_angle_min,omitempty"`
	DownAngle float64  `json:"down_angle_max,omitempty"`
	Target    float64  `json:"target_angle,omitempty"`
	Tolerance float64  `json:"tolerance,omitempty"`
}

func (h *handlers) catalog() []catalogEntry {
	var out []catalogEntry
	for _, name := range h.registry.Names() {
		p, ok := h.registry.Get(name)
		if !ok {
			continue
		}
		entry := catalogEntry{Name: p.Name}
		for _, def := range p.Angles {
			entry.Angles = append(entry.Angles, def.Name)
		}
		switch {
		case p.Rep != nil:
			entry.Mode = "reps"
			entry.UpAngle = p.Rep.UpAngleMin
			entry.DownAngle = p.Rep.DownAngleMax
		case p.Hold != nil:
			entry.Mode = "hold"
			entry.Target = p.Hold.TargetAngle
			entry.Tolerance = p.Hold.Tolerance
		}
		out = append(out, entry)
	}
	return out
}
