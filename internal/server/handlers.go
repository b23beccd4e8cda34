package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Abhiram-Bhat/aifit/internal/models"
	"github.com/Abhiram-Bhat/aifit/internal/pose"
)

type startRequest struct {
	Exercise string `json:"exercise"`
	pose.StartOptions
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise is required"})
		return
	}

	s.tracker.Start(req.Exercise, req.StartOptions)
	writeJSON(w, http.StatusOK, s.tracker.Status())
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.tracker.Stop()
	writeJSON(w, http.StatusOK, s.tracker.Status())
}

func (s *Server) handleObserve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}

	snap, err := models.ParseFrame(body)
	if err != nil {
		// Malformed frames are skipped, not fatal; the session state is
		// untouched and the caller learns which kind of error this was.
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	analysis := s.tracker.Observe(snap)
	if analysis == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active detection session"})
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	summary, err := s.tracker.Save(r.Context())
	if err != nil {
		if errors.Is(err, pose.ErrNoSession) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("session save failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Status())
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	summaries, err := s.tracker.History(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if summaries == nil {
		summaries = []models.SessionSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tracker.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type exerciseInfo struct {
	Name      string  `json:"name"`
	Mode      string  `json:"mode"` // "reps" or "hold"
	AngleDefs int     `json:"angle_defs"`
	UpAngle   float64 `json:"up_angle_min,omitempty"`
	DownAngle float64 `json:"down_angle_max,omitempty"`
	Target    float64 `json:"target_angle,omitempty"`
	Tolerance float64 `json:"tolerance,omitempty"`
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	var out []exerciseInfo
	for _, name := range s.registry.Names() {
		p, ok := s.registry.Get(name)
		if !ok {
			continue
		}
		info := exerciseInfo{Name: p.Name, AngleDefs: len(p.Angles)}
		if p.Rep != nil {
			info.Mode = "reps"
			info.UpAngle = p.Rep.UpAngleMin
			info.DownAngle = p.Rep.DownAngleMax
		} else if p.Hold != nil {
			info.Mode = "hold"
			info.Target = p.Hold.TargetAngle
			info.Tolerance = p.Hold.Tolerance
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}

	if startStr == "" {
		// Default: the 7 days leading up to end
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return
}
