package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionSummary is the immutable record of a finished detection session.
// Appended to the history store; never updated afterwards.
type SessionSummary struct {
	ID          uuid.UUID `json:"id"`
	Exercise    string    `json:"exercise"`
	DurationSec float64   `json:"duration_sec"`
	Reps        int       `json:"reps"`
	StartedAt   time.Time `json:"started_at"`
	SavedAt     time.Time `json:"saved_at"`
	Date        string    `json:"date"` // YYYY-MM-DD, derived from SavedAt
}

// NewSessionSummary builds a summary for a session that started at startedAt
// and is being saved at savedAt.
func NewSessionSummary(exercise string, reps int, startedAt, savedAt time.Time) SessionSummary {
	return SessionSummary{
		ID:          uuid.New(),
		Exercise:    exercise,
		DurationSec: savedAt.Sub(startedAt).Seconds(),
		Reps:        reps,
		StartedAt:   startedAt,
		SavedAt:     savedAt,
		Date:        savedAt.Format("2006-01-02"),
	}
}

// WorkoutStats are aggregates over the stored session history.
type WorkoutStats struct {
	TotalSessions      int      `json:"total_sessions"`
	TotalReps          int      `json:"total_reps"`
	TotalDurationSec   float64  `json:"total_duration_sec"`
	ExercisesPerformed []string `json:"exercises_performed"`
	SessionsThisWeek   int      `json:"sessions_this_week"`
}

// ComputeWorkoutStats aggregates a full history scan. SessionsThisWeek counts
// summaries saved within the last 7 days of now. ExercisesPerformed preserves
// first-seen order.
func ComputeWorkoutStats(summaries []SessionSummary, now time.Time) WorkoutStats {
	stats := WorkoutStats{ExercisesPerformed: []string{}}
	seen := make(map[string]bool)
	weekAgo := now.AddDate(0, 0, -7)

	for _, s := range summaries {
		stats.TotalSessions++
		stats.TotalReps += s.Reps
		stats.TotalDurationSec += s.DurationSec
		if !seen[s.Exercise] {
			seen[s.Exercise] = true
			stats.ExercisesPerformed = append(stats.ExercisesPerformed, s.Exercise)
		}
		if !s.SavedAt.Before(weekAgo) {
			stats.SessionsThisWeek++
		}
	}
	return stats
}
