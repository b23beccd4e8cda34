package pose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Abhiram-Bhat/aifit/internal/models"
)

// ErrNoSession is returned by Save when no detection session was started (or
// the previous one was already saved).
var ErrNoSession = errors.New("no detection session to save")

// DefaultConfidenceThreshold gates landmark confidence when the caller does
// not configure one.
const DefaultConfidenceThreshold = 0.5

// Confidence threshold bounds; operator input is clamped into this range.
const (
	minConfidenceThreshold = 0.1
	maxConfidenceThreshold = 1.0
)

// HistoryStore is the external persistence collaborator: an append-only
// collection of session summaries with full-scan read access.
type HistoryStore interface {
	AppendSessionSummary(ctx context.Context, s models.SessionSummary) error
	ListSessionSummaries(ctx context.Context, start, end time.Time) ([]models.SessionSummary, error)
	AllSessionSummaries(ctx context.Context) ([]models.SessionSummary, error)
}

// Analysis is the per-frame result of Observe.
type Analysis struct {
	Exercise      string             `json:"exercise"`
	RepCount      int                `json:"rep_count"`
	Angles        map[string]float64 `json:"angles"`
	FormFeedback  []string           `json:"form_feedback"`
	Confidence    float64            `json:"confidence"`
	InRange       *bool              `json:"in_range,omitempty"`
	TargetReached bool               `json:"target_reached,omitempty"`
}

// Status describes the current detection session for status endpoints.
type Status struct {
	Active              bool       `json:"active"`
	Exercise            string     `json:"exercise,omitempty"`
	RepCount            int        `json:"rep_count"`
	TargetReps          int        `json:"target_reps,omitempty"`
	ConfidenceThreshold float64    `json:"confidence_threshold,omitempty"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
}

// StartOptions carries optional per-session settings. A zero
// ConfidenceThreshold falls back to the tracker default; non-zero values are
// clamped to [0.1, 1.0]. TargetReps 0 disables target tracking.
type StartOptions struct {
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"`
	TargetReps          int     `json:"target_reps,omitempty"`
}

// Tracker owns the single live detection session and runs the per-frame
// analysis pipeline. One camera, one user: there is never more than one live
// session, and the mutex only serializes handler access to it.
type Tracker struct {
	registry         *Registry
	history          HistoryStore
	log              *slog.Logger
	defaultThreshold float64
	now              func() time.Time

	mu sync.Mutex
	// session state, guarded by mu
	active    bool
	started   bool // a session exists (possibly stopped) and is not yet saved
	exercise  string
	profile   *Profile
	counter   RepCounter
	threshold float64
	target    int
	startTime time.Time
}

// NewTracker builds a tracker over the given profile registry and history
// store. defaultThreshold <= 0 selects DefaultConfidenceThreshold.
func NewTracker(registry *Registry, history HistoryStore, defaultThreshold float64, log *slog.Logger) *Tracker {
	if defaultThreshold <= 0 {
		defaultThreshold = DefaultConfidenceThreshold
	}
	return &Tracker{
		registry:         registry,
		history:          history,
		log:              log,
		defaultThreshold: defaultThreshold,
		now:              time.Now,
	}
}

// Start begins a detection session for the named exercise, resetting the rep
// count and last phase. Re-entrant: starting while a session is live simply
// resets state for the new exercise.
func (t *Tracker) Start(exercise string, opts StartOptions) {
	threshold := opts.ConfidenceThreshold
	if threshold == 0 {
		threshold = t.defaultThreshold
	}
	threshold = clampThreshold(threshold)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.exercise = exercise
	t.profile = t.registry.Resolve(exercise)
	t.counter.Reset()
	t.threshold = threshold
	t.target = opts.TargetReps
	t.startTime = t.now()
	t.active = true
	t.started = true

	t.log.Info("detection started",
		"exercise", exercise,
		"profile", t.profile.Name,
		"confidence_threshold", threshold,
		"target_reps", opts.TargetReps,
	)
}

// Stop deactivates the session. Rep count and exercise are preserved until
// Save or the next Start, so a confirmation prompt in the caller loses
// nothing.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return
	}
	t.active = false
	t.log.Info("detection stopped", "exercise", t.exercise, "reps", t.counter.Count())
}

// Observe runs one snapshot through the analysis pipeline: joint angles,
// phase classification, rep counting, and form feedback. Returns nil when no
// session is active. Low-confidence or degenerate frames change no state.
func (t *Tracker) Observe(snap *models.Snapshot) *Analysis {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return nil
	}

	analysis := &Analysis{
		Exercise:   t.exercise,
		RepCount:   t.counter.Count(),
		Angles:     make(map[string]float64),
		Confidence: snap.MeanConfidence(),
	}

	for _, def := range t.profile.Angles {
		outer, ok1 := snap.Get(def.Outer)
		joint, ok2 := snap.Get(def.Joint)
		inner, ok3 := snap.Get(def.Inner)
		if ok1 && ok2 && ok3 {
			analysis.Angles[def.Name] = Angle(outer.Position, joint.Position, inner.Position)
		}
	}

	// Phase decisions use only the primary signal and require all three of
	// its landmarks at or above the session threshold; anything less is a
	// no-signal frame.
	if primaryAngle, ok := t.primarySignal(snap); ok {
		switch {
		case t.profile.Rep != nil:
			if t.counter.Observe(primaryAngle, *t.profile.Rep) {
				t.log.Debug("rep completed", "exercise", t.exercise, "count", t.counter.Count())
			}
			analysis.RepCount = t.counter.Count()
		case t.profile.Hold != nil:
			in := InHoldRange(primaryAngle, *t.profile.Hold)
			analysis.InRange = &in
		}
	}

	analysis.FormFeedback = FormFeedback(t.profile.Feedback, analysis.Angles)
	if t.target > 0 && analysis.RepCount >= t.target {
		analysis.TargetReached = true
	}
	return analysis
}

// primarySignal computes the primary angle if all three of its landmarks are
// present and confident enough, and the resulting geometry is non-degenerate.
func (t *Tracker) primarySignal(snap *models.Snapshot) (float64, bool) {
	def := t.profile.Primary()
	outer, ok1 := snap.Get(def.Outer)
	joint, ok2 := snap.Get(def.Joint)
	inner, ok3 := snap.Get(def.Inner)
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}
	if outer.Confidence < t.threshold || joint.Confidence < t.threshold || inner.Confidence < t.threshold {
		return 0, false
	}

	angle := Angle(outer.Position, joint.Position, inner.Position)
	if angle == 0 {
		// Degenerate geometry: unusable for phase decisions.
		return 0, false
	}
	return angle, true
}

// Save materializes the session into a SessionSummary, appends it to the
// history store, and resets the session. Returns ErrNoSession if nothing was
// ever started (or the session was already saved).
func (t *Tracker) Save(ctx context.Context) (models.SessionSummary, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return models.SessionSummary{}, ErrNoSession
	}

	summary := models.NewSessionSummary(t.exercise, t.counter.Count(), t.startTime, t.now())
	if err := t.history.AppendSessionSummary(ctx, summary); err != nil {
		return models.SessionSummary{}, fmt.Errorf("appending session summary: %w", err)
	}

	t.counter.Reset()
	t.active = false
	t.started = false

	t.log.Info("session saved",
		"exercise", summary.Exercise,
		"reps", summary.Reps,
		"duration_sec", summary.DurationSec,
	)
	return summary, nil
}

// Status reports the live session state.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := Status{Active: t.active, RepCount: t.counter.Count()}
	if t.started {
		st.Exercise = t.exercise
		st.TargetReps = t.target
		st.ConfidenceThreshold = t.threshold
		started := t.startTime
		st.StartedAt = &started
	}
	return st
}

// Stats aggregates the full session history.
func (t *Tracker) Stats(ctx context.Context) (models.WorkoutStats, error) {
	summaries, err := t.history.AllSessionSummaries(ctx)
	if err != nil {
		return models.WorkoutStats{}, fmt.Errorf("scanning session history: %w", err)
	}
	return models.ComputeWorkoutStats(summaries, t.now()), nil
}

// History returns stored summaries within [start, end).
func (t *Tracker) History(ctx context.Context, start, end time.Time) ([]models.SessionSummary, error) {
	return t.history.ListSessionSummaries(ctx, start, end)
}

func clampThreshold(v float64) float64 {
	if v < minConfidenceThreshold {
		return minConfidenceThreshold
	}
	if v > maxConfidenceThreshold {
		return maxConfidenceThreshold
	}
	return v
}
