package pose

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/Abhiram-Bhat/aifit/internal/models"
	"github.com/Abhiram-Bhat/aifit/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTracker(t *testing.T) (*Tracker, *storage.Memory) {
	t.Helper()
	history := storage.NewMemory()
	tracker := NewTracker(NewRegistry(), history, 0, testLogger())
	return tracker, history
}

// armSnapshot builds a snapshot whose left and right elbow angles both equal
// angleDeg, with every landmark at the given confidence.
func armSnapshot(angleDeg, conf float64) *models.Snapshot {
	rad := angleDeg * math.Pi / 180
	snap := &models.Snapshot{Landmarks: map[string]models.Landmark{}}

	add := func(name string, x, y float64) {
		snap.Landmarks[name] = models.Landmark{
			Name:       name,
			Position:   models.Point{X: x, Y: y},
			Confidence: conf,
		}
	}
	// Elbow at origin, wrist along +x, shoulder rotated by the target angle.
	add(models.LeftElbow, 0, 0)
	add(models.LeftWrist, 100, 0)
	add(models.LeftShoulder, 100*math.Cos(rad), 100*math.Sin(rad))
	add(models.RightElbow, 300, 0)
	add(models.RightWrist, 400, 0)
	add(models.RightShoulder, 300+100*math.Cos(rad), 100*math.Sin(rad))
	return snap
}

// bodyLineSnapshot builds a plank snapshot with the given shoulder-hip-ankle
// angle.
func bodyLineSnapshot(angleDeg, conf float64) *models.Snapshot {
	rad := angleDeg * math.Pi / 180
	snap := &models.Snapshot{Landmarks: map[string]models.Landmark{}}
	add := func(name string, x, y float64) {
		snap.Landmarks[name] = models.Landmark{
			Name:       name,
			Position:   models.Point{X: x, Y: y},
			Confidence: conf,
		}
	}
	add(models.LeftHip, 0, 0)
	add(models.LeftAnkle, 100, 0)
	add(models.LeftShoulder, 100*math.Cos(rad), 100*math.Sin(rad))
	return snap
}

// TestTrackerRoundTrip replays two full push-up cycles through a session and
// verifies the saved summary records exactly two reps.
func TestTrackerRoundTrip(t *testing.T) {
	tracker, history := newTestTracker(t)
	tracker.Start("Push-Ups", StartOptions{})

	for _, angle := range []float64{170, 85, 170, 85, 170} {
		analysis := tracker.Observe(armSnapshot(angle, 0.9))
		if analysis == nil {
			t.Fatal("Observe returned nil during active session")
		}
	}

	summary, err := tracker.Save(context.Background())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if summary.Reps != 2 {
		t.Errorf("summary.Reps = %d, want 2", summary.Reps)
	}
	if summary.Exercise != "Push-Ups" {
		t.Errorf("summary.Exercise = %q, want Push-Ups", summary.Exercise)
	}
	if summary.DurationSec < 0 {
		t.Errorf("summary.DurationSec = %v, want >= 0", summary.DurationSec)
	}
	if history.Len() != 1 {
		t.Errorf("history length = %d, want 1", history.Len())
	}
}

// TestTrackerObserveInactive verifies Observe is a no-op returning nil when
// no session is active.
func TestTrackerObserveInactive(t *testing.T) {
	tracker, _ := newTestTracker(t)
	if analysis := tracker.Observe(armSnapshot(170, 0.9)); analysis != nil {
		t.Errorf("Observe without session = %+v, want nil", analysis)
	}
}

// TestTrackerLowConfidenceIsNoSignal verifies that a frame whose primary
// landmarks fall below the session threshold changes no state: the down
// phase is never committed, so the following up frame counts nothing.
func TestTrackerLowConfidenceIsNoSignal(t *testing.T) {
	tracker, _ := newTestTracker(t)
	tracker.Start("push-ups", StartOptions{})

	tracker.Observe(armSnapshot(170, 0.9))
	before := tracker.Status()

	// Would be a down frame, but confidence 0.3 < default threshold 0.5.
	analysis := tracker.Observe(armSnapshot(85, 0.3))
	if analysis == nil {
		t.Fatal("Observe returned nil")
	}
	after := tracker.Status()
	if after.RepCount != before.RepCount {
		t.Errorf("rep count changed on low-confidence frame: %d -> %d", before.RepCount, after.RepCount)
	}

	// The down phase was never committed, so no rep can fire here.
	tracker.Observe(armSnapshot(170, 0.9))
	if got := tracker.Status().RepCount; got != 0 {
		t.Errorf("rep count = %d, want 0 (down frame was gated out)", got)
	}
}

// TestTrackerEmptySnapshotSkipped verifies a snapshot with no landmarks
// yields a result (generic feedback, confidence 0) but no state change.
func TestTrackerEmptySnapshotSkipped(t *testing.T) {
	tracker, _ := newTestTracker(t)
	tracker.Start("push-ups", StartOptions{})
	tracker.Observe(armSnapshot(170, 0.9))

	analysis := tracker.Observe(&models.Snapshot{})
	if analysis == nil {
		t.Fatal("Observe returned nil for empty snapshot")
	}
	if len(analysis.Angles) != 0 {
		t.Errorf("angles = %v, want none", analysis.Angles)
	}
	if analysis.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", analysis.Confidence)
	}
	if len(analysis.FormFeedback) == 0 {
		t.Error("feedback is empty; generator must always produce a message")
	}
	if analysis.RepCount != 0 {
		t.Errorf("rep count = %d, want 0", analysis.RepCount)
	}
}

// TestTrackerCoincidentLandmarksAreNoSignal verifies a frame whose shoulder
// and wrist coincide (degenerate geometry) commits no phase: it must not read
// as a DOWN phase and mint a rep on the next extended frame.
func TestTrackerCoincidentLandmarksAreNoSignal(t *testing.T) {
	tracker, _ := newTestTracker(t)
	tracker.Start("push-ups", StartOptions{})
	tracker.Observe(armSnapshot(170, 0.9))

	bad := armSnapshot(170, 0.9)
	bad.Landmarks[models.LeftWrist] = models.Landmark{
		Name:       models.LeftWrist,
		Position:   bad.Landmarks[models.LeftShoulder].Position,
		Confidence: 0.9,
	}
	tracker.Observe(bad)

	tracker.Observe(armSnapshot(170, 0.9))
	if got := tracker.Status().RepCount; got != 0 {
		t.Errorf("rep count = %d, want 0 after degenerate frame", got)
	}
}

// TestTrackerSaveWithoutStart verifies Save fails with ErrNoSession and does
// not touch the history.
func TestTrackerSaveWithoutStart(t *testing.T) {
	tracker, history := newTestTracker(t)
	if _, err := tracker.Save(context.Background()); err != ErrNoSession {
		t.Errorf("Save without start = %v, want ErrNoSession", err)
	}
	if history.Len() != 0 {
		t.Errorf("history length = %d, want 0", history.Len())
	}
}

// TestTrackerStopPreservesSession verifies rep count and exercise survive
// Stop until Save, so a confirmation dialog in the caller loses nothing.
func TestTrackerStopPreservesSession(t *testing.T) {
	tracker, _ := newTestTracker(t)
	tracker.Start("squats", StartOptions{})
	for _, angle := range []float64{170, 85, 170} {
		tracker.Observe(legSnapshot(angle, 0.9))
	}

	tracker.Stop()
	if tracker.Status().Active {
		t.Error("still active after Stop")
	}
	if tracker.Observe(legSnapshot(85, 0.9)) != nil {
		t.Error("Observe after Stop returned a result")
	}

	summary, err := tracker.Save(context.Background())
	if err != nil {
		t.Fatalf("Save after Stop: %v", err)
	}
	if summary.Reps != 1 {
		t.Errorf("summary.Reps = %d, want 1 (count accumulated before Stop)", summary.Reps)
	}
}

// legSnapshot builds a snapshot whose left and right knee angles both equal
// angleDeg.
func legSnapshot(angleDeg, conf float64) *models.Snapshot {
	rad := angleDeg * math.Pi / 180
	snap := &models.Snapshot{Landmarks: map[string]models.Landmark{}}
	add := func(name string, x, y float64) {
		snap.Landmarks[name] = models.Landmark{
			Name:       name,
			Position:   models.Point{X: x, Y: y},
			Confidence: conf,
		}
	}
	add(models.LeftKnee, 0, 0)
	add(models.LeftAnkle, 100, 0)
	add(models.LeftHip, 100*math.Cos(rad), 100*math.Sin(rad))
	add(models.RightKnee, 300, 0)
	add(models.RightAnkle, 400, 0)
	add(models.RightHip, 300+100*math.Cos(rad), 100*math.Sin(rad))
	return snap
}

// TestTrackerStartIsReentrant verifies starting during a live session resets
// state for the new exercise without error.
func TestTrackerStartIsReentrant(t *testing.T) {
	tracker, _ := newTestTracker(t)
	tracker.Start("push-ups", StartOptions{})
	for _, angle := range []float64{170, 85, 170} {
		tracker.Observe(armSnapshot(angle, 0.9))
	}
	if got := tracker.Status().RepCount; got != 1 {
		t.Fatalf("rep count = %d, want 1", got)
	}

	tracker.Start("squats", StartOptions{})
	st := tracker.Status()
	if st.RepCount != 0 {
		t.Errorf("rep count after restart = %d, want 0", st.RepCount)
	}
	if st.Exercise != "squats" {
		t.Errorf("exercise = %q, want squats", st.Exercise)
	}
	if !st.Active {
		t.Error("not active after restart")
	}
}

// TestTrackerSecondSaveFails verifies Save consumes the session: saving
// again without a new Start is an error.
func TestTrackerSecondSaveFails(t *testing.T) {
	tracker, history := newTestTracker(t)
	tracker.Start("push-ups", StartOptions{})
	if _, err := tracker.Save(context.Background()); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if _, err := tracker.Save(context.Background()); err != ErrNoSession {
		t.Errorf("second Save = %v, want ErrNoSession", err)
	}
	if history.Len() != 1 {
		t.Errorf("history length = %d, want 1", history.Len())
	}
}

// TestTrackerTargetReached verifies the optional rep target flips the
// analysis flag once reached.
func TestTrackerTargetReached(t *testing.T) {
	tracker, _ := newTestTracker(t)
	tracker.Start("push-ups", StartOptions{TargetReps: 2})

	var last *Analysis
	for _, angle := range []float64{170, 85, 170} {
		last = tracker.Observe(armSnapshot(angle, 0.9))
	}
	if last.TargetReached {
		t.Error("target reported reached at 1 of 2 reps")
	}

	for _, angle := range []float64{85, 170} {
		last = tracker.Observe(armSnapshot(angle, 0.9))
	}
	if !last.TargetReached {
		t.Errorf("target not reported reached at %d of 2 reps", last.RepCount)
	}
}

// TestTrackerHoldExercise verifies plank sessions report in-range instead of
// counting reps.
func TestTrackerHoldExercise(t *testing.T) {
	tracker, _ := newTestTracker(t)
	tracker.Start("plank", StartOptions{})

	analysis := tracker.Observe(bodyLineSnapshot(175, 0.9))
	if analysis.InRange == nil || !*analysis.InRange {
		t.Errorf("InRange = %v, want true for 175 degree body line", analysis.InRange)
	}

	analysis = tracker.Observe(bodyLineSnapshot(120, 0.9))
	if analysis.InRange == nil || *analysis.InRange {
		t.Errorf("InRange = %v, want false for 120 degree body line", analysis.InRange)
	}
	if analysis.RepCount != 0 {
		t.Errorf("rep count = %d, want 0 for hold exercise", analysis.RepCount)
	}
}

// TestTrackerThresholdClamped verifies operator thresholds outside [0.1, 1]
// are clamped rather than rejected.
func TestTrackerThresholdClamped(t *testing.T) {
	tracker, _ := newTestTracker(t)

	tracker.Start("push-ups", StartOptions{ConfidenceThreshold: 5})
	if got := tracker.Status().ConfidenceThreshold; got != 1.0 {
		t.Errorf("threshold = %v, want clamped to 1.0", got)
	}

	tracker.Start("push-ups", StartOptions{ConfidenceThreshold: 0.01})
	if got := tracker.Status().ConfidenceThreshold; got != 0.1 {
		t.Errorf("threshold = %v, want clamped to 0.1", got)
	}
}

// TestTrackerStats verifies aggregation over the stored history, including
// the 7-day window.
func TestTrackerStats(t *testing.T) {
	tracker, history := newTestTracker(t)
	ctx := context.Background()

	now := time.Now()
	old := models.NewSessionSummary("squats", 8, now.AddDate(0, 0, -30), now.AddDate(0, 0, -30))
	recent := models.NewSessionSummary("push-ups", 10, now.Add(-time.Hour), now.Add(-time.Hour))
	if err := history.AppendSessionSummary(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := history.AppendSessionSummary(ctx, recent); err != nil {
		t.Fatal(err)
	}

	stats, err := tracker.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalSessions != 2 {
		t.Errorf("TotalSessions = %d, want 2", stats.TotalSessions)
	}
	if stats.TotalReps != 18 {
		t.Errorf("TotalReps = %d, want 18", stats.TotalReps)
	}
	if stats.SessionsThisWeek != 1 {
		t.Errorf("SessionsThisWeek = %d, want 1", stats.SessionsThisWeek)
	}
	if len(stats.ExercisesPerformed) != 2 {
		t.Errorf("ExercisesPerformed = %v, want 2 entries", stats.ExercisesPerformed)
	}
}

// TestRepCounterIgnoresSecondaryAngles documents that only the first angle
// definition drives counting: a wildly different right arm changes feedback
// but not the rep edge. Candidate improvement: require both sides to agree.
func TestRepCounterIgnoresSecondaryAngles(t *testing.T) {
	tracker, _ := newTestTracker(t)
	tracker.Start("push-ups", StartOptions{})

	// Left arm cycles down→up; right arm stays extended throughout.
	frames := []*models.Snapshot{
		asymmetricArmSnapshot(170, 170, 0.9),
		asymmetricArmSnapshot(85, 170, 0.9),
		asymmetricArmSnapshot(170, 170, 0.9),
	}
	var last *Analysis
	for _, f := range frames {
		last = tracker.Observe(f)
	}
	if last.RepCount != 1 {
		t.Errorf("rep count = %d, want 1 (left arm is the only counting signal)", last.RepCount)
	}
}

// asymmetricArmSnapshot builds a snapshot with independent left and right
// elbow angles.
func asymmetricArmSnapshot(leftDeg, rightDeg, conf float64) *models.Snapshot {
	left := leftDeg * math.Pi / 180
	right := rightDeg * math.Pi / 180
	snap := &models.Snapshot{Landmarks: map[string]models.Landmark{}}
	add := func(name string, x, y float64) {
		snap.Landmarks[name] = models.Landmark{
			Name:       name,
			Position:   models.Point{X: x, Y: y},
			Confidence: conf,
		}
	}
	add(models.LeftElbow, 0, 0)
	add(models.LeftWrist, 100, 0)
	add(models.LeftShoulder, 100*math.Cos(left), 100*math.Sin(left))
	add(models.RightElbow, 300, 0)
	add(models.RightWrist, 400, 0)
	add(models.RightShoulder, 300+100*math.Cos(right), 100*math.Sin(right))
	return snap
}
