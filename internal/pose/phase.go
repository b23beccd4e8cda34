package pose

// Phase is the classified movement phase of a rep-based exercise.
type Phase string

const (
	PhaseUp     Phase = "up"
	PhaseDown   Phase = "down"
	PhaseMiddle Phase = "middle"
)

// ClassifyPhase maps a primary-signal angle onto a movement phase.
func ClassifyPhase(angle float64, cfg RepConfig) Phase {
	switch {
	case angle > cfg.UpAngleMin:
		return PhaseUp
	case angle < cfg.DownAngleMax:
		return PhaseDown
	default:
		return PhaseMiddle
	}
}

// RepCounter tracks committed phases across observations and counts
// repetitions. A rep completes exactly on a down→up edge: counting only the
// return to extension keeps jittery passes through the middle band from
// double-counting. The first observation commits a phase without counting.
type RepCounter struct {
	count     int
	last      Phase
	committed bool
}

// Observe feeds one primary-signal angle. Returns true if this observation
// completed a repetition.
func (c *RepCounter) Observe(angle float64, cfg RepConfig) bool {
	current := ClassifyPhase(angle, cfg)

	counted := c.committed && c.last == PhaseDown && current == PhaseUp
	if counted {
		c.count++
	}

	c.last = current
	c.committed = true
	return counted
}

// Count returns completed repetitions since the last Reset.
func (c *RepCounter) Count() int { return c.count }

// LastPhase returns the last committed phase and whether any observation has
// been committed yet.
func (c *RepCounter) LastPhase() (Phase, bool) { return c.last, c.committed }

// Reset clears the count and the committed phase.
func (c *RepCounter) Reset() {
	c.count = 0
	c.last = ""
	c.committed = false
}

// InHoldRange reports whether an angle sits within the target band of an
// isometric exercise.
func InHoldRange(angle float64, cfg HoldConfig) bool {
	diff := angle - cfg.TargetAngle
	if diff < 0 {
		diff = -diff
	}
	return diff <= cfg.Tolerance
}
