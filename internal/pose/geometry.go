// Package pose implements the exercise analysis engine: joint-angle
// computation, movement-phase classification with rep counting, form
// feedback, and live session tracking over per-frame keypoint snapshots.
package pose

import (
	"math"

	"github.com/Abhiram-Bhat/aifit/internal/models"
)

// Angle returns the interior angle at vertex b of the triangle (a, b, c),
// in degrees within [0, 180]. If either b→a or b→c has zero length the
// geometry is degenerate (coincident keypoints from a bad detection) and
// the result is 0; callers must not base phase decisions on it.
func Angle(a, b, c models.Point) float64 {
	bax := a.X - b.X
	bay := a.Y - b.Y
	bcx := c.X - b.X
	bcy := c.Y - b.Y

	lenBA := math.Hypot(bax, bay)
	lenBC := math.Hypot(bcx, bcy)
	if lenBA == 0 || lenBC == 0 {
		return 0
	}
	// Identical segments mean a and c coincide. Acos would return a tiny
	// nonzero angle from Hypot rounding, which reads as a real DOWN phase.
	if bax == bcx && bay == bcy {
		return 0
	}

	cos := (bax*bcx + bay*bcy) / (lenBA * lenBC)
	// Floating-point overshoot past ±1 would put arccos out of domain.
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}
