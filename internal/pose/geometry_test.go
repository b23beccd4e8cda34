package pose

import (
	"math"
	"testing"

	"github.com/Abhiram-Bhat/aifit/internal/models"
)

func pt(x, y float64) models.Point { return models.Point{X: x, Y: y} }

// TestAngleKnownValues verifies the interior angle for hand-checked
// geometries.
func TestAngleKnownValues(t *testing.T) {
	cases := []struct {
		name    string
		a, b, c models.Point
		want    float64
	}{
		{"right angle", pt(0, 1), pt(0, 0), pt(1, 0), 90},
		{"straight line", pt(-1, 0), pt(0, 0), pt(1, 0), 180},
		{"collinear same side", pt(2, 0), pt(0, 0), pt(1, 0), 0},
		{"45 degrees", pt(1, 1), pt(0, 0), pt(1, 0), 45},
		{"scaled arms", pt(0, 500), pt(0, 0), pt(3, 0), 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Angle(tc.a, tc.b, tc.c)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Angle = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestAngleRange verifies that results stay in [0, 180] and are symmetric
// under swapping the outer points.
func TestAngleRange(t *testing.T) {
	points := []models.Point{
		pt(0, 0), pt(1, 0), pt(0, 1), pt(-3, 7), pt(12.5, -4.25), pt(640, 480),
	}
	for _, a := range points {
		for _, b := range points {
			for _, c := range points {
				got := Angle(a, b, c)
				if got < 0 || got > 180 {
					t.Fatalf("Angle(%v,%v,%v) = %v, out of [0,180]", a, b, c, got)
				}
				if rev := Angle(c, b, a); math.Abs(got-rev) > 1e-9 {
					t.Fatalf("Angle(%v,%v,%v) = %v but reversed = %v", a, b, c, got, rev)
				}
			}
		}
	}
}

// TestAngleDegenerate verifies that coincident points yield 0 instead of a
// panic or NaN; a bad detection must never take the pipeline down.
func TestAngleDegenerate(t *testing.T) {
	cases := []struct {
		name    string
		a, b, c models.Point
	}{
		{"third coincides with first", pt(1, 2), pt(0, 0), pt(1, 2)},
		{"outer equals vertex", pt(0, 0), pt(0, 0), pt(1, 0)},
		{"all coincident", pt(5, 5), pt(5, 5), pt(5, 5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Angle(tc.a, tc.b, tc.c)
			if tc.name == "third coincides with first" {
				// Both vectors are identical and non-zero: angle is 0.
				if got != 0 {
					t.Errorf("Angle = %v, want 0", got)
				}
				return
			}
			if got != 0 {
				t.Errorf("Angle with zero-length vector = %v, want 0", got)
			}
			if math.IsNaN(got) {
				t.Error("Angle returned NaN")
			}
		})
	}
}

// TestAngleClamp verifies that near-collinear points, where floating-point
// rounding can push the cosine past ±1, stay inside the arccos domain.
func TestAngleClamp(t *testing.T) {
	// Nearly collinear with tiny coordinates magnifies rounding error.
	got := Angle(pt(1e-8, 0), pt(0, 0), pt(-1e-8, 1e-24))
	if math.IsNaN(got) {
		t.Fatal("Angle returned NaN for near-collinear points")
	}
	if got < 0 || got > 180 {
		t.Errorf("Angle = %v, out of [0,180]", got)
	}
}
