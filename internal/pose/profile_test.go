package pose

import "testing"

// TestResolveNamingVariants verifies that hyphen/space/case variants of an
// exercise name all resolve to the same profile.
func TestResolveNamingVariants(t *testing.T) {
	r := NewRegistry()
	want := r.Resolve("push-ups")

	for _, name := range []string{"Push-Ups", "pushups", "push ups", "PUSH-UPS", "pushup"} {
		if got := r.Resolve(name); got != want {
			t.Errorf("Resolve(%q) = %v, want push-ups profile", name, got.Name)
		}
	}
}

// TestResolveAllCanonical verifies each registered exercise resolves to its
// own profile with the expected detection mode.
func TestResolveAllCanonical(t *testing.T) {
	r := NewRegistry()
	cases := []struct {
		name string
		rep  bool
	}{
		{"push-ups", true},
		{"squats", true},
		{"plank", false},
		{"lunges", true},
	}
	for _, tc := range cases {
		p := r.Resolve(tc.name)
		if p.Name != tc.name {
			t.Errorf("Resolve(%q) = %q", tc.name, p.Name)
		}
		if tc.rep && p.Rep == nil {
			t.Errorf("%q: expected rep config", tc.name)
		}
		if !tc.rep && p.Hold == nil {
			t.Errorf("%q: expected hold config", tc.name)
		}
		if p.Rep != nil && p.Hold != nil {
			t.Errorf("%q: rep and hold configs are mutually exclusive", tc.name)
		}
	}
}

// TestResolveUnknownFallsBack verifies that unknown exercises fall back to
// the push-ups profile rather than failing.
func TestResolveUnknownFallsBack(t *testing.T) {
	r := NewRegistry()
	got := r.Resolve("nonexistent-exercise")
	if got.Name != "push-ups" {
		t.Errorf("Resolve(unknown) = %q, want push-ups fallback", got.Name)
	}
}

// TestResolveSubstringIsBidirectional verifies both match directions: a
// short input matching a longer key, and a long input containing a key.
// The substring policy is best-effort; a future exercise name embedding
// another's would be shadowed by registration order.
func TestResolveSubstringIsBidirectional(t *testing.T) {
	r := NewRegistry()

	// Input contained in key
	if got := r.Resolve("squat"); got.Name != "squats" {
		t.Errorf("Resolve(%q) = %q, want squats", "squat", got.Name)
	}
	// Key contained in input
	if got := r.Resolve("deep squats with pause"); got.Name != "squats" {
		t.Errorf("Resolve(%q) = %q, want squats", "deep squats with pause", got.Name)
	}
}

// TestPrimaryIsFirstAngleDef verifies that the primary movement signal is
// the first angle definition in registration order (left side for bilateral
// exercises).
func TestPrimaryIsFirstAngleDef(t *testing.T) {
	r := NewRegistry()
	p := r.Resolve("push-ups")
	if p.Primary().Name != "left_arm" {
		t.Errorf("Primary() = %q, want left_arm", p.Primary().Name)
	}
}

// TestNames verifies the registry lists exercises in registration order.
func TestNames(t *testing.T) {
	r := NewRegistry()
	names := r.Names()
	want := []string{"push-ups", "squats", "plank", "lunges"}
	if len(names) != len(want) {
		t.Fatalf("Names() returned %d entries, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
