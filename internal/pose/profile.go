package pose

import (
	"strings"

	"github.com/Abhiram-Bhat/aifit/internal/models"
)

// FeedbackKind selects the form-feedback rule set for a profile. Resolved
// once at registration instead of re-matching the exercise name on every
// frame.
type FeedbackKind string

const (
	FeedbackPushUp  FeedbackKind = "push-up"
	FeedbackSquat   FeedbackKind = "squat"
	FeedbackPlank   FeedbackKind = "plank"
	FeedbackGeneric FeedbackKind = "generic"
)

// AngleDef names one joint-angle signal: the included angle at Joint between
// the segments Joint→Outer and Joint→Inner.
type AngleDef struct {
	Name  string
	Outer string // e.g. shoulder / hip
	Joint string // vertex: elbow / knee / hip
	Inner string // e.g. wrist / ankle
}

// RepConfig defines the angle thresholds for a rep-based exercise: above
// UpAngleMin the movement is in the extended (up) phase, below DownAngleMax
// in the flexed (down) phase.
type RepConfig struct {
	UpAngleMin   float64
	DownAngleMax float64
}

// HoldConfig defines the target band for an isometric exercise.
type HoldConfig struct {
	TargetAngle float64
	Tolerance   float64
}

// Profile is the static configuration for one exercise. Exactly one of Rep
// or Hold is set.
type Profile struct {
	Name     string
	Angles   []AngleDef
	Rep      *RepConfig
	Hold     *HoldConfig
	Feedback FeedbackKind
}

// Primary returns the angle definition that drives phase classification.
// Only the first definition is used for counting; additional definitions
// (e.g. the right-side limb) feed feedback only.
func (p *Profile) Primary() AngleDef {
	return p.Angles[0]
}

// Registry resolves exercise names to profiles. Profiles are registered once
// at startup and never mutated.
type Registry struct {
	order    []string
	profiles map[string]*Profile
	fallback string
}

// NewRegistry returns a registry preloaded with the canonical exercises.
// Push-ups double as the fallback profile for unknown names.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]*Profile)}

	r.register("push-ups", &Profile{
		Name: "push-ups",
		Angles: []AngleDef{
			{Name: "left_arm", Outer: models.LeftShoulder, Joint: models.LeftElbow, Inner: models.LeftWrist},
			{Name: "right_arm", Outer: models.RightShoulder, Joint: models.RightElbow, Inner: models.RightWrist},
		},
		Rep:      &RepConfig{UpAngleMin: 160, DownAngleMax: 90},
		Feedback: FeedbackPushUp,
	})
	r.register("squats", &Profile{
		Name: "squats",
		Angles: []AngleDef{
			{Name: "left_leg", Outer: models.LeftHip, Joint: models.LeftKnee, Inner: models.LeftAnkle},
			{Name: "right_leg", Outer: models.RightHip, Joint: models.RightKnee, Inner: models.RightAnkle},
		},
		Rep:      &RepConfig{UpAngleMin: 160, DownAngleMax: 90},
		Feedback: FeedbackSquat,
	})
	r.register("plank", &Profile{
		Name: "plank",
		Angles: []AngleDef{
			{Name: "body_line", Outer: models.LeftShoulder, Joint: models.LeftHip, Inner: models.LeftAnkle},
		},
		Hold:     &HoldConfig{TargetAngle: 180, Tolerance: 20},
		Feedback: FeedbackPlank,
	})
	r.register("lunges", &Profile{
		Name: "lunges",
		Angles: []AngleDef{
			{Name: "front_leg", Outer: models.LeftHip, Joint: models.LeftKnee, Inner: models.LeftAnkle},
			{Name: "back_leg", Outer: models.RightHip, Joint: models.RightKnee, Inner: models.RightAnkle},
		},
		Rep:      &RepConfig{UpAngleMin: 160, DownAngleMax: 90},
		Feedback: FeedbackGeneric,
	})

	r.fallback = "push-ups"
	return r
}

func (r *Registry) register(key string, p *Profile) {
	r.order = append(r.order, key)
	r.profiles[key] = p
}

// normalizeName lowercases and strips hyphens and spaces so naming variants
// ("Push-Ups", "pushup", "push ups") collapse to one key.
func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "")
	name = strings.ReplaceAll(name, " ", "")
	return name
}

// Resolve maps an exercise name to a profile by bidirectional substring
// match against registered keys, in registration order. Unknown names fall
// back to push-ups. Best-effort: a future exercise whose name contains
// another's would shadow it, so registration order matters.
func (r *Registry) Resolve(name string) *Profile {
	normalized := normalizeName(name)
	for _, key := range r.order {
		k := normalizeName(key)
		if strings.Contains(normalized, k) || strings.Contains(k, normalized) {
			return r.profiles[key]
		}
	}
	return r.profiles[r.fallback]
}

// Names lists registered exercises in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the profile registered under exactly key, if any.
func (r *Registry) Get(key string) (*Profile, bool) {
	p, ok := r.profiles[key]
	return p, ok
}
