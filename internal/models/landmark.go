package models

import "strings"

// Canonical PoseNet landmark names, in model output order.
const (
	Nose          = "nose"
	LeftEye       = "leftEye"
	RightEye      = "rightEye"
	LeftEar       = "leftEar"
	RightEar      = "rightEar"
	LeftShoulder  = "leftShoulder"
	RightShoulder = "rightShoulder"
	LeftElbow     = "leftElbow"
	RightElbow    = "rightElbow"
	LeftWrist     = "leftWrist"
	RightWrist    = "rightWrist"
	LeftHip       = "leftHip"
	RightHip      = "rightHip"
	LeftKnee      = "leftKnee"
	RightKnee     = "rightKnee"
	LeftAnkle     = "leftAnkle"
	RightAnkle    = "rightAnkle"
)

// LandmarkNames lists the 17 PoseNet keypoints in model output order. Frames
// that arrive as a bare keypoint array are mapped by index against this list.
var LandmarkNames = []string{
	Nose, LeftEye, RightEye, LeftEar, RightEar,
	LeftShoulder, RightShoulder, LeftElbow, RightElbow,
	LeftWrist, RightWrist, LeftHip, RightHip,
	LeftKnee, RightKnee, LeftAnkle, RightAnkle,
}

// landmarkNameMap maps lowercased naming variants to canonical names.
// MoveNet and some MediaPipe exporters use snake_case part names; PoseNet
// uses camelCase.
var landmarkNameMap = map[string]string{}

func init() {
	for _, name := range LandmarkNames {
		landmarkNameMap[strings.ToLower(name)] = name
		landmarkNameMap[toSnake(name)] = name
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeLandmarkName maps a possibly-variant part name (snake_case, odd
// casing, surrounding whitespace) to its canonical PoseNet name. Returns the
// canonical name and true if recognized; otherwise the input and false.
func NormalizeLandmarkName(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := landmarkNameMap[key]; ok {
		return canonical, true
	}
	return name, false
}

// Point is a 2D position in frame pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmark is a named anatomical point with a detection confidence in [0,1].
// Landmarks are read-only once built; the analysis core never mutates them.
type Landmark struct {
	Name       string  `json:"name"`
	Position   Point   `json:"position"`
	Confidence float64 `json:"confidence"`
}

// Snapshot is the complete set of landmarks detected in one frame, keyed by
// canonical name. It lives only for the duration of one analysis call.
type Snapshot struct {
	Landmarks map[string]Landmark
}

// Get returns the named landmark and whether it is present in the frame.
func (s *Snapshot) Get(name string) (Landmark, bool) {
	if s == nil || s.Landmarks == nil {
		return Landmark{}, false
	}
	lm, ok := s.Landmarks[name]
	return lm, ok
}

// MeanConfidence is the average confidence across all landmarks in the
// snapshot, or 0 for an empty frame.
func (s *Snapshot) MeanConfidence() float64 {
	if s == nil || len(s.Landmarks) == 0 {
		return 0
	}
	var sum float64
	for _, lm := range s.Landmarks {
		sum += lm.Confidence
	}
	return sum / float64(len(s.Landmarks))
}
