package models

import (
	"encoding/json"
	"errors"
)

// ErrMalformedFrame marks a frame whose JSON shape carries no usable
// keypoints at all. Missing individual fields are tolerated; a frame with
// zero recognizable landmarks is malformed.
var ErrMalformedFrame = errors.New("frame contains no usable keypoints")

// wireKeypoint is one detected keypoint as sent by the browser-side PoseNet
// loop. MoveNet-style payloads use "score"/"part" too but nest position
// fields at the top level, so both shapes are read.
type wireKeypoint struct {
	Part     string   `json:"part"`
	Name     string   `json:"name"`
	Score    *float64 `json:"score"`
	Position *Point   `json:"position"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
}

// wireFrame covers the shapes the keypoint source produces:
//
//	{"pose": {"keypoints": [...]}}   PoseNet estimateSinglePose wrapped
//	{"keypoints": [...]}             bare pose object
type wireFrame struct {
	Pose      *wireFrame     `json:"pose"`
	Keypoints []wireKeypoint `json:"keypoints"`
}

// ParseFrame decodes one keypoint-source frame into a Snapshot. Keypoints
// without a part name are assigned by index against the PoseNet output
// order; keypoints with unrecognized names are dropped. Returns
// ErrMalformedFrame if nothing usable remains.
func ParseFrame(data []byte) (*Snapshot, error) {
	var frame wireFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, ErrMalformedFrame
	}

	kps := frame.Keypoints
	if len(kps) == 0 && frame.Pose != nil {
		kps = frame.Pose.Keypoints
	}
	if len(kps) == 0 {
		return nil, ErrMalformedFrame
	}

	snap := &Snapshot{Landmarks: make(map[string]Landmark, len(kps))}
	for i, kp := range kps {
		name := kp.Part
		if name == "" {
			name = kp.Name
		}
		if name == "" {
			if i >= len(LandmarkNames) {
				continue
			}
			name = LandmarkNames[i]
		}
		canonical, ok := NormalizeLandmarkName(name)
		if !ok {
			continue
		}

		var pos Point
		switch {
		case kp.Position != nil:
			pos = *kp.Position
		case kp.X != nil && kp.Y != nil:
			pos = Point{X: *kp.X, Y: *kp.Y}
		default:
			continue
		}

		score := 0.0
		if kp.Score != nil {
			score = *kp.Score
		}

		snap.Landmarks[canonical] = Landmark{
			Name:       canonical,
			Position:   pos,
			Confidence: score,
		}
	}

	if len(snap.Landmarks) == 0 {
		return nil, ErrMalformedFrame
	}
	return snap, nil
}
