package pose

// Form-feedback messages. The generator never returns an empty list: when no
// specific rule matches the current angles the generic encouragement keeps
// the feedback channel populated.
const (
	msgKeepGoing = "Keep it up!"

	msgArmsAligned    = "Keep both arms aligned"
	msgGoodDepth      = "Good depth! Go full range"
	msgGoodStart      = "Good starting position"
	msgPushKeepGoing  = "Keep going!"
	msgSquatDepth     = "Great squat depth!"
	msgGoodStanding   = "Good standing position"
	msgChestUp        = "Keep your chest up!"
	msgPerfectPlank   = "Perfect plank form!"
	msgHipsUp         = "Keep your hips up"
	msgDontArch       = "Don't arch your back"
)

// symmetryThreshold is the left/right angle difference, in degrees, beyond
// which bilateral exercises warn about alignment.
const symmetryThreshold = 20

// FormFeedback produces qualitative feedback strings for the current angle
// snapshot. Rules are selected by the profile's feedback variant, not by
// re-matching the exercise name. Stateless: it reacts to this frame only.
func FormFeedback(kind FeedbackKind, angles map[string]float64) []string {
	var feedback []string

	switch kind {
	case FeedbackPushUp:
		left, lok := angles["left_arm"]
		right, rok := angles["right_arm"]
		if lok && rok {
			if diff := left - right; diff > symmetryThreshold || diff < -symmetryThreshold {
				feedback = append(feedback, msgArmsAligned)
			}
			switch {
			case left < 60 || right < 60:
				feedback = append(feedback, msgGoodDepth)
			case left > 170 && right > 170:
				feedback = append(feedback, msgGoodStart)
			default:
				feedback = append(feedback, msgPushKeepGoing)
			}
		}

	case FeedbackSquat:
		left, lok := angles["left_leg"]
		right, rok := angles["right_leg"]
		if lok && rok {
			switch {
			case left < 90 || right < 90:
				feedback = append(feedback, msgSquatDepth)
			case left > 160 && right > 160:
				feedback = append(feedback, msgGoodStanding)
			default:
				feedback = append(feedback, msgChestUp)
			}
		}

	case FeedbackPlank:
		if body, ok := angles["body_line"]; ok {
			switch {
			case body >= 160 && body <= 180:
				feedback = append(feedback, msgPerfectPlank)
			case body < 160:
				feedback = append(feedback, msgHipsUp)
			default:
				feedback = append(feedback, msgDontArch)
			}
		}
	}

	if len(feedback) == 0 {
		feedback = append(feedback, msgKeepGoing)
	}
	return feedback
}
