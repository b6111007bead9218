package controller

// State is the submission lifecycle state.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// canTransition lists the edges of the submission lifecycle. Succeeded and
// idle both accept a new attempt.
func canTransition(from, to State) bool {
	switch from {
	case StateIdle, StateSucceeded:
		return to == StateValidating
	case StateValidating:
		return to == StateIdle || to == StateSubmitting
	case StateSubmitting:
		return to == StateSucceeded || to == StateFailed
	case StateFailed:
		return to == StateIdle
	}
	return false
}

// Mode selects how a validated submit leaves the controller.
type Mode string

const (
	// ModeNative lets the default submit action proceed; the page navigates.
	ModeNative Mode = "native"
	// ModeAPI prevents the default action and posts through a Submitter.
	ModeAPI Mode = "api"
)

// ParseMode maps a configuration string onto a Mode.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModeNative:
		return ModeNative, true
	case ModeAPI, "":
		return ModeAPI, true
	}
	return "", false
}
