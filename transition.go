package crossing

// NextPhase returns the phase that follows current under the enabled optional phases.
//
//	Stop      -> Go
//	Go        -> GoLeft, GoRight, Attention (first enabled) or Stop
//	GoLeft    -> GoRight, Attention (first enabled) or Stop
//	GoRight   -> Attention if enabled, else Stop
//	Attention -> Stop
func NextPhase(current Phase, enabled OptionalPhases) Phase {
	switch current {
	case Stop:
		return Go
	case Go:
		return firstEnabled(enabled, GoLeft, GoRight, Attention)
	case GoLeft:
		return firstEnabled(enabled, GoRight, Attention)
	case GoRight:
		return firstEnabled(enabled, Attention)
	default:
		return Stop
	}
}

func firstEnabled(enabled OptionalPhases, candidates ...Phase) Phase {
	for _, p := range candidates {
		if enabled.Enabled(p) {
			return p
		}
	}
	return Stop
}

// Cycle returns one full cycle of phases starting at Stop
func Cycle(enabled OptionalPhases) []Phase {
	cycle := []Phase{Stop}
	for next := NextPhase(Stop, enabled); next != Stop; next = NextPhase(next, enabled) {
		cycle = append(cycle, next)
	}
	return cycle
}

// Transition describes a phase change decided by the simulator
type Transition struct {
	From Phase
	To   Phase
}

// NewTransition computes the transition out of from under the enabled optional phases
func NewTransition(from Phase, enabled OptionalPhases) Transition {
	return Transition{
		From: from,
		To:   NextPhase(from, enabled),
	}
}

// Allowed reports whether t is a transition the cycle can take under enabled
func (t Transition) Allowed(enabled OptionalPhases) bool {
	return NextPhase(t.From, enabled) == t.To
}
