package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/crossing"
)

// ValidationObserver validates simulator behavior against an expected cycle
type ValidationObserver struct {
	crossing.BaseObserver

	expectedPhases     map[crossing.Phase]bool
	visitedPhases      map[crossing.Phase]bool
	allowedTransitions map[crossing.Phase]map[crossing.Phase]bool
	current            crossing.Phase
	running            bool
	violations         []string
	mutex              sync.RWMutex
}

// NewValidationObserver creates a new validation observer
func NewValidationObserver() *ValidationObserver {
	return &ValidationObserver{
		expectedPhases:     make(map[crossing.Phase]bool),
		visitedPhases:      make(map[crossing.Phase]bool),
		allowedTransitions: make(map[crossing.Phase]map[crossing.Phase]bool),
		violations:         make([]string, 0),
	}
}

// AddExpectedPhase adds a phase that must be visited
func (o *ValidationObserver) AddExpectedPhase(phase crossing.Phase) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.expectedPhases[phase] = true
}

// AddAllowedTransition adds an allowed transition
func (o *ValidationObserver) AddAllowedTransition(from, to crossing.Phase) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if _, exists := o.allowedTransitions[from]; !exists {
		o.allowedTransitions[from] = make(map[crossing.Phase]bool)
	}

	o.allowedTransitions[from][to] = true
}

// ExpectCycle expects every phase of the cycle under enabled and allows its transitions.
// Call it again after toggling optional phases to allow the new cycle as well.
func (o *ValidationObserver) ExpectCycle(enabled crossing.OptionalPhases) {
	for _, phase := range crossing.Cycle(enabled) {
		o.AddExpectedPhase(phase)
		t := crossing.NewTransition(phase, enabled)
		o.AddAllowedTransition(t.From, t.To)
	}
}

// addViolation adds a violation
func (o *ValidationObserver) addViolation(message string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = append(o.violations, message)
}

// OnPhaseChanged validates the transition and marks the phase visited
func (o *ValidationObserver) OnPhaseChanged(change crossing.PhaseChange) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedPhases[change.To] = true
	o.current = change.To

	if change.Initial {
		if change.To != crossing.Stop {
			o.violations = append(o.violations, fmt.Sprintf("Run started in '%s' instead of '%s'", change.To, crossing.Stop))
		}
		return
	}

	if allowed, exists := o.allowedTransitions[change.From]; exists {
		if !allowed[change.To] {
			o.violations = append(o.violations, fmt.Sprintf(
				"Invalid transition from '%s' to '%s'", change.From, change.To))
		}
	}
}

// OnTimeRemaining checks that the countdown belongs to the active phase
func (o *ValidationObserver) OnTimeRemaining(update crossing.TimerUpdate) {
	if !update.Active {
		return
	}

	o.mutex.Lock()
	defer o.mutex.Unlock()

	if !o.running {
		o.violations = append(o.violations, fmt.Sprintf("Timer update for '%s' while stopped", update.Phase))
		return
	}
	if update.Phase != o.current {
		o.violations = append(o.violations, fmt.Sprintf(
			"Timer update for '%s' while in '%s'", update.Phase, o.current))
	}
	if update.Remaining < 0 {
		o.violations = append(o.violations, fmt.Sprintf("Negative remaining time %s in '%s'", update.Remaining, update.Phase))
	}
}

// OnSimulationStarted marks the run active
func (o *ValidationObserver) OnSimulationStarted(runID string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.running = true
}

// OnSimulationStopped marks the run inactive
func (o *ValidationObserver) OnSimulationStopped(runID string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.running = false
}

// OnError validates error handling
func (o *ValidationObserver) OnError(err error) {
	o.addViolation(fmt.Sprintf("Error occurred: %v", err))
}

// GetViolations returns all validation violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// GetUnvisitedPhases returns phases that were expected but not visited, in phase order
func (o *ValidationObserver) GetUnvisitedPhases() []crossing.Phase {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	var unvisited []crossing.Phase
	for _, phase := range crossing.Phases() {
		if o.expectedPhases[phase] && !o.visitedPhases[phase] {
			unvisited = append(unvisited, phase)
		}
	}

	return unvisited
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset resets the validation state
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedPhases = make(map[crossing.Phase]bool)
	o.violations = make([]string, 0)
}
