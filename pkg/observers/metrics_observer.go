package observers

import (
	"sync"
	"time"

	"github.com/anggasct/crossing"
)

// MetricsObserver collects metrics about simulator runs.
// Time is simulated time as reported by timer updates, not wall-clock time.
type MetricsObserver struct {
	crossing.BaseObserver

	phaseVisits      map[crossing.Phase]int
	phaseTimeSpent   map[crossing.Phase]time.Duration
	transitionCounts map[string]int
	runs             int
	cycles           int
	errorCount       int
	lastElapsed      time.Duration
	mutex            sync.RWMutex
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		phaseVisits:      make(map[crossing.Phase]int),
		phaseTimeSpent:   make(map[crossing.Phase]time.Duration),
		transitionCounts: make(map[string]int),
	}
}

// OnPhaseChanged records phase visits and transitions
func (o *MetricsObserver) OnPhaseChanged(change crossing.PhaseChange) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.phaseVisits[change.To]++
	o.lastElapsed = 0
	if change.Initial {
		return
	}

	o.transitionCounts[change.From.String()+"->"+change.To.String()]++
	if change.To == crossing.Stop {
		o.cycles++
	}
}

// OnTimeRemaining accumulates the time spent in the active phase
func (o *MetricsObserver) OnTimeRemaining(update crossing.TimerUpdate) {
	if !update.Active {
		return
	}

	o.mutex.Lock()
	defer o.mutex.Unlock()

	if update.Elapsed > o.lastElapsed {
		o.phaseTimeSpent[update.Phase] += update.Elapsed - o.lastElapsed
	}
	o.lastElapsed = update.Elapsed
}

// OnSimulationStarted counts runs
func (o *MetricsObserver) OnSimulationStarted(runID string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.runs++
}

// OnError records error metrics
func (o *MetricsObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.errorCount++
}

// GetPhaseVisitCounts returns the number of times each phase was entered
func (o *MetricsObserver) GetPhaseVisitCounts() map[crossing.Phase]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[crossing.Phase]int)
	for phase, count := range o.phaseVisits {
		result[phase] = count
	}
	return result
}

// GetPhaseTimeSpent returns the simulated time spent in each phase
func (o *MetricsObserver) GetPhaseTimeSpent() map[crossing.Phase]time.Duration {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[crossing.Phase]time.Duration)
	for phase, duration := range o.phaseTimeSpent {
		result[phase] = duration
	}
	return result
}

// GetTransitionCounts returns the number of times each transition occurred, keyed "from->to"
func (o *MetricsObserver) GetTransitionCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[string]int)
	for transition, count := range o.transitionCounts {
		result[transition] = count
	}
	return result
}

// GetCycleCount returns the number of completed cycles (returns to Stop)
func (o *MetricsObserver) GetCycleCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.cycles
}

// GetRunCount returns the number of started runs
func (o *MetricsObserver) GetRunCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.runs
}

// GetErrorCount returns the number of errors
func (o *MetricsObserver) GetErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.errorCount
}

// Reset resets all metrics
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.phaseVisits = make(map[crossing.Phase]int)
	o.phaseTimeSpent = make(map[crossing.Phase]time.Duration)
	o.transitionCounts = make(map[string]int)
	o.runs = 0
	o.cycles = 0
	o.errorCount = 0
	o.lastElapsed = 0
}
