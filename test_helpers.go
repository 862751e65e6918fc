package crossing

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

// TestObserver is a mock observer for testing that captures all observer events
type TestObserver struct {
	mutex     sync.RWMutex
	Changes   []PhaseChange
	Timers    []TimerUpdate
	LightsOn  []LightSignal
	LightsOff []Phase
	Started   []string
	Stopped   []string
	Errors    []error
	// Log records every notification name in delivery order
	Log []string
}

// NewTestObserver creates a new test observer
func NewTestObserver() *TestObserver {
	return &TestObserver{}
}

func (o *TestObserver) record(name string) {
	o.Log = append(o.Log, name)
}

// Observer interface implementations
func (o *TestObserver) OnPhaseChanged(change PhaseChange) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Changes = append(o.Changes, change)
	o.record("phase:" + change.To.String())
}

func (o *TestObserver) OnTimeRemaining(update TimerUpdate) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Timers = append(o.Timers, update)
	o.record("timer")
}

// ExtendedObserver interface implementations
func (o *TestObserver) OnLightOn(signal LightSignal) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.LightsOn = append(o.LightsOn, signal)
	o.record("on:" + signal.Phase.String())
}

func (o *TestObserver) OnLightOff(phase Phase) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.LightsOff = append(o.LightsOff, phase)
	o.record("off:" + phase.String())
}

func (o *TestObserver) OnSimulationStarted(runID string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Started = append(o.Started, runID)
	o.record("started")
}

func (o *TestObserver) OnSimulationStopped(runID string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Stopped = append(o.Stopped, runID)
	o.record("stopped")
}

func (o *TestObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, err)
	o.record("error")
}

// Helper methods for test assertions
func (o *TestObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Changes = nil
	o.Timers = nil
	o.LightsOn = nil
	o.LightsOff = nil
	o.Started = nil
	o.Stopped = nil
	o.Errors = nil
	o.Log = nil
}

func (o *TestObserver) ChangeCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Changes)
}

func (o *TestObserver) EventCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Log)
}

func (o *TestObserver) LastChange() *PhaseChange {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Changes) == 0 {
		return nil
	}
	return &o.Changes[len(o.Changes)-1]
}

func (o *TestObserver) LastTimer() *TimerUpdate {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Timers) == 0 {
		return nil
	}
	return &o.Timers[len(o.Timers)-1]
}

// VisitedPhases returns the target phase of every recorded change
func (o *TestObserver) VisitedPhases() []Phase {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	phases := make([]Phase, 0, len(o.Changes))
	for _, c := range o.Changes {
		phases = append(phases, c.To)
	}
	return phases
}

// Test simulator builders - common configurations for testing

// CreateScenarioTable returns Stop 5s, Go 5s, Attention 3s, GoLeft 4s, GoRight 4s
func CreateScenarioTable() *PhaseTable {
	return MustPhaseTable(map[Phase]PhaseConfig{
		Stop:      {Message: "STOP", Duration: 5 * time.Second},
		Go:        {Message: "GO", Duration: 5 * time.Second},
		Attention: {Message: "WAIT", Duration: 3 * time.Second},
		GoLeft:    {Message: "LEFT", Duration: 4 * time.Second},
		GoRight:   {Message: "RIGHT", Duration: 4 * time.Second},
	})
}

// CreateTestSimulator creates a simulator over the scenario table with a test observer attached
func CreateTestSimulator(optional OptionalPhases, opts ...Option) (*Simulator, *TestObserver) {
	observer := NewTestObserver()
	counter := 0
	opts = append([]Option{
		WithOptionalPhases(optional),
		WithObserver(observer),
		WithRunIDGenerator(func() string {
			counter++
			return "run-" + strconv.Itoa(counter)
		}),
	}, opts...)
	return NewSimulator(CreateScenarioTable(), opts...), observer
}

// Test assertions and utilities

// AssertPhase checks if the simulator is in the expected phase
func AssertPhase(t *testing.T, sim *Simulator, expected Phase) {
	t.Helper()
	if current := sim.CurrentPhase(); current != expected {
		t.Errorf("Expected phase %s, got %s", expected, current)
	}
}

// AssertRunning checks the running flag
func AssertRunning(t *testing.T, sim *Simulator, expected bool) {
	t.Helper()
	if sim.IsRunning() != expected {
		t.Errorf("Expected running=%v, got %v", expected, sim.IsRunning())
	}
}

// TickThroughPhase ticks exactly the duration of the current phase
func TickThroughPhase(sim *Simulator) {
	sim.Tick(sim.Table().Duration(sim.CurrentPhase()))
}

// AssertCycle starts sim, ticks through len(expected) phases and checks every phase visited
func AssertCycle(t *testing.T, sim *Simulator, expected []Phase) {
	t.Helper()
	sim.Start()
	for i, want := range expected {
		if got := sim.CurrentPhase(); got != want {
			t.Fatalf("step %d: expected phase %s, got %s", i, want, got)
		}
		TickThroughPhase(sim)
	}
}
