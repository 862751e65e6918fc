package crossing

import (
	"reflect"
	"testing"
	"time"
)

func TestSimulator_StartBeginsInStop(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{Attention: true})

	sim.Start()

	AssertRunning(t, sim, true)
	AssertPhase(t, sim, Stop)

	if sim.Elapsed() != 0 {
		t.Errorf("Expected elapsed 0, got %s", sim.Elapsed())
	}

	want := []string{"phase:stop", "on:stop", "started"}
	if !reflect.DeepEqual(observer.Log, want) {
		t.Errorf("Expected notifications %v, got %v", want, observer.Log)
	}

	change := observer.LastChange()
	if change == nil || change.Message != "STOP" || !change.Initial {
		t.Errorf("Expected initial STOP change, got %+v", change)
	}
}

func TestSimulator_StartAfterStopRestartsInStop(t *testing.T) {
	sim, _ := CreateTestSimulator(OptionalPhases{Attention: true})

	sim.Start()
	TickThroughPhase(sim)
	sim.Tick(2 * time.Second)
	AssertPhase(t, sim, Go)

	sim.Stop()
	sim.Start()

	AssertPhase(t, sim, Stop)
	if sim.Elapsed() != 0 {
		t.Errorf("Expected elapsed reset, got %s", sim.Elapsed())
	}
}

func TestSimulator_StartIsIdempotent(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{})

	sim.Start()
	sim.Tick(time.Second)
	runID := sim.RunID()
	observer.Reset()

	sim.Start()

	if observer.EventCount() != 0 {
		t.Errorf("Expected no notifications from second Start, got %v", observer.Log)
	}
	if sim.Elapsed() != time.Second {
		t.Errorf("Expected elapsed to be kept, got %s", sim.Elapsed())
	}
	if sim.RunID() != runID {
		t.Error("Expected run ID to be kept")
	}
}

func TestSimulator_Stop(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{})

	sim.Start()
	sim.Tick(time.Second)
	observer.Reset()

	sim.Stop()

	AssertRunning(t, sim, false)
	if sim.Elapsed() != 0 {
		t.Errorf("Expected elapsed reset, got %s", sim.Elapsed())
	}

	want := []string{"off:stop", "timer", "stopped"}
	if !reflect.DeepEqual(observer.Log, want) {
		t.Errorf("Expected notifications %v, got %v", want, observer.Log)
	}
	if timer := observer.LastTimer(); timer == nil || timer.Active {
		t.Errorf("Expected inactive timer sentinel, got %+v", timer)
	}
}

func TestSimulator_StopIsIdempotent(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{})

	sim.Stop()
	if observer.EventCount() != 0 {
		t.Errorf("Expected no notifications when stopping a stopped simulator, got %v", observer.Log)
	}

	sim.Start()
	sim.Stop()
	observer.Reset()
	sim.Stop()
	if observer.EventCount() != 0 {
		t.Errorf("Expected no notifications from second Stop, got %v", observer.Log)
	}
}

func TestSimulator_TickWhileStopped(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{Attention: true})

	sim.Tick(10 * time.Second)
	if sim.Elapsed() != 0 || observer.EventCount() != 0 {
		t.Error("Expected tick before start to do nothing")
	}

	sim.Start()
	sim.Tick(time.Second)
	sim.Stop()
	observer.Reset()

	for i := 0; i < 20; i++ {
		sim.Tick(time.Second)
	}

	if sim.Elapsed() != 0 {
		t.Errorf("Expected elapsed to stay 0, got %s", sim.Elapsed())
	}
	if observer.EventCount() != 0 {
		t.Errorf("Expected no notifications after stop, got %v", observer.Log)
	}
}

func TestSimulator_TickReportsRemaining(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{})

	sim.Start()
	sim.Tick(1500 * time.Millisecond)

	timer := observer.LastTimer()
	if timer == nil {
		t.Fatal("Expected timer update")
	}
	if !timer.Active || timer.Phase != Stop {
		t.Errorf("Expected active timer for stop, got %+v", timer)
	}
	if timer.Remaining != 3500*time.Millisecond {
		t.Errorf("Expected 3.5s remaining, got %s", timer.Remaining)
	}
	if seconds, ok := timer.Seconds(); !ok || seconds != 3.5 {
		t.Errorf("Expected 3.5 seconds, got %v %v", seconds, ok)
	}
}

func TestSimulator_TransitionOrder(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{})

	sim.Start()
	observer.Reset()
	sim.Tick(5 * time.Second)

	want := []string{"timer", "off:stop", "phase:go", "on:go"}
	if !reflect.DeepEqual(observer.Log, want) {
		t.Errorf("Expected notifications %v, got %v", want, observer.Log)
	}
	if sim.Elapsed() != 0 {
		t.Errorf("Expected elapsed reset after transition, got %s", sim.Elapsed())
	}

	change := observer.LastChange()
	if change.From != Stop || change.To != Go || change.Initial {
		t.Errorf("Unexpected change %+v", change)
	}
}

func TestSimulator_OneTransitionPerTick(t *testing.T) {
	sim, _ := CreateTestSimulator(OptionalPhases{Attention: true})

	sim.Start()
	sim.Tick(time.Minute)

	AssertPhase(t, sim, Go)
	if sim.Elapsed() != 0 {
		t.Errorf("Expected excess time to be discarded, got %s", sim.Elapsed())
	}
}

func TestSimulator_NegativeTickIgnored(t *testing.T) {
	sim, _ := CreateTestSimulator(OptionalPhases{})

	sim.Start()
	sim.Tick(time.Second)
	sim.Tick(-3 * time.Second)

	if sim.Elapsed() != time.Second {
		t.Errorf("Expected elapsed 1s, got %s", sim.Elapsed())
	}
}

func TestSimulator_ScenarioAttentionOnly(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{Attention: true})

	sim.Start()
	AssertPhase(t, sim, Stop)
	sim.Tick(5 * time.Second)
	AssertPhase(t, sim, Go)
	sim.Tick(5 * time.Second)
	AssertPhase(t, sim, Attention)
	sim.Tick(3 * time.Second)
	AssertPhase(t, sim, Stop)
	sim.Tick(5 * time.Second)
	AssertPhase(t, sim, Go)

	messages := make([]string, 0)
	for _, c := range observer.Changes {
		messages = append(messages, c.Message)
	}
	want := []string{"STOP", "GO", "WAIT", "STOP", "GO"}
	if !reflect.DeepEqual(messages, want) {
		t.Errorf("Expected messages %v, got %v", want, messages)
	}
}

func TestSimulator_AllFlagCombinations(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		optional := OptionalPhases{
			Attention: mask&1 != 0,
			GoLeft:    mask&2 != 0,
			GoRight:   mask&4 != 0,
		}

		expected := []Phase{Stop, Go}
		if optional.GoLeft {
			expected = append(expected, GoLeft)
		}
		if optional.GoRight {
			expected = append(expected, GoRight)
		}
		if optional.Attention {
			expected = append(expected, Attention)
		}

		sim, observer := CreateTestSimulator(optional)
		sim.Start()
		for cycle := 0; cycle < 3; cycle++ {
			for range expected {
				TickThroughPhase(sim)
			}
		}

		visited := observer.VisitedPhases()
		for i, p := range visited {
			if want := expected[i%len(expected)]; p != want {
				t.Fatalf("flags %+v step %d: expected %s, got %s", optional, i, want, p)
			}
		}
		if len(visited) != 3*len(expected)+1 {
			t.Errorf("flags %+v: expected %d changes, got %d", optional, 3*len(expected)+1, len(visited))
		}
	}
}

func TestSimulator_SetOptionalEnabledTakesEffectOnNextDecision(t *testing.T) {
	sim, _ := CreateTestSimulator(OptionalPhases{})

	sim.Start()
	TickThroughPhase(sim)
	AssertPhase(t, sim, Go)

	if err := sim.SetOptionalEnabled(GoRight, true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	AssertPhase(t, sim, Go)

	TickThroughPhase(sim)
	AssertPhase(t, sim, GoRight)

	if err := sim.SetOptionalEnabled(GoRight, false); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	AssertPhase(t, sim, GoRight)

	TickThroughPhase(sim)
	AssertPhase(t, sim, Stop)
}

func TestSimulator_SetOptionalEnabledRejectsMandatoryPhases(t *testing.T) {
	sim, _ := CreateTestSimulator(OptionalPhases{})

	for _, p := range []Phase{Stop, Go} {
		err := sim.SetOptionalEnabled(p, false)
		if GetErrorCode(err) != ErrCodeInvalidPhase {
			t.Errorf("Expected invalid phase error for %s, got %v", p, err)
		}
	}
}

func TestSimulator_ChangeDurationKeepsElapsed(t *testing.T) {
	sim, _ := CreateTestSimulator(OptionalPhases{})

	sim.Start()
	sim.Tick(3 * time.Second)

	if err := sim.ChangeDuration(Stop, 10*time.Second); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sim.Elapsed() != 3*time.Second {
		t.Errorf("Expected elapsed kept at 3s, got %s", sim.Elapsed())
	}
	if r := sim.Remaining(); r.Remaining != 7*time.Second {
		t.Errorf("Expected 7s remaining, got %s", r.Remaining)
	}

	sim.Tick(3 * time.Second)
	AssertPhase(t, sim, Stop)
}

func TestSimulator_ShorterDurationTransitionsOnNextTick(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{})

	sim.Start()
	sim.Tick(4 * time.Second)

	if err := sim.ChangeDuration(Stop, 2*time.Second); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	AssertPhase(t, sim, Stop)

	sim.Tick(time.Millisecond)
	AssertPhase(t, sim, Go)

	for _, timer := range observer.Timers {
		if timer.Remaining < 0 {
			t.Errorf("Expected remaining never negative, got %s", timer.Remaining)
		}
	}
}

func TestSimulator_ChangeDurationRejectsNonPositive(t *testing.T) {
	sim, _ := CreateTestSimulator(OptionalPhases{})

	err := sim.ChangeDuration(Go, 0)
	if GetErrorCode(err) != ErrCodeInvalidDuration {
		t.Errorf("Expected invalid duration error, got %v", err)
	}
	if d := sim.Table().Duration(Go); d != 5*time.Second {
		t.Errorf("Expected go duration unchanged, got %s", d)
	}
}

func TestSimulator_LightSignalCarriesBlinkTiming(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{}, WithBlink(BlinkConfig{
		Enabled:  true,
		Length:   DefaultBlinkLength,
		Interval: DefaultBlinkInterval,
	}))

	sim.Start()

	if len(observer.LightsOn) != 1 {
		t.Fatalf("Expected 1 light on, got %d", len(observer.LightsOn))
	}
	signal := observer.LightsOn[0]
	if signal.Phase != Stop || !signal.Blink {
		t.Errorf("Unexpected signal %+v", signal)
	}
	if signal.BlinkStartDelay != 3*time.Second {
		t.Errorf("Expected start delay 3s, got %s", signal.BlinkStartDelay)
	}
	if signal.BlinkLength != 2*time.Second || signal.BlinkInterval != 500*time.Millisecond {
		t.Errorf("Unexpected blink timing %+v", signal)
	}
	if len(observer.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", observer.Errors)
	}
}

func TestSimulator_BlinkLongerThanPhaseIsClamped(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{Attention: true}, WithBlink(BlinkConfig{Enabled: true}))

	if err := sim.SetBlinkLength(4 * time.Second); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	sim.Start()
	TickThroughPhase(sim)
	TickThroughPhase(sim)
	AssertPhase(t, sim, Attention)

	last := observer.LightsOn[len(observer.LightsOn)-1]
	if last.Phase != Attention || last.BlinkStartDelay != 0 {
		t.Errorf("Expected clamped start delay for attention, got %+v", last)
	}
	if len(observer.Errors) != 1 || GetErrorCode(observer.Errors[0]) != ErrCodeInvalidBlinkConfiguration {
		t.Errorf("Expected one blink configuration error, got %v", observer.Errors)
	}
	AssertRunning(t, sim, true)
}

func TestSimulator_BlinkSetters(t *testing.T) {
	sim, _ := CreateTestSimulator(OptionalPhases{})

	if err := sim.SetBlinkLength(0); GetErrorCode(err) != ErrCodeInvalidBlinkConfiguration {
		t.Errorf("Expected blink error for zero length, got %v", err)
	}
	if err := sim.SetBlinkInterval(-time.Second); GetErrorCode(err) != ErrCodeInvalidBlinkConfiguration {
		t.Errorf("Expected blink error for negative interval, got %v", err)
	}

	sim.SetBlinkEnabled(true)
	if err := sim.SetBlinkLength(time.Second); err != nil {
		t.Fatal(err)
	}
	if err := sim.SetBlinkInterval(200 * time.Millisecond); err != nil {
		t.Fatal(err)
	}

	want := BlinkConfig{Enabled: true, Length: time.Second, Interval: 200 * time.Millisecond}
	if sim.Blink() != want {
		t.Errorf("Expected %+v, got %+v", want, sim.Blink())
	}
}

func TestSimulator_BlinkChangeAppliesToNextPhase(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{})

	sim.Start()
	sim.SetBlinkEnabled(true)

	if observer.LightsOn[0].Blink {
		t.Error("Expected first phase to keep its non-blinking signal")
	}
	if sim.Lamp(Stop) != LampLit {
		t.Error("Expected current lamp unaffected until next phase")
	}

	TickThroughPhase(sim)
	if !observer.LightsOn[1].Blink {
		t.Error("Expected next phase to blink")
	}
}

func TestSimulator_Lamp(t *testing.T) {
	sim, _ := CreateTestSimulator(OptionalPhases{}, WithBlink(BlinkConfig{Enabled: true}))

	if sim.Lamp(Stop) != LampOff {
		t.Error("Expected lamps off before start")
	}

	sim.Start()
	if sim.Lamp(Stop) != LampLit || sim.Lamp(Go) != LampOff {
		t.Error("Expected only the stop lamp lit")
	}

	sim.Tick(3 * time.Second)
	if sim.Lamp(Stop) != LampDark {
		t.Errorf("Expected dark at blink start, got %s", sim.Lamp(Stop))
	}
	sim.Tick(250 * time.Millisecond)
	if sim.Lamp(Stop) != LampLit {
		t.Errorf("Expected lit after half period, got %s", sim.Lamp(Stop))
	}

	sim.Stop()
	if sim.Lamp(Stop) != LampOff {
		t.Error("Expected lamp off after stop")
	}
}

func TestSimulator_StopMidBlink(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{}, WithBlink(BlinkConfig{Enabled: true}))
	box := NewLightBox(Stop)
	sim.AddObserver(box)

	sim.Start()
	sim.Tick(3100 * time.Millisecond)
	if box.Lamp() != LampDark {
		t.Fatalf("Expected box mid-blink, got %s", box.Lamp())
	}

	observer.Reset()
	sim.Stop()

	if len(observer.LightsOff) != 1 || observer.LightsOff[0] != Stop {
		t.Errorf("Expected light off for stop, got %v", observer.LightsOff)
	}
	if box.Lamp() != LampOff {
		t.Errorf("Expected box off, got %s", box.Lamp())
	}

	observer.Reset()
	for i := 0; i < 10; i++ {
		sim.Tick(100 * time.Millisecond)
	}
	if observer.EventCount() != 0 {
		t.Errorf("Expected no events after stop, got %v", observer.Log)
	}
	if box.Lamp() != LampOff {
		t.Errorf("Expected box to stay off, got %s", box.Lamp())
	}
}

func TestSimulator_RunIDs(t *testing.T) {
	sim := NewSimulator(CreateScenarioTable())
	observer := NewTestObserver()
	sim.AddObserver(observer)

	if sim.RunID() != "" {
		t.Error("Expected empty run ID before start")
	}

	sim.Start()
	first := sim.RunID()
	sim.Stop()
	sim.Start()
	second := sim.RunID()

	if first == "" || second == "" || first == second {
		t.Errorf("Expected distinct run IDs, got %q and %q", first, second)
	}
	if observer.Started[0] != first || observer.Stopped[0] != first {
		t.Error("Expected started/stopped to carry the run ID")
	}
	if observer.Changes[0].RunID != first {
		t.Error("Expected phase change to carry the run ID")
	}
}

func TestSimulator_RemoveObserver(t *testing.T) {
	sim, observer := CreateTestSimulator(OptionalPhases{})

	sim.RemoveObserver(observer)
	sim.Start()

	if observer.EventCount() != 0 {
		t.Errorf("Expected detached observer to receive nothing, got %v", observer.Log)
	}
}

func TestSimulator_DefaultsAttentionEnabled(t *testing.T) {
	sim := NewSimulator(DefaultPhaseTable())

	want := OptionalPhases{Attention: true}
	if sim.Optional() != want {
		t.Errorf("Expected %+v, got %+v", want, sim.Optional())
	}
	if sim.Blink() != DefaultBlinkConfig() {
		t.Errorf("Expected default blink, got %+v", sim.Blink())
	}
}

func TestSimulator_NilTablePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for nil table")
		}
	}()
	NewSimulator(nil)
}

func TestSimulator_Snapshot(t *testing.T) {
	sim, _ := CreateTestSimulator(OptionalPhases{GoLeft: true})

	sim.Start()
	sim.Tick(2 * time.Second)

	snap := sim.Snapshot()
	if !snap.Running || snap.CurrentPhase != Stop || snap.Elapsed != 2*time.Second {
		t.Errorf("Unexpected snapshot %+v", snap)
	}
	if snap.RunID != "run-1" {
		t.Errorf("Expected run-1, got %s", snap.RunID)
	}
	if len(snap.Phases) != 5 {
		t.Errorf("Expected 5 phases, got %d", len(snap.Phases))
	}

	snap.Phases[Stop] = PhaseConfig{Duration: time.Hour}
	if sim.Table().Duration(Stop) != 5*time.Second {
		t.Error("Expected snapshot to be a copy")
	}
}
