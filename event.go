package crossing

import (
	"encoding/json"
	"time"
)

// PhaseChange is delivered once on Start and once per transition
type PhaseChange struct {
	RunID    string
	From     Phase
	To       Phase
	Message  string
	Duration time.Duration
	// Initial is set for the change emitted by Start, where From carries no meaning
	Initial bool
}

// TimerUpdate reports the countdown of the active phase.
// Active is false for the sentinel sent when no timer runs, so zero remaining is never ambiguous.
type TimerUpdate struct {
	Phase     Phase
	Elapsed   time.Duration
	Remaining time.Duration
	Active    bool
}

// InactiveTimer returns the sentinel for "no phase is being timed"
func InactiveTimer() TimerUpdate {
	return TimerUpdate{}
}

// Seconds returns the remaining time in seconds and false for the inactive sentinel
func (u TimerUpdate) Seconds() (float64, bool) {
	if !u.Active {
		return 0, false
	}
	return u.Remaining.Seconds(), true
}

// LightSignal switches on the light of a phase and carries its blink timing
type LightSignal struct {
	Phase           Phase
	Duration        time.Duration
	Blink           bool
	BlinkLength     time.Duration
	BlinkStartDelay time.Duration
	BlinkInterval   time.Duration
}

// NewLightSignal builds the signal for entering phase p with duration d
func NewLightSignal(p Phase, d time.Duration, blink BlinkConfig) LightSignal {
	plan := NewBlinkPlan(d, blink)
	return LightSignal{
		Phase:           p,
		Duration:        d,
		Blink:           blink.Enabled,
		BlinkLength:     blink.Length,
		BlinkStartDelay: plan.StartDelay,
		BlinkInterval:   blink.Interval,
	}
}

// Plan returns the blink plan the signal describes
func (s LightSignal) Plan() BlinkPlan {
	plan := NewBlinkPlan(s.BlinkStartDelay+s.BlinkLength, BlinkConfig{
		Enabled:  s.Blink,
		Length:   s.BlinkLength,
		Interval: s.BlinkInterval,
	})
	plan.Clamped = s.BlinkLength > s.Duration
	return plan
}

// Snapshot is a point-in-time copy of the simulator state
type Snapshot struct {
	RunID        string                `json:"run_id,omitempty"`
	Running      bool                  `json:"running"`
	CurrentPhase Phase                 `json:"current_phase"`
	Elapsed      time.Duration         `json:"elapsed"`
	Optional     OptionalPhases        `json:"optional"`
	Blink        BlinkConfig           `json:"blink"`
	Phases       map[Phase]PhaseConfig `json:"phases"`
}

// JSON encodes the snapshot
func (s Snapshot) JSON() ([]byte, error) {
	return json.Marshal(s)
}
