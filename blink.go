package crossing

import "time"

const (
	// DefaultBlinkLength is how long a light flashes before its phase ends
	DefaultBlinkLength = 2 * time.Second
	// DefaultBlinkInterval is the length of one dark+lit flash cycle
	DefaultBlinkInterval = 500 * time.Millisecond
)

// BlinkConfig controls the flashing that precedes the end of a phase
type BlinkConfig struct {
	Enabled  bool          `json:"enabled" yaml:"enabled"`
	Length   time.Duration `json:"length" yaml:"length"`
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// DefaultBlinkConfig returns the reference blink settings with blinking switched off
func DefaultBlinkConfig() BlinkConfig {
	return BlinkConfig{
		Enabled:  false,
		Length:   DefaultBlinkLength,
		Interval: DefaultBlinkInterval,
	}
}

// Validate checks that length and interval are positive
func (c BlinkConfig) Validate() error {
	if c.Length <= 0 {
		return NewBlinkError("length", "must be positive")
	}
	if c.Interval <= 0 {
		return NewBlinkError("interval", "must be positive")
	}
	return nil
}

// Lamp is the visual state of a light box
type Lamp int

const (
	// LampOff is the neutral gray of an inactive light
	LampOff Lamp = iota
	// LampLit shows the light's color
	LampLit
	// LampDark is the unlit half of a blink cycle
	LampDark
)

func (l Lamp) String() string {
	switch l {
	case LampLit:
		return "lit"
	case LampDark:
		return "dark"
	default:
		return "off"
	}
}

// BlinkPlan is the blink timing of one phase, derived at phase entry
type BlinkPlan struct {
	Enabled    bool
	StartDelay time.Duration
	Cycles     int
	HalfPeriod time.Duration
	// Clamped is set when the blink length exceeded the phase duration
	Clamped bool
}

// NewBlinkPlan derives the plan for a phase of the given duration.
// StartDelay is duration minus blink length so flashing ends with the phase; it is clamped to zero.
func NewBlinkPlan(duration time.Duration, cfg BlinkConfig) BlinkPlan {
	plan := BlinkPlan{
		Enabled:    cfg.Enabled,
		StartDelay: duration - cfg.Length,
		HalfPeriod: cfg.Interval / 2,
	}
	if cfg.Interval > 0 {
		plan.Cycles = int(cfg.Length / cfg.Interval)
	}
	if plan.StartDelay < 0 {
		plan.StartDelay = 0
		plan.Clamped = true
	}
	return plan
}

// End returns the time into the phase at which the last cycle finishes
func (p BlinkPlan) End() time.Duration {
	return p.StartDelay + time.Duration(p.Cycles)*2*p.HalfPeriod
}

// LampAt returns the lamp of an active phase after elapsed time in it.
// Each cycle is dark for the first half period and lit for the second.
func (p BlinkPlan) LampAt(elapsed time.Duration) Lamp {
	if !p.Enabled || p.Cycles == 0 || p.HalfPeriod <= 0 {
		return LampLit
	}
	if elapsed < p.StartDelay || elapsed >= p.End() {
		return LampLit
	}
	half := (elapsed - p.StartDelay) / p.HalfPeriod
	if half%2 == 0 {
		return LampDark
	}
	return LampLit
}
