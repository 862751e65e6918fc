package crossing

import (
	"time"

	"github.com/google/uuid"
)

// Simulator drives the traffic-light cycle over a PhaseTable.
//
// Time advances only through Tick. A Simulator is not safe for concurrent use:
// configuration changes must happen between ticks on the goroutine that drives the clock.
// Observers are called synchronously, in registration order.
type Simulator struct {
	table     *PhaseTable
	optional  OptionalPhases
	blink     BlinkConfig
	observers *ObserverManager
	newRunID  func() string

	running bool
	current Phase
	elapsed time.Duration
	plan    BlinkPlan
	runID   string
}

// Option configures a Simulator
type Option func(*Simulator)

// WithOptionalPhases sets which optional phases start enabled
func WithOptionalPhases(optional OptionalPhases) Option {
	return func(s *Simulator) {
		s.optional = optional
	}
}

// WithBlink sets the initial blink configuration. Non-positive length or interval fall back to the defaults.
func WithBlink(cfg BlinkConfig) Option {
	return func(s *Simulator) {
		if cfg.Length <= 0 {
			cfg.Length = DefaultBlinkLength
		}
		if cfg.Interval <= 0 {
			cfg.Interval = DefaultBlinkInterval
		}
		s.blink = cfg
	}
}

// WithObserver attaches an observer at construction
func WithObserver(observer Observer) Option {
	return func(s *Simulator) {
		s.observers.AddObserver(observer)
	}
}

// WithRunIDGenerator replaces the uuid based run identifiers
func WithRunIDGenerator(gen func() string) Option {
	return func(s *Simulator) {
		if gen != nil {
			s.newRunID = gen
		}
	}
}

// NewSimulator creates a stopped simulator. Attention is the only optional phase enabled by default.
func NewSimulator(table *PhaseTable, opts ...Option) *Simulator {
	if table == nil {
		panic(NewConfigurationError("Simulator", "phase table is required"))
	}
	s := &Simulator{
		table:     table,
		optional:  OptionalPhases{Attention: true},
		blink:     DefaultBlinkConfig(),
		observers: NewObserverManager(),
		newRunID:  func() string { return uuid.New().String() },
		current:   Stop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a new run in Stop. It does nothing if the simulator is already running.
func (s *Simulator) Start() {
	if s.running {
		return
	}

	s.runID = s.newRunID()
	s.elapsed = 0
	s.running = true
	s.enter(Stop, Stop, true)
	s.observers.NotifySimulationStarted(s.runID)
}

// Stop halts the simulation and switches the current light off. It does nothing if already stopped.
func (s *Simulator) Stop() {
	if !s.running {
		return
	}

	s.running = false
	s.elapsed = 0
	s.plan = BlinkPlan{}
	s.observers.NotifyLightOff(s.current)
	s.observers.NotifyTimeRemaining(InactiveTimer())
	s.observers.NotifySimulationStopped(s.runID)
}

// Tick advances simulated time by delta. Negative deltas count as zero.
// At most one transition happens per tick; time past the phase end is discarded.
func (s *Simulator) Tick(delta time.Duration) {
	if !s.running {
		return
	}
	if delta > 0 {
		s.elapsed += delta
	}

	duration := s.table.Duration(s.current)
	s.observers.NotifyTimeRemaining(s.timerUpdate(duration))

	if s.elapsed >= duration {
		s.elapsed = 0
		s.transition()
	}
}

func (s *Simulator) timerUpdate(duration time.Duration) TimerUpdate {
	remaining := duration - s.elapsed
	if remaining < 0 {
		remaining = 0
	}
	return TimerUpdate{
		Phase:     s.current,
		Elapsed:   s.elapsed,
		Remaining: remaining,
		Active:    true,
	}
}

func (s *Simulator) transition() {
	from := s.current
	to := NextPhase(from, s.optional)

	s.observers.NotifyLightOff(from)
	s.enter(from, to, false)
}

// enter makes p the current phase and emits its phase-enter effects
func (s *Simulator) enter(from, p Phase, initial bool) {
	cfg := s.table.mustGet(p)
	s.current = p
	s.plan = NewBlinkPlan(cfg.Duration, s.blink)

	s.observers.NotifyPhaseChanged(PhaseChange{
		RunID:    s.runID,
		From:     from,
		To:       p,
		Message:  cfg.Message,
		Duration: cfg.Duration,
		Initial:  initial,
	})

	if s.blink.Enabled && s.plan.Clamped {
		s.observers.NotifyError(NewBlinkClampedError(p, s.blink.Length, cfg.Duration))
	}
	s.observers.NotifyLightOn(NewLightSignal(p, cfg.Duration, s.blink))
}

// SetOptionalEnabled switches an optional phase on or off for future transition decisions
func (s *Simulator) SetOptionalEnabled(p Phase, enabled bool) error {
	optional, err := s.optional.With(p, enabled)
	if err != nil {
		return err
	}
	s.optional = optional
	return nil
}

// SetBlinkEnabled switches blinking on or off for phases entered from now on
func (s *Simulator) SetBlinkEnabled(enabled bool) {
	s.blink.Enabled = enabled
}

// SetBlinkLength sets how long before a phase ends its light starts flashing
func (s *Simulator) SetBlinkLength(d time.Duration) error {
	if d <= 0 {
		return NewBlinkError("length", "must be positive")
	}
	s.blink.Length = d
	return nil
}

// SetBlinkInterval sets the length of one flash cycle
func (s *Simulator) SetBlinkInterval(d time.Duration) error {
	if d <= 0 {
		return NewBlinkError("interval", "must be positive")
	}
	s.blink.Interval = d
	return nil
}

// ChangeDuration sets the duration of phase p. Elapsed time in the current phase is kept,
// so shortening the active phase below it makes the next tick transition.
func (s *Simulator) ChangeDuration(p Phase, d time.Duration) error {
	return s.table.SetDuration(p, d)
}

// ChangeMessage sets the display message of phase p
func (s *Simulator) ChangeMessage(p Phase, message string) error {
	return s.table.SetMessage(p, message)
}

// IsRunning reports whether the simulation is started
func (s *Simulator) IsRunning() bool {
	return s.running
}

// CurrentPhase returns the active phase, or the last one when stopped
func (s *Simulator) CurrentPhase() Phase {
	return s.current
}

// Elapsed returns the time spent in the current phase
func (s *Simulator) Elapsed() time.Duration {
	return s.elapsed
}

// Remaining returns the countdown of the current phase, or the inactive sentinel when stopped
func (s *Simulator) Remaining() TimerUpdate {
	if !s.running {
		return InactiveTimer()
	}
	return s.timerUpdate(s.table.Duration(s.current))
}

// Lamp returns the visual state of the light of phase p at the current simulated time
func (s *Simulator) Lamp(p Phase) Lamp {
	if !s.running || p != s.current {
		return LampOff
	}
	return s.plan.LampAt(s.elapsed)
}

// Optional returns the enabled optional phases
func (s *Simulator) Optional() OptionalPhases {
	return s.optional
}

// Blink returns the blink configuration
func (s *Simulator) Blink() BlinkConfig {
	return s.blink
}

// Table returns the phase table the simulator reads durations and messages from
func (s *Simulator) Table() *PhaseTable {
	return s.table
}

// RunID identifies the current or last run. It is empty before the first Start.
func (s *Simulator) RunID() string {
	return s.runID
}

// AddObserver attaches an observer
func (s *Simulator) AddObserver(observer Observer) {
	s.observers.AddObserver(observer)
}

// RemoveObserver detaches an observer
func (s *Simulator) RemoveObserver(observer Observer) {
	s.observers.RemoveObserver(observer)
}

// Snapshot returns a copy of the simulator state
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{
		RunID:        s.runID,
		Running:      s.running,
		CurrentPhase: s.current,
		Elapsed:      s.elapsed,
		Optional:     s.optional,
		Blink:        s.blink,
		Phases:       s.table.Configs(),
	}
}
