package crossing

import "time"

// Color is the color a light box shows when lit
type Color string

const (
	Red    Color = "red"
	Yellow Color = "yellow"
	Green  Color = "green"
	Gray   Color = "gray"
)

// PhaseColor returns the lamp color of a phase
func PhaseColor(p Phase) Color {
	switch p {
	case Stop:
		return Red
	case Attention:
		return Yellow
	case Go, GoLeft, GoRight:
		return Green
	default:
		return Gray
	}
}

// LightBox is the lamp of one phase. It reacts only to signals for that phase
// and derives its blink from the elapsed time reported by timer updates.
type LightBox struct {
	BaseObserver

	phase Phase
	color Color
	lamp  Lamp
	plan  BlinkPlan
	on    bool
}

// NewLightBox creates a switched-off light box for phase p
func NewLightBox(p Phase) *LightBox {
	return &LightBox{
		phase: p,
		color: PhaseColor(p),
		lamp:  LampOff,
	}
}

// NewLightBoxes creates one light box per phase
func NewLightBoxes() map[Phase]*LightBox {
	boxes := make(map[Phase]*LightBox, len(Phases()))
	for _, p := range Phases() {
		boxes[p] = NewLightBox(p)
	}
	return boxes
}

// Phase returns the phase this box belongs to
func (b *LightBox) Phase() Phase {
	return b.phase
}

// Lamp returns the current visual state
func (b *LightBox) Lamp() Lamp {
	return b.lamp
}

// Color returns the color currently shown, gray unless lit
func (b *LightBox) Color() Color {
	if b.lamp == LampLit {
		return b.color
	}
	return Gray
}

// OnLightOn lights the box when the signal is for its phase
func (b *LightBox) OnLightOn(signal LightSignal) {
	if signal.Phase != b.phase {
		return
	}
	b.on = true
	b.plan = signal.Plan()
	b.lamp = LampLit
}

// OnLightOff returns the box to its neutral state and drops any blink in progress
func (b *LightBox) OnLightOff(p Phase) {
	if p != b.phase {
		return
	}
	b.on = false
	b.plan = BlinkPlan{}
	b.lamp = LampOff
}

// OnTimeRemaining advances the blink of a lit box
func (b *LightBox) OnTimeRemaining(update TimerUpdate) {
	if !b.on || !update.Active || update.Phase != b.phase {
		return
	}
	b.lamp = b.plan.LampAt(update.Elapsed)
}

// LampAt previews the lamp at elapsed time into the phase without changing the box
func (b *LightBox) LampAt(elapsed time.Duration) Lamp {
	if !b.on {
		return LampOff
	}
	return b.plan.LampAt(elapsed)
}
