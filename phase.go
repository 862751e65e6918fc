package crossing

import (
	"fmt"
	"strings"
)

// Phase is one discrete state of the traffic cycle
type Phase int

const (
	// Stop holds all traffic (red)
	Stop Phase = iota
	// Go releases straight traffic (green)
	Go
	// GoLeft releases the left-turn arrow
	GoLeft
	// GoRight releases the right-turn arrow
	GoRight
	// Attention warns that the cycle is about to stop (yellow)
	Attention
)

var phaseNames = [...]string{
	Stop:      "stop",
	Go:        "go",
	GoLeft:    "go_left",
	GoRight:   "go_right",
	Attention: "attention",
}

// Phases returns every phase in declaration order
func Phases() []Phase {
	return []Phase{Stop, Go, GoLeft, GoRight, Attention}
}

// String returns the phase identifier
func (p Phase) String() string {
	if p.Valid() {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Valid reports whether p is one of the five known phases
func (p Phase) Valid() bool {
	return p >= Stop && p <= Attention
}

// IsOptional reports whether the phase can be skipped through configuration
func (p Phase) IsOptional() bool {
	return p == GoLeft || p == GoRight || p == Attention
}

// MarshalText encodes the phase as its identifier
func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, NewUnknownPhaseError(p)
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase identifier
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase converts an identifier such as "go_left" or "GoLeft" to a Phase
func ParsePhase(name string) (Phase, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	for _, p := range Phases() {
		if normalized == phaseNames[p] || normalized == strings.ReplaceAll(phaseNames[p], "_", "") {
			return p, nil
		}
	}
	return 0, NewInvalidPhaseError(name, "unknown phase name")
}

// OptionalPhases holds which optional phases take part in the cycle
type OptionalPhases struct {
	Attention bool `json:"attention" yaml:"attention"`
	GoLeft    bool `json:"go_left" yaml:"go_left"`
	GoRight   bool `json:"go_right" yaml:"go_right"`
}

// Enabled reports whether phase p is active in the cycle. Stop and Go are always active.
func (o OptionalPhases) Enabled(p Phase) bool {
	switch p {
	case Attention:
		return o.Attention
	case GoLeft:
		return o.GoLeft
	case GoRight:
		return o.GoRight
	default:
		return p.Valid()
	}
}

// With returns a copy with the optional phase p switched on or off
func (o OptionalPhases) With(p Phase, enabled bool) (OptionalPhases, error) {
	switch p {
	case Attention:
		o.Attention = enabled
	case GoLeft:
		o.GoLeft = enabled
	case GoRight:
		o.GoRight = enabled
	default:
		return o, NewInvalidPhaseError(p.String(), "only go_left, go_right and attention are optional")
	}
	return o, nil
}
