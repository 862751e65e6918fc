package crossing

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// PhaseConfig holds the display message and duration of one phase
type PhaseConfig struct {
	Message  string        `json:"message" yaml:"message"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// PhaseTable holds exactly one PhaseConfig per Phase.
// Durations are validated on every mutation so a running simulator never sees a non-positive one.
type PhaseTable struct {
	configs map[Phase]PhaseConfig
}

// NewPhaseTable builds a table from one entry per phase.
// A missing or unknown phase is an IncompleteConfiguration error, a non-positive duration an InvalidDuration error.
func NewPhaseTable(configs map[Phase]PhaseConfig) (*PhaseTable, error) {
	var missing []string
	for _, p := range Phases() {
		if _, ok := configs[p]; !ok {
			missing = append(missing, p.String())
		}
	}
	if len(missing) > 0 {
		return nil, NewConfigurationError("PhaseTable", fmt.Sprintf("missing phases: %s", strings.Join(missing, ", ")))
	}

	table := &PhaseTable{configs: make(map[Phase]PhaseConfig, len(configs))}
	for p, cfg := range configs {
		if !p.Valid() {
			return nil, NewConfigurationError("PhaseTable", fmt.Sprintf("unknown phase %s", p))
		}
		if cfg.Duration <= 0 {
			return nil, NewDurationError(p, cfg.Duration)
		}
		table.configs[p] = cfg
	}
	return table, nil
}

// MustPhaseTable is like NewPhaseTable but panics on error
func MustPhaseTable(configs map[Phase]PhaseConfig) *PhaseTable {
	table, err := NewPhaseTable(configs)
	if err != nil {
		panic(err)
	}
	return table
}

// Get returns the configuration of phase p
func (t *PhaseTable) Get(p Phase) (PhaseConfig, error) {
	cfg, ok := t.configs[p]
	if !ok {
		return PhaseConfig{}, NewUnknownPhaseError(p)
	}
	return cfg, nil
}

// mustGet treats a missing phase as a broken invariant; construction guarantees all five exist.
func (t *PhaseTable) mustGet(p Phase) PhaseConfig {
	cfg, err := t.Get(p)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Duration returns the configured duration of phase p
func (t *PhaseTable) Duration(p Phase) time.Duration {
	return t.mustGet(p).Duration
}

// Message returns the display message of phase p
func (t *PhaseTable) Message(p Phase) string {
	return t.mustGet(p).Message
}

// SetDuration replaces the duration of phase p. The prior value is kept when d is not positive.
func (t *PhaseTable) SetDuration(p Phase, d time.Duration) error {
	cfg, err := t.Get(p)
	if err != nil {
		return err
	}
	if d <= 0 {
		return NewDurationError(p, d)
	}
	cfg.Duration = d
	t.configs[p] = cfg
	return nil
}

// SetMessage replaces the display message of phase p
func (t *PhaseTable) SetMessage(p Phase, message string) error {
	cfg, err := t.Get(p)
	if err != nil {
		return err
	}
	cfg.Message = message
	t.configs[p] = cfg
	return nil
}

// Configs returns a copy of every entry
func (t *PhaseTable) Configs() map[Phase]PhaseConfig {
	result := make(map[Phase]PhaseConfig, len(t.configs))
	for p, cfg := range t.configs {
		result[p] = cfg
	}
	return result
}

// String lists the table in phase order
func (t *PhaseTable) String() string {
	phases := make([]Phase, 0, len(t.configs))
	for p := range t.configs {
		phases = append(phases, p)
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i] < phases[j] })

	parts := make([]string, 0, len(phases))
	for _, p := range phases {
		cfg := t.configs[p]
		parts = append(parts, fmt.Sprintf("%s=%s(%q)", p, cfg.Duration, cfg.Message))
	}
	return strings.Join(parts, " ")
}
