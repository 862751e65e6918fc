// Package config loads intersection profiles for the simulator.
// A profile is YAML: embedded defaults, optionally overlaid by a user file.
package config

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anggasct/crossing"
)

//go:embed defaults/intersection.yaml
var defaultsFS embed.FS

const defaultsPath = "defaults/intersection.yaml"

// Config is an intersection profile.
// Phases are keyed by phase identifier (stop, go, go_left, go_right, attention).
type Config struct {
	Phases   map[string]crossing.PhaseConfig `yaml:"phases"`
	Optional crossing.OptionalPhases         `yaml:"optional"`
	Blink    crossing.BlinkConfig            `yaml:"blink"`
	Tick     time.Duration                   `yaml:"tick"` // runner wall-clock tick interval

	// Private: track where config was loaded from
	sources []string
}

// Sources returns where the config values came from, in load order.
func (c *Config) Sources() []string {
	return c.sources
}

// Default returns the embedded reference profile.
func Default() (*Config, error) {
	data, err := defaultsFS.ReadFile(defaultsPath)
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = []string{"embedded"}
	return cfg, nil
}

// Load reads the profile at path on top of the embedded defaults.
// A phase entry in the file replaces the default entry for that phase as a whole.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // user's profile
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.sources = append(cfg.sources, path)
	return cfg, nil
}

// Parse parses a complete profile without applying defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// PhaseTable builds the phase table described by the profile.
func (c *Config) PhaseTable() (*crossing.PhaseTable, error) {
	names := make([]string, 0, len(c.Phases))
	for name := range c.Phases {
		names = append(names, name)
	}
	sort.Strings(names)

	configs := make(map[crossing.Phase]crossing.PhaseConfig, len(c.Phases))
	for _, name := range names {
		p, err := crossing.ParsePhase(name)
		if err != nil {
			return nil, fmt.Errorf("phases: %w",
				crossing.NewConfigurationError("config", fmt.Sprintf("unknown phase %q", name)))
		}
		if _, dup := configs[p]; dup {
			return nil, fmt.Errorf("phases: %w",
				crossing.NewConfigurationError("config", fmt.Sprintf("phase %s configured twice", p)))
		}
		configs[p] = c.Phases[name]
	}

	table, err := crossing.NewPhaseTable(configs)
	if err != nil {
		return nil, fmt.Errorf("phases: %w", err)
	}
	return table, nil
}

// Validate checks the profile can build a simulator.
func (c *Config) Validate() error {
	if _, err := c.PhaseTable(); err != nil {
		return err
	}
	if err := c.Blink.Validate(); err != nil {
		return fmt.Errorf("blink: %w", err)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %s", c.Tick)
	}
	return nil
}

// Build constructs a stopped simulator from the profile.
// Options in opts are applied after the profile settings and can override them.
func (c *Config) Build(opts ...crossing.Option) (*crossing.Simulator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	table, err := c.PhaseTable()
	if err != nil {
		return nil, err
	}

	all := append([]crossing.Option{
		crossing.WithOptionalPhases(c.Optional),
		crossing.WithBlink(c.Blink),
	}, opts...)
	return crossing.NewSimulator(table, all...), nil
}
