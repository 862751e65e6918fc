package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/crossing"
)

// DOTGenerator generates Graphviz DOT format representations of a phase cycle
type DOTGenerator struct {
	table    *crossing.PhaseTable
	optional crossing.OptionalPhases
	options  DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowDurations            bool
	ShowMessages             bool
	ShowDisabledPhases       bool
	ShowPotentialTransitions bool
	RankDirection            string // "TB", "LR", "BT", "RL"
	NodeShape                string
	TransitionStyle          string
	DisabledStyle            string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowDurations:            true,
		ShowMessages:             true,
		ShowDisabledPhases:       true,
		ShowPotentialTransitions: false,
		RankDirection:            "LR",
		NodeShape:                "box",
		TransitionStyle:          "solid",
		DisabledStyle:            "dashed",
	}
}

// NewDOTGenerator creates a new DOT generator for the cycle of table under the enabled optional phases
func NewDOTGenerator(table *crossing.PhaseTable, optional crossing.OptionalPhases, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		table:    table,
		optional: optional,
		options:  opts,
	}
}

// NewSimulatorDOTGenerator renders the current table and optional phases of sim
func NewSimulatorDOTGenerator(sim *crossing.Simulator, options ...DOTOptions) *DOTGenerator {
	return NewDOTGenerator(sim.Table(), sim.Optional(), options...)
}

// Generate creates a DOT representation of the phase cycle
func (g *DOTGenerator) Generate() (string, error) {
	if g.table == nil {
		return "", crossing.NewConfigurationError("DOTGenerator", "phase table is required")
	}

	var dot strings.Builder

	// DOT header
	dot.WriteString("digraph Intersection {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	if err := g.generatePhases(&dot); err != nil {
		return "", fmt.Errorf("failed to generate phases: %w", err)
	}

	g.generateTransitions(&dot)

	// DOT footer
	dot.WriteString("}\n")

	return dot.String(), nil
}

// generatePhases generates DOT nodes in phase order
func (g *DOTGenerator) generatePhases(dot *strings.Builder) error {
	dot.WriteString("  // Phases\n")

	for _, phase := range crossing.Phases() {
		enabled := g.optional.Enabled(phase)
		if !enabled && !g.options.ShowDisabledPhases {
			continue
		}
		cfg, err := g.table.Get(phase)
		if err != nil {
			return err
		}
		g.generatePhaseNode(dot, phase, cfg, enabled)
	}

	dot.WriteString("\n")
	return nil
}

// generatePhaseNode generates a DOT node for a single phase
func (g *DOTGenerator) generatePhaseNode(dot *strings.Builder, phase crossing.Phase, cfg crossing.PhaseConfig, enabled bool) {
	style := "filled"
	fillColor := fillColorFor(phase)
	label := phase.String()

	if g.options.ShowMessages && cfg.Message != "" {
		label += fmt.Sprintf("\\n%s", escape(cfg.Message))
	}
	if g.options.ShowDurations {
		label += fmt.Sprintf("\\n%s", cfg.Duration)
	}
	if phase == crossing.Stop {
		label += "\\n(initial)"
	}
	if !enabled {
		style = fmt.Sprintf("filled,%s", g.options.DisabledStyle)
		fillColor = "gray90"
		label += "\\n(disabled)"
	}

	dot.WriteString(fmt.Sprintf("  \"%s\" [style=\"%s\" fillcolor=%s label=\"%s\"];\n",
		phase, style, fillColor, label))
}

// generateTransitions generates the edges of the active cycle and, optionally,
// the edges other flag combinations would take.
func (g *DOTGenerator) generateTransitions(dot *strings.Builder) {
	dot.WriteString("  // Transitions\n")

	active := make(map[crossing.Transition]bool)
	for _, phase := range crossing.Cycle(g.optional) {
		t := crossing.NewTransition(phase, g.optional)
		active[t] = true
		dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [style=%s];\n", t.From, t.To, g.options.TransitionStyle))
	}

	if !g.options.ShowPotentialTransitions {
		return
	}

	for _, t := range PotentialTransitions() {
		if active[t] {
			continue
		}
		if !g.options.ShowDisabledPhases && (!g.optional.Enabled(t.From) || !g.optional.Enabled(t.To)) {
			continue
		}
		dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [style=%s color=gray];\n", t.From, t.To, g.options.DisabledStyle))
	}
}

// PotentialTransitions returns every transition some combination of optional phases can take, in phase order
func PotentialTransitions() []crossing.Transition {
	seen := make(map[crossing.Transition]bool)
	var result []crossing.Transition

	for _, from := range crossing.Phases() {
		for _, to := range crossing.Phases() {
			for _, optional := range flagCombinations() {
				if !optional.Enabled(from) {
					continue
				}
				t := crossing.Transition{From: from, To: to}
				if t.Allowed(optional) && !seen[t] {
					seen[t] = true
					result = append(result, t)
				}
			}
		}
	}

	return result
}

func flagCombinations() []crossing.OptionalPhases {
	combos := make([]crossing.OptionalPhases, 0, 8)
	for mask := 0; mask < 8; mask++ {
		combos = append(combos, crossing.OptionalPhases{
			Attention: mask&1 != 0,
			GoLeft:    mask&2 != 0,
			GoRight:   mask&4 != 0,
		})
	}
	return combos
}

func fillColorFor(phase crossing.Phase) string {
	switch crossing.PhaseColor(phase) {
	case crossing.Red:
		return "lightcoral"
	case crossing.Yellow:
		return "lightyellow"
	case crossing.Green:
		return "lightgreen"
	default:
		return "lightgray"
	}
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// SVGGenerator generates SVG representations by calling Graphviz
type SVGGenerator struct {
	dotGenerator *DOTGenerator
}

// NewSVGGenerator creates a new SVG generator
func NewSVGGenerator(table *crossing.PhaseTable, optional crossing.OptionalPhases, options ...DOTOptions) *SVGGenerator {
	return &SVGGenerator{
		dotGenerator: NewDOTGenerator(table, optional, options...),
	}
}

// Generate creates an SVG representation of the phase cycle
func (g *SVGGenerator) Generate() (string, error) {
	dotContent, err := g.dotGenerator.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}

// GenerateSVG creates an SVG representation of the phase cycle
func (g *DOTGenerator) GenerateSVG() (string, error) {
	svgGen := &SVGGenerator{dotGenerator: g}
	return svgGen.Generate()
}
