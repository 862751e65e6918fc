// Package crossing simulates a road intersection traffic light.
//
// A Simulator cycles through the phases Stop, Go and the optional GoLeft,
// GoRight and Attention, spending the duration configured in a PhaseTable in
// each. The caller drives the clock with Tick; observers receive phase
// changes, countdown updates and light on/off signals carrying the blink
// timing that flashes a light just before its phase ends.
package crossing

import "time"

// Seconds converts a floating point number of seconds to a time.Duration
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// DefaultPhaseTable returns the reference intersection timings
func DefaultPhaseTable() *PhaseTable {
	return MustPhaseTable(map[Phase]PhaseConfig{
		Stop:      {Message: "STOP", Duration: 5 * time.Second},
		Go:        {Message: "GO", Duration: 5 * time.Second},
		GoLeft:    {Message: "GO LEFT", Duration: 4 * time.Second},
		GoRight:   {Message: "GO RIGHT", Duration: 4 * time.Second},
		Attention: {Message: "WAIT", Duration: 3 * time.Second},
	})
}
