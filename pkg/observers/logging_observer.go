// Package observers provides observers for monitoring simulator events
package observers

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/anggasct/crossing"
)

// LogLevel represents the logging level
type LogLevel int

const (
	// LogError logs only errors
	LogError LogLevel = iota
	// LogWarning logs errors and warnings
	LogWarning
	// LogInfo logs errors, warnings, and info
	LogInfo
	// LogDebug logs errors, warnings, info, and debug
	LogDebug
)

// LoggingObserver logs simulator events
type LoggingObserver struct {
	crossing.BaseObserver

	level     LogLevel
	prefix    string
	out       io.Writer
	mutex     sync.RWMutex
	formatter LogFormatter
}

// LogFormatter formats log messages
type LogFormatter func(level LogLevel, format string, args ...interface{}) string

// DefaultLogFormatter provides default log formatting
func DefaultLogFormatter(level LogLevel, format string, args ...interface{}) string {
	levelStr := "INFO"
	switch level {
	case LogError:
		levelStr = "ERROR"
	case LogWarning:
		levelStr = "WARN"
	case LogInfo:
		levelStr = "INFO"
	case LogDebug:
		levelStr = "DEBUG"
	}

	return fmt.Sprintf("[%s] %s", levelStr, fmt.Sprintf(format, args...))
}

// NewLoggingObserver creates a new logging observer writing to stdout
func NewLoggingObserver(level LogLevel, prefix string) *LoggingObserver {
	return &LoggingObserver{
		level:     level,
		prefix:    prefix,
		out:       os.Stdout,
		formatter: DefaultLogFormatter,
	}
}

// SetFormatter sets the log formatter
func (o *LoggingObserver) SetFormatter(formatter LogFormatter) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.formatter = formatter
}

// SetOutput redirects log lines to w
func (o *LoggingObserver) SetOutput(w io.Writer) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.out = w
}

// SetLevel changes the most verbose level that is written
func (o *LoggingObserver) SetLevel(level LogLevel) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.level = level
}

// log logs a message at the specified level
func (o *LoggingObserver) log(level LogLevel, format string, args ...interface{}) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	if level <= o.level {
		prefix := ""
		if o.prefix != "" {
			prefix = fmt.Sprintf("[%s] ", o.prefix)
		}

		message := ""
		if o.formatter != nil {
			message = o.formatter(level, format, args...)
		} else {
			message = fmt.Sprintf(format, args...)
		}

		fmt.Fprintf(o.out, "%s%s\n", prefix, message)
	}
}

// OnPhaseChanged logs the message of every phase entered
func (o *LoggingObserver) OnPhaseChanged(change crossing.PhaseChange) {
	if change.Initial {
		o.log(LogInfo, "Phase %s: %s (%s)", change.To, change.Message, change.Duration)
		return
	}
	o.log(LogInfo, "Phase %s -> %s: %s (%s)", change.From, change.To, change.Message, change.Duration)
}

// OnTimeRemaining logs the countdown
func (o *LoggingObserver) OnTimeRemaining(update crossing.TimerUpdate) {
	if !update.Active {
		o.log(LogDebug, "Timer cleared")
		return
	}
	o.log(LogDebug, "Timer %s: %s remaining", update.Phase, update.Remaining)
}

// OnLightOn logs a light switched on with its blink timing
func (o *LoggingObserver) OnLightOn(signal crossing.LightSignal) {
	if signal.Blink {
		o.log(LogDebug, "Light on: %s, blinking after %s every %s", signal.Phase, signal.BlinkStartDelay, signal.BlinkInterval)
		return
	}
	o.log(LogDebug, "Light on: %s", signal.Phase)
}

// OnLightOff logs a light switched off
func (o *LoggingObserver) OnLightOff(phase crossing.Phase) {
	o.log(LogDebug, "Light off: %s", phase)
}

// OnSimulationStarted logs the start of a run
func (o *LoggingObserver) OnSimulationStarted(runID string) {
	o.log(LogInfo, "Simulation started: %s", runID)
}

// OnSimulationStopped logs the end of a run
func (o *LoggingObserver) OnSimulationStopped(runID string) {
	o.log(LogInfo, "Simulation stopped: %s", runID)
}

// OnError logs errors. Blink configuration problems do not stop the simulation and are logged as warnings.
func (o *LoggingObserver) OnError(err error) {
	if crossing.IsBlinkError(err) {
		o.log(LogWarning, "Blink: %v", err)
		return
	}
	o.log(LogError, "Error: %v", err)
}
