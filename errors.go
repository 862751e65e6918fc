package crossing

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents specific error conditions in the simulator
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// Phase table is missing an entry or holds an unknown one
	ErrCodeIncompleteConfiguration
	// Lookup of a phase that was never registered
	ErrCodeUnknownPhase
	// Non-positive duration supplied
	ErrCodeInvalidDuration
	// Blink settings are inconsistent with each other or with a phase
	ErrCodeInvalidBlinkConfiguration
	// Phase cannot be used for the requested operation
	ErrCodeInvalidPhase
)

var errorCodeNames = map[ErrorCode]string{
	ErrCodeNone:                      "none",
	ErrCodeIncompleteConfiguration:   "incomplete configuration",
	ErrCodeUnknownPhase:              "unknown phase",
	ErrCodeInvalidDuration:           "invalid duration",
	ErrCodeInvalidBlinkConfiguration: "invalid blink configuration",
	ErrCodeInvalidPhase:              "invalid phase",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("error code %d", int(c))
}

// Sentinels for errors.Is. Every typed error below matches the sentinel of its code.
var (
	ErrIncompleteConfiguration   = &codeError{ErrCodeIncompleteConfiguration}
	ErrUnknownPhase              = &codeError{ErrCodeUnknownPhase}
	ErrInvalidDuration           = &codeError{ErrCodeInvalidDuration}
	ErrInvalidBlinkConfiguration = &codeError{ErrCodeInvalidBlinkConfiguration}
	ErrInvalidPhase              = &codeError{ErrCodeInvalidPhase}
)

type codeError struct {
	code ErrorCode
}

func (e *codeError) Error() string {
	return e.code.String()
}

func matchesCode(code ErrorCode, target error) bool {
	var ce *codeError
	if errors.As(target, &ce) {
		return ce.code == code
	}
	return false
}

// ConfigurationError represents a phase table that cannot be built
type ConfigurationError struct {
	Component string
	Issue     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

func (e *ConfigurationError) Is(target error) bool {
	return matchesCode(ErrCodeIncompleteConfiguration, target)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component, issue string) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Issue:     issue,
	}
}

// PhaseError represents lookups and operations on a phase that cannot serve them
type PhaseError struct {
	Code    ErrorCode
	Phase   string
	Message string
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase error [%s]: %s", e.Phase, e.Message)
}

func (e *PhaseError) Is(target error) bool {
	return matchesCode(e.Code, target)
}

// NewUnknownPhaseError creates an error for a phase missing from the table
func NewUnknownPhaseError(phase Phase) *PhaseError {
	return &PhaseError{
		Code:    ErrCodeUnknownPhase,
		Phase:   phase.String(),
		Message: fmt.Sprintf("phase '%s' is not registered", phase),
	}
}

// NewInvalidPhaseError creates an error for a phase that is not valid in context
func NewInvalidPhaseError(phase string, reason string) *PhaseError {
	return &PhaseError{
		Code:    ErrCodeInvalidPhase,
		Phase:   phase,
		Message: reason,
	}
}

// DurationError represents a rejected phase duration
type DurationError struct {
	Phase    Phase
	Duration time.Duration
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("invalid duration %s for phase '%s': must be positive", e.Duration, e.Phase)
}

func (e *DurationError) Is(target error) bool {
	return matchesCode(ErrCodeInvalidDuration, target)
}

// NewDurationError creates a new invalid duration error
func NewDurationError(phase Phase, d time.Duration) *DurationError {
	return &DurationError{
		Phase:    phase,
		Duration: d,
	}
}

// BlinkError represents blink settings that cannot be honored as given
type BlinkError struct {
	Setting string
	Phase   string
	Reason  string
}

func (e *BlinkError) Error() string {
	if e.Phase != "" {
		return fmt.Sprintf("blink %s invalid for phase '%s': %s", e.Setting, e.Phase, e.Reason)
	}
	return fmt.Sprintf("blink %s invalid: %s", e.Setting, e.Reason)
}

func (e *BlinkError) Is(target error) bool {
	return matchesCode(ErrCodeInvalidBlinkConfiguration, target)
}

// NewBlinkError creates a new blink configuration error
func NewBlinkError(setting, reason string) *BlinkError {
	return &BlinkError{
		Setting: setting,
		Reason:  reason,
	}
}

// NewBlinkClampedError reports a blink length that exceeds the phase it applies to
func NewBlinkClampedError(phase Phase, length, duration time.Duration) *BlinkError {
	return &BlinkError{
		Setting: "length",
		Phase:   phase.String(),
		Reason:  fmt.Sprintf("length %s exceeds phase duration %s, blinking starts at phase entry", length, duration),
	}
}

// IsConfigurationError checks if an error is a ConfigurationError
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// IsPhaseError checks if an error is a PhaseError
func IsPhaseError(err error) bool {
	var e *PhaseError
	return errors.As(err, &e)
}

// IsDurationError checks if an error is a DurationError
func IsDurationError(err error) bool {
	var e *DurationError
	return errors.As(err, &e)
}

// IsBlinkError checks if an error is a BlinkError
func IsBlinkError(err error) bool {
	var e *BlinkError
	return errors.As(err, &e)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var (
		ce *ConfigurationError
		pe *PhaseError
		de *DurationError
		be *BlinkError
		se *codeError
	)
	switch {
	case err == nil:
		return ErrCodeNone
	case errors.As(err, &ce):
		return ErrCodeIncompleteConfiguration
	case errors.As(err, &pe):
		return pe.Code
	case errors.As(err, &de):
		return ErrCodeInvalidDuration
	case errors.As(err, &be):
		return ErrCodeInvalidBlinkConfiguration
	case errors.As(err, &se):
		return se.code
	default:
		return ErrCodeNone
	}
}
