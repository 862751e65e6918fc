package crossing

import "fmt"

// Observer receives the notifications every panel needs
type Observer interface {
	// Required methods

	// OnPhaseChanged is called once on Start and once per transition
	OnPhaseChanged(change PhaseChange)

	// OnTimeRemaining is called once per tick while running, and with the inactive sentinel on Stop
	OnTimeRemaining(update TimerUpdate)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnLightOn is called when a phase is entered
	OnLightOn(signal LightSignal)

	// OnLightOff is called when a phase is left or the simulation stops
	OnLightOff(phase Phase)

	// OnSimulationStarted is called after Start entered the first phase
	OnSimulationStarted(runID string)

	// OnSimulationStopped is called after Stop turned the lights off
	OnSimulationStopped(runID string)

	// OnError is called for recoverable problems, such as a clamped blink or a panicking observer
	OnError(err error)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnPhaseChanged implements the required Observer method
func (o *BaseObserver) OnPhaseChanged(change PhaseChange) {}

// OnTimeRemaining implements the required Observer method
func (o *BaseObserver) OnTimeRemaining(update TimerUpdate) {}

// OnLightOn implements the optional ExtendedObserver method
func (o *BaseObserver) OnLightOn(signal LightSignal) {}

// OnLightOff implements the optional ExtendedObserver method
func (o *BaseObserver) OnLightOff(phase Phase) {}

// OnSimulationStarted implements the optional ExtendedObserver method
func (o *BaseObserver) OnSimulationStarted(runID string) {}

// OnSimulationStopped implements the optional ExtendedObserver method
func (o *BaseObserver) OnSimulationStopped(runID string) {}

// OnError implements the optional ExtendedObserver method
func (o *BaseObserver) OnError(err error) {}

// ObserverFuncs adapts plain functions to ExtendedObserver. Nil fields are skipped.
type ObserverFuncs struct {
	PhaseChanged      func(PhaseChange)
	TimeRemaining     func(TimerUpdate)
	LightOn           func(LightSignal)
	LightOff          func(Phase)
	SimulationStarted func(string)
	SimulationStopped func(string)
	Error             func(error)
}

func (f *ObserverFuncs) OnPhaseChanged(change PhaseChange) {
	if f.PhaseChanged != nil {
		f.PhaseChanged(change)
	}
}

func (f *ObserverFuncs) OnTimeRemaining(update TimerUpdate) {
	if f.TimeRemaining != nil {
		f.TimeRemaining(update)
	}
}

func (f *ObserverFuncs) OnLightOn(signal LightSignal) {
	if f.LightOn != nil {
		f.LightOn(signal)
	}
}

func (f *ObserverFuncs) OnLightOff(phase Phase) {
	if f.LightOff != nil {
		f.LightOff(phase)
	}
}

func (f *ObserverFuncs) OnSimulationStarted(runID string) {
	if f.SimulationStarted != nil {
		f.SimulationStarted(runID)
	}
}

func (f *ObserverFuncs) OnSimulationStopped(runID string) {
	if f.SimulationStopped != nil {
		f.SimulationStopped(runID)
	}
}

func (f *ObserverFuncs) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// ObserverManager manages a collection of observers.
// Observers are detached only through RemoveObserver.
type ObserverManager struct {
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// Len returns the number of attached observers
func (om *ObserverManager) Len() int {
	return len(om.observers)
}

// each calls fn for every observer on a snapshot of the list.
// A panicking observer is reported to itself through OnError when it can receive it.
func (om *ObserverManager) each(name string, fn func(Observer)) {
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if extObs, ok := observer.(ExtendedObserver); ok {
						func() {
							defer func() { recover() }()
							extObs.OnError(fmt.Errorf("observer panic in %s: %v", name, r))
						}()
					}
				}
			}()
			fn(observer)
		}()
	}
}

func (om *ObserverManager) eachExtended(name string, fn func(ExtendedObserver)) {
	om.each(name, func(observer Observer) {
		if extObs, ok := observer.(ExtendedObserver); ok {
			fn(extObs)
		}
	})
}

// NotifyPhaseChanged notifies all observers of a phase change
func (om *ObserverManager) NotifyPhaseChanged(change PhaseChange) {
	om.each("OnPhaseChanged", func(o Observer) { o.OnPhaseChanged(change) })
}

// NotifyTimeRemaining notifies all observers of the phase countdown
func (om *ObserverManager) NotifyTimeRemaining(update TimerUpdate) {
	om.each("OnTimeRemaining", func(o Observer) { o.OnTimeRemaining(update) })
}

// NotifyLightOn notifies all observers that a light was switched on
func (om *ObserverManager) NotifyLightOn(signal LightSignal) {
	om.eachExtended("OnLightOn", func(o ExtendedObserver) { o.OnLightOn(signal) })
}

// NotifyLightOff notifies all observers that a light was switched off
func (om *ObserverManager) NotifyLightOff(phase Phase) {
	om.eachExtended("OnLightOff", func(o ExtendedObserver) { o.OnLightOff(phase) })
}

// NotifySimulationStarted notifies all observers that the simulation started
func (om *ObserverManager) NotifySimulationStarted(runID string) {
	om.eachExtended("OnSimulationStarted", func(o ExtendedObserver) { o.OnSimulationStarted(runID) })
}

// NotifySimulationStopped notifies all observers that the simulation stopped
func (om *ObserverManager) NotifySimulationStopped(runID string) {
	om.eachExtended("OnSimulationStopped", func(o ExtendedObserver) { o.OnSimulationStopped(runID) })
}

// NotifyError notifies all observers of errors
func (om *ObserverManager) NotifyError(err error) {
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		if extObs, ok := observer.(ExtendedObserver); ok {
			func() {
				defer func() { recover() }()
				extObs.OnError(err)
			}()
		}
	}
}
