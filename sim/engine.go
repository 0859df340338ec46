package sim

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTimeInCycle
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	Schedule(e Event)
}

// A SimulationEndHandler runs once a run is over. It receives the cycle of
// the last handled event.
type SimulationEndHandler interface {
	Handle(now VTimeInCycle)
}

// An Engine drives the events of one trial.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run handles events until the queue is empty or a handler fails.
	Run() error

	// Pause blocks until the event in progress is handled and keeps the
	// engine from handling more events until Continue is called. While the
	// engine is paused, the state its handlers own can be read safely.
	Pause()

	// Continue resumes a paused engine.
	Continue()

	// IsPaused tells if Pause is in effect.
	IsPaused() bool

	// RegisterSimulationEndHandler adds a handler that Finished calls.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished tells the end handlers that the run is over.
	Finished()
}
