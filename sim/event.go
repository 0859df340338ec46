package sim

// VTimeInCycle is the simulated time counted in engine cycles. One cycle is
// one model integration step.
type VTimeInCycle uint64

// An Event is something going to happen in the future.
type Event interface {
	// Return the cycle that the event should happen
	Time() VTimeInCycle

	// Returns the handler that can should handle the event
	Handler() Handler

	// Priority orders events that happen in the same cycle. Lower values run
	// first.
	Priority() int
}

// EventBase provides the basic fields and getters for other events
type EventBase struct {
	ID       string
	time     VTimeInCycle
	handler  Handler
	priority int
}

// MakeEventBase creates an EventBase value with a given priority.
func MakeEventBase(t VTimeInCycle, handler Handler, priority int) EventBase {
	return EventBase{
		ID:       GetIDGenerator().Generate(),
		time:     t,
		handler:  handler,
		priority: priority,
	}
}

// Time return the cycle that the event is going to happen
func (e EventBase) Time() VTimeInCycle {
	return e.time
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// Priority returns the same-cycle ordering key of the event.
func (e EventBase) Priority() int {
	return e.priority
}

// A Handler defines a domain for the events.
//
// One event is always constraint to one Handler, which means the event can
// only be scheduled by one handler and can only directly modify that handler.
type Handler interface {
	Handle(e Event) error
}
