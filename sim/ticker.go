package sim

import (
	"sync"
)

// EventMaker creates the event that a TickScheduler schedules for a cycle.
type EventMaker func(cycle VTimeInCycle) Event

// TickScheduler can help schedule periodic events. Events are scheduled at
// First, First+Period, First+2*Period, ... and never after Last.
type TickScheduler struct {
	lock   sync.Mutex
	Engine EventScheduler
	Period VTimeInCycle
	First  VTimeInCycle
	Last   VTimeInCycle

	makeEvent    EventMaker
	started      bool
	nextTickTime VTimeInCycle
}

// NewTickScheduler creates a scheduler for periodic events.
func NewTickScheduler(
	engine EventScheduler,
	period, first, last VTimeInCycle,
	makeEvent EventMaker,
) *TickScheduler {
	if period == 0 {
		panic("tick period cannot be 0")
	}

	return &TickScheduler{
		Engine:    engine,
		Period:    period,
		First:     first,
		Last:      last,
		makeEvent: makeEvent,
	}
}

// Start schedules the first event. It returns false if the first event
// would happen after Last.
func (t *TickScheduler) Start() bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.started {
		return false
	}

	t.started = true

	return t.scheduleAt(t.First)
}

// TickLater schedules the event one period after the last scheduled event. It
// returns false if no more events fit before Last.
func (t *TickScheduler) TickLater() bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.started {
		panic("tick scheduler not started")
	}

	return t.scheduleAt(t.nextTickTime + t.Period)
}

// NextTickTime returns the cycle of the latest scheduled event.
func (t *TickScheduler) NextTickTime() VTimeInCycle {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.nextTickTime
}

func (t *TickScheduler) scheduleAt(cycle VTimeInCycle) bool {
	if cycle > t.Last {
		return false
	}

	t.nextTickTime = cycle
	t.Engine.Schedule(t.makeEvent(cycle))

	return true
}
