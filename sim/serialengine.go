package sim

import (
	"fmt"
	"log"
	"reflect"
	"sync"
)

// A SerialEngine handles one event at a time, ordered by cycle, priority, and
// scheduling order.
type SerialEngine struct {
	*HookableBase

	nowLock sync.RWMutex
	now     VTimeInCycle

	queue EventQueue

	// gate is held while an event is handled and while the engine is paused.
	gate       sync.Mutex
	pausedLock sync.Mutex
	paused     bool

	runLock sync.Mutex

	endHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine with an empty queue at cycle 0.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		HookableBase: NewHookableBase(),
		queue:        NewEventQueue(),
	}
}

// Schedule adds an event to the queue. It panics if the event is earlier than
// the current cycle.
func (e *SerialEngine) Schedule(evt Event) {
	if now := e.CurrentTime(); evt.Time() < now {
		log.Panicf("cannot schedule %s @ %d, now %d",
			reflect.TypeOf(evt), evt.Time(), now)
	}

	e.queue.Push(evt)
}

// CurrentTime returns the cycle of the event being handled, or of the last
// handled event.
func (e *SerialEngine) CurrentTime() VTimeInCycle {
	e.nowLock.RLock()
	defer e.nowLock.RUnlock()

	return e.now
}

func (e *SerialEngine) advanceTo(t VTimeInCycle) {
	e.nowLock.Lock()
	defer e.nowLock.Unlock()

	if t < e.now {
		panic(fmt.Sprintf("cannot move back from cycle %d to %d", e.now, t))
	}

	e.now = t
}

// Run handles the scheduled events. When a handler returns an error, Run
// stops and returns it. The remaining events stay in the queue.
func (e *SerialEngine) Run() error {
	e.runLock.Lock()
	defer e.runLock.Unlock()

	for e.queue.Len() > 0 {
		if err := e.handleNext(); err != nil {
			return err
		}
	}

	return nil
}

func (e *SerialEngine) handleNext() error {
	e.gate.Lock()
	defer e.gate.Unlock()

	evt := e.queue.Pop()
	e.advanceTo(evt.Time())

	ctx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: evt}
	e.InvokeHook(ctx)

	err := evt.Handler().Handle(evt)

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)

	if err != nil {
		return fmt.Errorf("%s @ cycle %d: %w", reflect.TypeOf(evt), evt.Time(), err)
	}

	return nil
}

// Pause waits for the event in progress and stops the engine before the next
// one. Pausing a paused engine does nothing.
func (e *SerialEngine) Pause() {
	e.pausedLock.Lock()
	defer e.pausedLock.Unlock()

	if !e.paused {
		e.gate.Lock()
		e.paused = true
	}
}

// Continue resumes a paused engine.
func (e *SerialEngine) Continue() {
	e.pausedLock.Lock()
	defer e.pausedLock.Unlock()

	if e.paused {
		e.paused = false
		e.gate.Unlock()
	}
}

// IsPaused tells if the engine is paused.
func (e *SerialEngine) IsPaused() bool {
	e.pausedLock.Lock()
	defer e.pausedLock.Unlock()

	return e.paused
}

// RegisterSimulationEndHandler adds a handler that Finished calls.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.endHandlers = append(e.endHandlers, handler)
}

// Finished calls the end handlers in registration order.
func (e *SerialEngine) Finished() {
	now := e.CurrentTime()

	for _, h := range e.endHandlers {
		h.Handle(now)
	}
}
