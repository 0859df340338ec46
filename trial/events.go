package trial

import "github.com/sarchlab/motorclutch/sim"

// Events that happen in the same cycle run in the order toggle, sample, step.
const (
	PriorityToggle = iota
	PrioritySample
	PriorityStep
)

// A ToggleEvent switches the stiffness regime of the load spring.
type ToggleEvent struct {
	sim.EventBase
}

// A SampleEvent records a snapshot of the model.
type SampleEvent struct {
	sim.EventBase
}

// A StepEvent advances the model by one time step.
type StepEvent struct {
	sim.EventBase
}

func makeToggleEvent(handler sim.Handler) sim.EventMaker {
	return func(cycle sim.VTimeInCycle) sim.Event {
		return ToggleEvent{sim.MakeEventBase(cycle, handler, PriorityToggle)}
	}
}

func makeSampleEvent(handler sim.Handler) sim.EventMaker {
	return func(cycle sim.VTimeInCycle) sim.Event {
		return SampleEvent{sim.MakeEventBase(cycle, handler, PrioritySample)}
	}
}

func makeStepEvent(handler sim.Handler) sim.EventMaker {
	return func(cycle sim.VTimeInCycle) sim.Event {
		return StepEvent{sim.MakeEventBase(cycle, handler, PriorityStep)}
	}
}
