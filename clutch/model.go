package clutch

import (
	"math"

	"github.com/sarchlab/motorclutch/sim"
)

// DefaultSanityBound is the force and deflection magnitude above which a
// model reports a NumericWarning.
const DefaultSanityBound = 1e6

// HookPosAfterTick is triggered after every tick. The hook item is the state
// and the detail is the error of the tick, which may be nil.
var HookPosAfterTick = &sim.HookPos{Name: "AfterTick"}

// HookPosToggle is triggered after a stiffness switch. The hook item is the
// state and the detail is the new Mode.
var HookPosToggle = &sim.HookPos{Name: "Toggle"}

// HookPosNumericInstability is triggered when a force or deflection exceeds
// the sanity bound. The detail is a NumericWarning.
var HookPosNumericInstability = &sim.HookPos{Name: "NumericInstability"}

// Model owns the state of one trial together with its configuration and
// random source.
type Model struct {
	*sim.HookableBase

	name  string
	cfg   Config
	state *State
	rng   RandSource

	// SanityBound is the magnitude that triggers NumericWarnings. Zero or
	// negative disables the check.
	SanityBound float64
}

// NewModel validates the configuration and creates a model at t=0.
func NewModel(name string, cfg Config, rng RandSource) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if rng == nil {
		panic("clutch: model requires a random source")
	}

	return &Model{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		cfg:          cfg,
		state:        NewState(cfg),
		rng:          rng,
		SanityBound:  DefaultSanityBound,
	}, nil
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// Config returns the configuration of the model.
func (m *Model) Config() Config {
	return m.cfg
}

// State returns the live state. Callers must not modify it while the model is
// running.
func (m *Model) State() *State {
	return m.state
}

// Snapshot summarizes the current state.
func (m *Model) Snapshot() Snapshot {
	return TakeSnapshot(m.state)
}

// Tick advances the model by one step.
func (m *Model) Tick() error {
	tick, start := m.state.Ticks, m.state.ElapsedTime

	err := Tick(m.state, m.cfg, m.rng)

	m.checkSanity(tick, start)
	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    HookPosAfterTick,
		Item:   m.state,
		Detail: err,
	})

	return err
}

// Toggle switches the stiffness regime.
func (m *Model) Toggle() {
	Toggle(m.state, m.cfg)

	m.checkSanity(m.state.Ticks, m.state.ElapsedTime)
	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    HookPosToggle,
		Item:   m.state,
		Detail: m.state.Mode,
	})
}

func (m *Model) checkSanity(tick uint64, time float64) {
	if m.SanityBound <= 0 {
		return
	}

	m.reportLargest(tick, time, "force", m.state.Force)
	m.reportLargest(tick, time, "deflection", m.state.Deflection)
}

func (m *Model) reportLargest(
	tick uint64,
	time float64,
	quantity string,
	values []float64,
) {
	index := -1
	largest := m.SanityBound

	for i, v := range values {
		if math.Abs(v) > largest || math.IsNaN(v) {
			index = i
			largest = math.Abs(v)

			if math.IsNaN(v) {
				break
			}
		}
	}

	if index < 0 {
		return
	}

	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    HookPosNumericInstability,
		Item:   m.state,
		Detail: NumericWarning{
			Tick:     tick,
			Time:     time,
			Quantity: quantity,
			Index:    index,
			Value:    values[index],
			Bound:    m.SanityBound,
		},
	})
}
