// Package trial runs one stochastic trial of the motor-clutch model on the
// discrete event engine.
package trial

import (
	"log"

	"github.com/sarchlab/motorclutch/clutch"
	"github.com/sarchlab/motorclutch/sim"
)

// A Trial owns a model, the engine that drives it, and the handlers that
// step, sample, and perturb the model.
type Trial struct {
	id     string
	name   string
	runCfg RunConfig
	clock  sim.Clock
	sched  schedule

	engine *sim.SerialEngine
	model  *clutch.Model
	logger *log.Logger

	stepper   *stepper
	sampler   *sampler
	perturber *perturber
	progress  ProgressTracker

	started     bool
	halted      bool
	samples     int
	detachments []error
}

// ID returns the unique id of the trial.
func (t *Trial) ID() string {
	return t.id
}

// Name returns the name of the trial.
func (t *Trial) Name() string {
	return t.name
}

// Model returns the model driven by the trial.
func (t *Trial) Model() *clutch.Model {
	return t.model
}

// Engine returns the engine of the trial.
func (t *Trial) Engine() sim.Engine {
	return t.engine
}

// Clock returns the mapping between model time and engine cycles.
func (t *Trial) Clock() sim.Clock {
	return t.clock
}

// TotalSteps returns the number of model updates of a complete run.
func (t *Trial) TotalSteps() uint64 {
	return t.sched.steps()
}

// Samples returns the number of snapshots taken so far.
func (t *Trial) Samples() int {
	return t.samples
}

// Halted tells if the trial stopped early because every clutch detached.
func (t *Trial) Halted() bool {
	return t.halted
}

// Detachments returns the errors of all ticks during which no clutch was
// bound.
func (t *Trial) Detachments() []error {
	return append([]error(nil), t.detachments...)
}

// Run creates the snapshot table, schedules the periodic events, and runs the
// engine until the time limit. The recorder is flushed when the engine
// finishes, also after a halt. A trial can only run once.
func (t *Trial) Run() error {
	if t.started {
		panic("trial already started")
	}

	t.started = true

	if t.sampler.recorder != nil {
		t.sampler.recorder.CreateTable(t.sampler.table, SnapshotRow{})
	}

	if t.perturber != nil {
		t.perturber.scheduler.Start()
	}

	t.sampler.scheduler.Start()
	t.stepper.scheduler.Start()

	err := t.engine.Run()

	t.engine.Finished()

	return err
}
