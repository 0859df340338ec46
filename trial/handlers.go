package trial

import (
	"github.com/sarchlab/motorclutch/datarecording"
	"github.com/sarchlab/motorclutch/sim"
)

// ProgressTracker is told about every completed step.
type ProgressTracker interface {
	IncrementFinished(amount uint64)
}

type stepper struct {
	trial     *Trial
	scheduler *sim.TickScheduler
}

func (h *stepper) Name() string {
	return h.trial.name + ".Stepper"
}

func (h *stepper) Handle(_ sim.Event) error {
	t := h.trial

	err := t.model.Tick()

	if t.progress != nil {
		t.progress.IncrementFinished(1)
	}

	if err != nil {
		t.detachments = append(t.detachments, err)
		t.logger.Printf("%s: %v", t.name, err)

		if t.runCfg.HaltOnDetachment {
			t.halted = true
			return err
		}
	}

	h.scheduler.TickLater()

	return nil
}

type sampler struct {
	trial     *Trial
	scheduler *sim.TickScheduler
	recorder  datarecording.DataRecorder
	table     string
}

func (h *sampler) Name() string {
	return h.trial.name + ".Sampler"
}

func (h *sampler) Handle(_ sim.Event) error {
	row := MakeSnapshotRow(h.trial.model.Snapshot())
	h.trial.samples++

	if h.recorder != nil {
		h.recorder.InsertData(h.table, row)
	}

	h.scheduler.TickLater()

	return nil
}

type perturber struct {
	trial     *Trial
	scheduler *sim.TickScheduler
}

func (h *perturber) Name() string {
	return h.trial.name + ".Perturber"
}

func (h *perturber) Handle(_ sim.Event) error {
	h.trial.model.Toggle()
	h.scheduler.TickLater()

	return nil
}

// recorderFlusher writes the buffered samples once the engine has finished.
type recorderFlusher struct {
	recorder datarecording.DataRecorder
}

func (f recorderFlusher) Handle(_ sim.VTimeInCycle) {
	f.recorder.Flush()
}
