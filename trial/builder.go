package trial

import (
	"log"
	"os"

	"github.com/sarchlab/motorclutch/clutch"
	"github.com/sarchlab/motorclutch/datarecording"
	"github.com/sarchlab/motorclutch/sim"
)

// Builder can be used to build a trial.
type Builder struct {
	name      string
	cfg       clutch.Config
	runCfg    RunConfig
	seed      int64
	rng       clutch.RandSource
	recorder  datarecording.DataRecorder
	tableName string
	logger    *log.Logger
	logEvents bool
	hooks     []sim.Hook
	progress  ProgressTracker

	sanityBound    float64
	sanityBoundSet bool
}

// MakeBuilder creates a builder with the default model and run
// configuration.
func MakeBuilder() Builder {
	return Builder{
		cfg:    clutch.DefaultConfig(),
		runCfg: DefaultRunConfig(),
	}
}

// WithName sets the name of the trial, which also names the model.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithConfig sets the model configuration.
func (b Builder) WithConfig(cfg clutch.Config) Builder {
	b.cfg = cfg
	return b
}

// WithRunConfig sets the run configuration.
func (b Builder) WithRunConfig(runCfg RunConfig) Builder {
	b.runCfg = runCfg
	return b
}

// WithSeed seeds the random source of the trial. It is ignored if a random
// source is given with WithRandSource.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithRandSource sets the random source of the trial.
func (b Builder) WithRandSource(rng clutch.RandSource) Builder {
	b.rng = rng
	return b
}

// WithRecorder sets the recorder that receives the snapshot rows.
func (b Builder) WithRecorder(recorder datarecording.DataRecorder) Builder {
	b.recorder = recorder
	return b
}

// WithTableName sets the table of the snapshot rows. It defaults to the
// trial name.
func (b Builder) WithTableName(name string) Builder {
	b.tableName = name
	return b
}

// WithLogger sets the logger of the trial.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// WithEventLogging logs every event handled by the engine.
func (b Builder) WithEventLogging() Builder {
	b.logEvents = true
	return b
}

// WithHook attaches a hook to the model.
func (b Builder) WithHook(hook sim.Hook) Builder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], hook)
	return b
}

// WithProgress sets the tracker that counts completed steps.
func (b Builder) WithProgress(progress ProgressTracker) Builder {
	b.progress = progress
	return b
}

// WithSanityBound sets the magnitude that triggers numeric warnings.
func (b Builder) WithSanityBound(bound float64) Builder {
	b.sanityBound = bound
	b.sanityBoundSet = true

	return b
}

// Build validates the configurations and creates the trial.
func (b Builder) Build() (*Trial, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	if err := b.runCfg.Validate(); err != nil {
		return nil, err
	}

	if err := b.cfg.ValidateHorizon(b.runCfg.TimeLimit); err != nil {
		return nil, err
	}

	clock, err := sim.NewClock(b.cfg.DeltaT)
	if err != nil {
		return nil, err
	}

	sched, err := b.runCfg.schedule(clock)
	if err != nil {
		return nil, err
	}

	t := &Trial{
		id:       sim.NewUniqueID(),
		runCfg:   b.runCfg,
		clock:    clock,
		sched:    sched,
		engine:   sim.NewSerialEngine(),
		progress: b.progress,
	}

	t.name = b.name
	if t.name == "" {
		t.name = "trial_" + t.id
	}

	t.logger = b.logger
	if t.logger == nil {
		t.logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	rng := b.rng
	if rng == nil {
		rng = clutch.NewRandSource(b.seed)
	}

	t.model, err = clutch.NewModel(t.name, b.cfg, rng)
	if err != nil {
		return nil, err
	}

	if b.sanityBoundSet {
		t.model.SanityBound = b.sanityBound
	}

	t.model.AcceptHook(NewWarningLogger(t.logger))

	for _, h := range b.hooks {
		t.model.AcceptHook(h)
	}

	if b.logEvents {
		t.engine.AcceptHook(sim.NewEventLogger(t.logger))
	}

	b.buildHandlers(t)

	return t, nil
}

func (b Builder) buildHandlers(t *Trial) {
	table := b.tableName
	if table == "" {
		table = t.name
	}

	step := &stepper{trial: t}
	step.scheduler = sim.NewTickScheduler(
		t.engine, 1, 0, t.sched.last, makeStepEvent(step))
	t.stepper = step

	sample := &sampler{trial: t, recorder: b.recorder, table: table}
	if b.recorder != nil {
		t.engine.RegisterSimulationEndHandler(recorderFlusher{b.recorder})
	}

	sample.scheduler = sim.NewTickScheduler(
		t.engine, t.sched.sampleEvery, 0, t.sched.last, makeSampleEvent(sample))
	t.sampler = sample

	if t.sched.togglePeriod > 0 {
		toggle := &perturber{trial: t}
		toggle.scheduler = sim.NewTickScheduler(
			t.engine, t.sched.togglePeriod, t.sched.togglePeriod,
			t.sched.last, makeToggleEvent(toggle))
		t.perturber = toggle
	}
}
