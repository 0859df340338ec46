package trial

import (
	"math"

	"github.com/sarchlab/motorclutch/clutch"
	"github.com/sarchlab/motorclutch/sim"
)

// RunConfig controls how long a trial runs and when it is perturbed and
// sampled. All durations are in model time.
type RunConfig struct {
	// TimeLimit is the last time at which the model is still updated.
	TimeLimit float64 `yaml:"time_limit"`

	// TogglePeriod is the period of the stiffness switch. The first switch
	// happens at TogglePeriod, never at t=0. Zero disables switching.
	TogglePeriod float64 `yaml:"toggle_period"`

	// SampleInterval is the period of snapshots, starting at t=0.
	SampleInterval float64 `yaml:"sample_interval"`

	// HaltOnDetachment stops the trial at the first tick with no bound
	// clutch. Otherwise the tick is recorded with a NaN net force and the
	// trial continues.
	HaltOnDetachment bool `yaml:"halt_on_detachment"`
}

// DefaultRunConfig returns a two minute run that switches stiffness every
// minute and samples every second.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		TimeLimit:      121 * 60000,
		TogglePeriod:   60000,
		SampleInterval: 1000,
	}
}

// Validate returns every problem of the run configuration as a
// clutch.ConfigErrors.
func (c RunConfig) Validate() error {
	var errs clutch.ConfigErrors

	check := func(field string, v float64, allowZero bool) {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, clutch.ConfigError{
				Field: field, Value: v, Reason: "must be a finite number"})
		case v < 0 || (v == 0 && !allowZero):
			errs = append(errs, clutch.ConfigError{
				Field: field, Value: v, Reason: "must be positive"})
		}
	}

	check("time_limit", c.TimeLimit, true)
	check("toggle_period", c.TogglePeriod, true)
	check("sample_interval", c.SampleInterval, false)

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// schedule is a RunConfig expressed in engine cycles.
type schedule struct {
	last         sim.VTimeInCycle
	togglePeriod sim.VTimeInCycle
	sampleEvery  sim.VTimeInCycle
}

func (c RunConfig) schedule(clock sim.Clock) (schedule, error) {
	s := schedule{}

	var err error

	s.last, err = clock.LastCycleNotAfter(c.TimeLimit)
	if err != nil {
		return s, err
	}

	s.sampleEvery, err = clock.Cycles(c.SampleInterval)
	if err != nil {
		return s, err
	}

	s.togglePeriod, err = clock.Cycles(c.TogglePeriod)
	if err != nil {
		return s, err
	}

	return s, nil
}

// steps returns the number of model updates a trial performs.
func (s schedule) steps() uint64 {
	return uint64(s.last) + 1
}
