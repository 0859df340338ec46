package sim

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrZeroStep is returned when a clock is created with a non-positive
	// step.
	ErrZeroStep = errors.New("sim: clock step must be positive")

	// ErrTickPrecisionLoss is returned when a duration is not a whole number
	// of clock steps.
	ErrTickPrecisionLoss = errors.New("sim: duration is not aligned to the clock step")

	// ErrNegativeDuration is returned when a negative duration is converted.
	ErrNegativeDuration = errors.New("sim: negative durations are not supported")
)

// Clock maps model time onto engine cycles. One cycle lasts exactly one step
// of model time, so the engine never accumulates floating point drift.
type Clock struct {
	step float64
}

// NewClock creates a clock whose cycle lasts step units of model time.
func NewClock(step float64) (Clock, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return Clock{}, fmt.Errorf("%w: %g", ErrZeroStep, step)
	}

	return Clock{step: step}, nil
}

// Step returns the model time of one cycle.
func (c Clock) Step() float64 {
	return c.step
}

// Time converts a cycle into model time.
func (c Clock) Time(cycle VTimeInCycle) float64 {
	return float64(cycle) * c.step
}

// Cycles converts a duration into a number of cycles. The duration must be a
// whole number of steps.
//
//	duration
//	|--------------|
//	|----|----|----|----->
//	          3 cycles
func (c Clock) Cycles(duration float64) (VTimeInCycle, error) {
	if err := c.durationMustBeValid(duration); err != nil {
		return 0, err
	}

	scaled := duration / c.step
	rounded := math.Round(scaled)

	if math.Abs(scaled-rounded) > alignmentTolerance(scaled) {
		return 0, fmt.Errorf("%w: duration %.12g, step %.12g",
			ErrTickPrecisionLoss, duration, c.step)
	}

	return VTimeInCycle(rounded), nil
}

// LastCycleNotAfter returns the last cycle whose time does not exceed the
// given time.
//
//	               t
//	|----|----|----|-+--|----->
//	               |
//	               Output
func (c Clock) LastCycleNotAfter(t float64) (VTimeInCycle, error) {
	if err := c.durationMustBeValid(t); err != nil {
		return 0, err
	}

	scaled := t / c.step

	return VTimeInCycle(math.Floor(scaled + alignmentTolerance(scaled))), nil
}

func (c Clock) durationMustBeValid(d float64) error {
	if c.step == 0 {
		return ErrZeroStep
	}

	if math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("sim: invalid duration %g", d)
	}

	if d < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeDuration, d)
	}

	return nil
}

func alignmentTolerance(scaled float64) float64 {
	return 1e-9 * math.Max(1, math.Abs(scaled))
}
