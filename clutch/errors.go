package clutch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoBoundClutches is reported when a quantity that averages over the
	// bound clutches is computed while every clutch is detached.
	ErrNoBoundClutches = errors.New("clutch: no bound clutches")

	// ErrInvalidConfig is matched by every configuration error.
	ErrInvalidConfig = errors.New("clutch: invalid configuration")
)

// ConfigError describes one configuration field that is missing or out of
// its domain.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Reason, e.Value)
}

// Is makes errors.Is(err, ErrInvalidConfig) hold.
func (e ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// ConfigErrors is the collection of all the problems found in one
// configuration.
type ConfigErrors []ConfigError

func (e ConfigErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d configuration errors:", len(e))

	for i, err := range e {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, err.Error())
	}

	return sb.String()
}

// Is makes errors.Is(err, ErrInvalidConfig) hold.
func (e ConfigErrors) Is(target error) bool {
	return target == ErrInvalidConfig
}

// TickError attaches the position in the run to a failure that happened
// inside one tick.
type TickError struct {
	Tick uint64
	Time float64
	Err  error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%g): %v", e.Tick, e.Time, e.Err)
}

func (e *TickError) Unwrap() error {
	return e.Err
}

// NumericWarning reports a per-clutch quantity whose magnitude went beyond
// the sanity bound of the model. It usually means the time step is too large
// for the spring constants in use.
type NumericWarning struct {
	Tick     uint64
	Time     float64
	Quantity string
	Index    int
	Value    float64
	Bound    float64
}

func (w NumericWarning) String() string {
	return fmt.Sprintf(
		"tick %d (t=%g): |%s[%d]| = %g exceeds %g",
		w.Tick, w.Time, w.Quantity, w.Index, w.Value, w.Bound)
}
