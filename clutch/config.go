package clutch

import (
	"fmt"
	"math"
	"strings"
)

// Mode is the stiffness regime of the load spring.
type Mode int

// The two stiffness regimes.
const (
	Hard Mode = iota
	Soft
)

func (m Mode) String() string {
	switch m {
	case Hard:
		return "hard"
	case Soft:
		return "soft"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "hard" or "soft", ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hard":
		return Hard, nil
	case "soft":
		return Soft, nil
	default:
		return Hard, fmt.Errorf("clutch: unknown mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != Hard && m != Soft {
		return nil, fmt.Errorf("clutch: unknown mode %d", int(m))
	}

	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}

	*m = mode

	return nil
}

// GeometricKsScale is the geometric factor pi*0.15/(1+0.5) that the preset
// parameter sets apply to the load-spring stiffness.
const GeometricKsScale = math.Pi * 0.15 / 1.5

// Config is the parameter record of the model. Rates are per time unit of
// DeltaT, forces in pN, lengths in nm.
type Config struct {
	// NC0 is the number of clutches at t=0.
	NC0 int `yaml:"nc0"`

	// ROn0 and ROff0 are the unloaded binding and unbinding rates.
	ROn0  float64 `yaml:"r0_on"`
	ROff0 float64 `yaml:"r0_off"`

	// Fcr is the mean force above which binding is force assisted, with
	// slope Alpha.
	Fcr   float64 `yaml:"fcr"`
	Alpha float64 `yaml:"alpha"`

	// Fb is the characteristic slip-bond rupture force.
	Fb float64 `yaml:"fb"`

	DeltaT float64 `yaml:"delta_t"`

	// Vr is the retrograde flow velocity.
	Vr float64 `yaml:"vr"`

	// Kc and Ks are the clutch and load spring stiffnesses.
	Kc float64 `yaml:"kc"`
	Ks float64 `yaml:"ks"`

	// R0 is the rest radius, Ri the initial radius.
	R0 float64 `yaml:"r0"`
	Ri float64 `yaml:"ri"`

	// Km and EtaM are the membrane stiffness and damping, H the geometric
	// scale of the membrane force.
	Km   float64 `yaml:"km"`
	EtaM float64 `yaml:"eta_m"`
	H    float64 `yaml:"h"`

	// Vp is the protrusion (polymerization) velocity.
	Vp float64 `yaml:"vp"`

	InitState Mode `yaml:"init_state"`

	// StiffnessFactor is the fraction of Ks lost when switching to the soft
	// regime.
	StiffnessFactor float64 `yaml:"stiffness_factor"`

	// IntegrinFactor is carried with the parameter set; the dynamics do not
	// read it.
	IntegrinFactor float64 `yaml:"integrin_factor"`

	// IntegrinEngage is the number of clutches recruited per time unit.
	IntegrinEngage float64 `yaml:"integrin_engage"`

	// KsScale multiplies Ks once at initialization. Zero means 1.
	KsScale float64 `yaml:"ks_scale,omitempty"`
}

// DefaultConfig returns the reference parameter set.
func DefaultConfig() Config {
	return Config{
		NC0:             75,
		ROn0:            0.001,
		ROff0:           0.0001,
		Fcr:             3.0,
		Alpha:           0.2,
		Fb:              2.0,
		DeltaT:          5,
		Vr:              0.12,
		Kc:              5.0,
		Ks:              2.2,
		R0:              5000,
		Ri:              20000,
		Km:              0.1,
		EtaM:            100000,
		H:               200,
		Vp:              0.13,
		InitState:       Hard,
		StiffnessFactor: 0.28,
		IntegrinFactor:  0.18,
		IntegrinEngage:  75 * 5e-8,
	}
}

// EquilibriumProbability is the unloaded binding probability given to new
// clutches.
func (c Config) EquilibriumProbability() float64 {
	return c.ROn0 / (c.ROn0 + c.ROff0)
}

// InitialLoadStiffness is the load-spring stiffness at the start of a trial.
func (c Config) InitialLoadStiffness() float64 {
	if c.KsScale == 0 {
		return c.Ks
	}

	return c.Ks * c.KsScale
}

// Validate returns nil if the configuration can be simulated. Otherwise it
// returns a ConfigErrors listing every problem found.
func (c Config) Validate() error {
	v := validator{}

	if c.NC0 < 0 {
		v.fail("nc0", c.NC0, "must not be negative")
	}

	v.positive("r0_on", c.ROn0)
	v.positive("r0_off", c.ROff0)
	v.positive("fb", c.Fb)
	v.positive("delta_t", c.DeltaT)
	v.positive("kc", c.Kc)
	v.positive("r0", c.R0)

	v.nonNegative("fcr", c.Fcr)
	v.nonNegative("alpha", c.Alpha)
	v.nonNegative("ks", c.Ks)
	v.nonNegative("km", c.Km)
	v.nonNegative("eta_m", c.EtaM)
	v.nonNegative("h", c.H)
	v.nonNegative("integrin_engage", c.IntegrinEngage)
	v.nonNegative("ks_scale", c.KsScale)

	v.finite("vr", c.Vr)
	v.finite("vp", c.Vp)
	v.finite("ri", c.Ri)

	if v.finite("stiffness_factor", c.StiffnessFactor) &&
		(c.StiffnessFactor < 0 || c.StiffnessFactor >= 1) {
		v.fail("stiffness_factor", c.StiffnessFactor, "must be in [0, 1)")
	}

	if v.finite("integrin_factor", c.IntegrinFactor) &&
		(c.IntegrinFactor < 0 || c.IntegrinFactor > 1) {
		v.fail("integrin_factor", c.IntegrinFactor, "must be in [0, 1]")
	}

	if c.InitState != Hard && c.InitState != Soft {
		v.fail("init_state", c.InitState, "must be hard or soft")
	}

	if len(v.errs) == 0 {
		return nil
	}

	return v.errs
}

type validator struct {
	errs ConfigErrors
}

func (v *validator) fail(field string, value any, reason string) {
	v.errs = append(v.errs, ConfigError{
		Field:  field,
		Value:  value,
		Reason: reason,
	})
}

func (v *validator) finite(field string, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		v.fail(field, value, "must be a finite number")
		return false
	}

	return true
}

func (v *validator) positive(field string, value float64) {
	if v.finite(field, value) && value <= 0 {
		v.fail(field, value, "must be positive")
	}
}

func (v *validator) nonNegative(field string, value float64) {
	if v.finite(field, value) && value < 0 {
		v.fail(field, value, "must not be negative")
	}
}
