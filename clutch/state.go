package clutch

import (
	"fmt"
)

// State is the mutable state of one trial. Every per-clutch slice has exactly
// ClutchCount entries.
type State struct {
	ClutchCount int

	BindingProbability []float64
	Bound              []bool
	Force              []float64

	// Displacement is the distance the substrate side of a clutch travelled
	// since the clutch last bound.
	Displacement []float64

	// Deflection is the load-spring extension attributed to a clutch.
	Deflection []float64

	Radius         float64
	PreviousRadius float64

	MembraneForce float64
	NetForce      float64

	Mode          Mode
	LoadStiffness float64

	ElapsedTime float64
	Ticks       uint64
}

// NewState creates the state of a trial at t=0. All clutches start bound and
// unloaded.
func NewState(cfg Config) *State {
	s := &State{
		Radius:         cfg.Ri,
		PreviousRadius: cfg.Ri,
		Mode:           cfg.InitState,
		LoadStiffness:  cfg.InitialLoadStiffness(),
	}

	s.appendClutches(cfg.NC0, cfg.EquilibriumProbability())

	return s
}

func (s *State) appendClutches(n int, probability float64) {
	for i := 0; i < n; i++ {
		s.BindingProbability = append(s.BindingProbability, probability)
		s.Bound = append(s.Bound, true)
		s.Force = append(s.Force, 0)
		s.Displacement = append(s.Displacement, 0)
		s.Deflection = append(s.Deflection, 0)
	}

	s.ClutchCount += n
}

// BoundCount returns the number of clutches that are currently bound.
func (s *State) BoundCount() int {
	n := 0

	for _, b := range s.Bound {
		if b {
			n++
		}
	}

	return n
}

// TotalForce returns the sum of the forces of all clutches.
func (s *State) TotalForce() float64 {
	sum := 0.0
	for _, f := range s.Force {
		sum += f
	}

	return sum
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.BindingProbability = append([]float64(nil), s.BindingProbability...)
	c.Bound = append([]bool(nil), s.Bound...)
	c.Force = append([]float64(nil), s.Force...)
	c.Displacement = append([]float64(nil), s.Displacement...)
	c.Deflection = append([]float64(nil), s.Deflection...)

	return &c
}

// CheckInvariants verifies the structural invariants of the state: equal
// per-clutch lengths, reset unbound clutches and probabilities in [0, 1].
func (s *State) CheckInvariants() error {
	lengths := map[string]int{
		"binding_probability": len(s.BindingProbability),
		"bound":               len(s.Bound),
		"force":               len(s.Force),
		"displacement":        len(s.Displacement),
		"deflection":          len(s.Deflection),
	}

	for name, l := range lengths {
		if l != s.ClutchCount {
			return fmt.Errorf("clutch: len(%s) = %d, clutch count = %d",
				name, l, s.ClutchCount)
		}
	}

	for i, p := range s.BindingProbability {
		if !(p >= 0 && p <= 1) {
			return fmt.Errorf("clutch: binding_probability[%d] = %g", i, p)
		}
	}

	for i, b := range s.Bound {
		if b {
			continue
		}

		if s.Displacement[i] != 0 || s.Deflection[i] != 0 {
			return fmt.Errorf(
				"clutch: unbound clutch %d has displacement %g, deflection %g",
				i, s.Displacement[i], s.Deflection[i])
		}
	}

	return nil
}
