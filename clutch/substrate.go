package clutch

import "math"

// MembraneForce is the damped spring force of the membrane for the current
// and previous radius.
func MembraneForce(s *State, cfg Config) float64 {
	strain := (s.Radius - cfg.R0) / cfg.R0
	strainRate := (s.Radius - s.PreviousRadius) / (cfg.R0 * cfg.DeltaT)

	return cfg.H * (cfg.Km*strain + cfg.EtaM*strainRate)
}

// AdvanceSubstrate updates the membrane force and the net force transmitted
// per bound clutch, then moves the radius by one step of net protrusion and
// advances the clock.
//
// If no clutch is bound the net force is NaN and an error wrapping
// ErrNoBoundClutches is returned. The radius and the clock still advance, so
// the caller can decide whether to carry on.
func AdvanceSubstrate(s *State, cfg Config) error {
	var err error

	s.MembraneForce = MembraneForce(s, cfg)

	bound := s.BoundCount()
	if bound == 0 {
		s.NetForce = math.NaN()
		err = ErrNoBoundClutches
	} else {
		s.NetForce = (s.MembraneForce + s.TotalForce()) / float64(bound)
	}

	velocity := cfg.Vp - cfg.Vr
	s.PreviousRadius = s.Radius
	s.Radius += velocity * cfg.DeltaT
	s.ElapsedTime += cfg.DeltaT

	return err
}
