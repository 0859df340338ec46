package clutch

// SolveForces moves the substrate end of every bound clutch by one step of
// retrograde flow, resets the unbound clutches and relaxes the spring pair.
func SolveForces(s *State, cfg Config) {
	step := cfg.Vr * cfg.DeltaT

	for i, b := range s.Bound {
		if b {
			s.Displacement[i] += step
			continue
		}

		s.Displacement[i] = 0
		s.Deflection[i] = 0
	}

	Relax(s, cfg.Kc)
}

// Relax performs one relaxation step of each clutch spring (stiffness kc)
// against the load spring (s.LoadStiffness), then recomputes clutch forces.
//
// The deflection moves by (fc - fs)/(kc + ks), a single step toward
// equilibrium rather than the closed form solution. Unbound clutches are
// masked out of both spring forces.
func Relax(s *State, kc float64) {
	ks := s.LoadStiffness

	for i, b := range s.Bound {
		if !b {
			continue
		}

		fc := kc * (s.Displacement[i] - s.Deflection[i])
		fs := ks * s.Deflection[i]
		s.Deflection[i] += (fc - fs) / (kc + ks)
	}

	for i := range s.Force {
		s.Force[i] = kc * (s.Displacement[i] - s.Deflection[i])
	}
}
