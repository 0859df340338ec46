package clutch

// Toggle switches the load spring between the hard and soft regimes and
// relaxes the springs once at the new stiffness. Displacements and time do
// not move.
func Toggle(s *State, cfg Config) {
	switch s.Mode {
	case Hard:
		s.LoadStiffness *= 1 - cfg.StiffnessFactor
		s.Mode = Soft
	default:
		s.LoadStiffness /= 1 - cfg.StiffnessFactor
		s.Mode = Hard
	}

	Relax(s, cfg.Kc)
}
