package clutch

// Tick advances the state by one time step:
// binding resampling, recruitment, force balance and substrate motion, in
// that order. A failure inside the step is returned as a *TickError; the
// state has still been advanced.
func Tick(s *State, cfg Config, rng RandSource) error {
	tick, start := s.Ticks, s.ElapsedTime

	ResampleBindings(s, cfg, rng)
	Grow(s, cfg)
	SolveForces(s, cfg)
	err := AdvanceSubstrate(s, cfg)

	s.Ticks++

	if err != nil {
		return &TickError{Tick: tick, Time: start, Err: err}
	}

	return nil
}
