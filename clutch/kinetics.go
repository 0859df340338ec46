package clutch

import "math"

// MeanBoundForce returns the average force over the bound clutches, or 0 if
// no clutch is bound.
func MeanBoundForce(s *State) float64 {
	sum := 0.0
	n := 0

	for i, b := range s.Bound {
		if b {
			sum += s.Force[i]
			n++
		}
	}

	if n == 0 {
		return 0
	}

	return sum / float64(n)
}

// OnRate is the binding rate for a mean bound force. Above the critical force
// binding is assisted linearly.
func OnRate(cfg Config, meanForce float64) float64 {
	if meanForce <= cfg.Fcr {
		return cfg.ROn0
	}

	return cfg.ROn0 * (1 + cfg.Alpha*(meanForce-cfg.Fcr))
}

// OffRate is the slip-bond unbinding rate of a clutch under a force.
func OffRate(cfg Config, force float64) float64 {
	return cfg.ROff0 * math.Exp(force/cfg.Fb)
}

// BindingProbability is the probability of a clutch being bound given the
// on rate and its off rate. Overflowing off rates give 0.
func BindingProbability(onRate, offRate float64) float64 {
	if math.IsInf(offRate, 1) {
		return 0
	}

	p := onRate / (onRate + offRate)
	if math.IsNaN(p) {
		return 0
	}

	return p
}

// ResampleBindings recomputes the binding probability of each clutch from the
// forces of the previous tick and redraws the whole binding mask. Every
// clutch consumes exactly one draw, in index order. It returns the mean bound
// force used for the on rate.
func ResampleBindings(s *State, cfg Config, rng RandSource) float64 {
	meanForce := MeanBoundForce(s)
	onRate := OnRate(cfg, meanForce)

	for i := range s.BindingProbability {
		s.BindingProbability[i] = BindingProbability(
			onRate, OffRate(cfg, s.Force[i]))
	}

	for i := range s.Bound {
		s.Bound[i] = rng.Float64() < s.BindingProbability[i]
	}

	return meanForce
}
