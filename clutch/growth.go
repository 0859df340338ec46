package clutch

import (
	"fmt"
	"math"
)

// MaxClutchCount is the largest ensemble a model grows to.
const MaxClutchCount = 1 << 24

// TargetClutchCount is the ensemble size that integrin engagement has reached
// at a given time. It saturates at MaxClutchCount.
func TargetClutchCount(cfg Config, elapsed float64) int {
	target := math.Floor(float64(cfg.NC0) + elapsed*cfg.IntegrinEngage)
	if !(target < MaxClutchCount) {
		return MaxClutchCount
	}

	return int(target)
}

// ValidateHorizon checks that the ensemble stays within MaxClutchCount until
// timeLimit.
func (c Config) ValidateHorizon(timeLimit float64) error {
	if math.IsNaN(timeLimit) || math.IsInf(timeLimit, 0) || timeLimit < 0 {
		return nil
	}

	target := math.Floor(float64(c.NC0) + timeLimit*c.IntegrinEngage)
	if target <= MaxClutchCount {
		return nil
	}

	return ConfigErrors{{
		Field: "integrin_engage",
		Value: c.IntegrinEngage,
		Reason: fmt.Sprintf("grows to %g clutches by t=%g, more than %d",
			target, timeLimit, MaxClutchCount),
	}}
}

// Grow recruits new clutches until the ensemble reaches the target size for
// the elapsed time of the state. New clutches are bound, unloaded and carry
// the unloaded binding probability. Grow never removes clutches and returns
// the number of clutches added.
func Grow(s *State, cfg Config) int {
	target := TargetClutchCount(cfg, s.ElapsedTime)
	if target <= s.ClutchCount {
		return 0
	}

	added := target - s.ClutchCount
	s.appendClutches(added, cfg.EquilibriumProbability())

	return added
}
