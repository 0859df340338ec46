package clutch

import "math"

// Snapshot is the read-only summary of a state that is written out at
// sampling points. Means are taken over all clutches, bound or not.
type Snapshot struct {
	Time             float64
	ClutchCount      int
	BoundFraction    float64
	MeanForce        float64
	MeanDisplacement float64
	MeanDeflection   float64
	Radius           float64
	MembraneForce    float64
	NetForce         float64
	LoadStiffness    float64
	Mode             Mode
}

// TakeSnapshot summarizes the state. The means of an empty ensemble are NaN.
func TakeSnapshot(s *State) Snapshot {
	return Snapshot{
		Time:             s.ElapsedTime,
		ClutchCount:      s.ClutchCount,
		BoundFraction:    meanBool(s.Bound),
		MeanForce:        mean(s.Force),
		MeanDisplacement: mean(s.Displacement),
		MeanDeflection:   mean(s.Deflection),
		Radius:           s.Radius,
		MembraneForce:    s.MembraneForce,
		NetForce:         s.NetForce,
		LoadStiffness:    s.LoadStiffness,
		Mode:             s.Mode,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

func meanBool(values []bool) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}

	return float64(n) / float64(len(values))
}
