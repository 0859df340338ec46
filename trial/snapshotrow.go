package trial

import "github.com/sarchlab/motorclutch/clutch"

// SnapshotRow is the row written for every sample.
type SnapshotRow struct {
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
	Mode             string
}

// MakeSnapshotRow converts a snapshot into a row.
func MakeSnapshotRow(s clutch.Snapshot) SnapshotRow {
	return SnapshotRow{
		Time:             s.Time,
		ClutchCount:      s.ClutchCount,
		BoundFraction:    s.BoundFraction,
		MeanForce:        s.MeanForce,
		MeanDisplacement: s.MeanDisplacement,
		MeanDeflection:   s.MeanDeflection,
		Radius:           s.Radius,
		MembraneForce:    s.MembraneForce,
		NetForce:         s.NetForce,
		LoadStiffness:    s.LoadStiffness,
		Mode:             s.Mode.String(),
	}
}
