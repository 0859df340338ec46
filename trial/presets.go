package trial

import (
	"fmt"
	"sort"

	"github.com/sarchlab/motorclutch/clutch"
)

// Preset is a named pair of model and run configuration.
type Preset struct {
	Name        string
	Label       string
	Description string
	Model       clutch.Config
	Run         RunConfig
}

const minute = 60000.0

// Presets returns the reference parameter sets, sorted by name. Times are
// in milliseconds.
func Presets() []Preset {
	presets := []Preset{
		makePreset("factor20", "20",
			"softening by 28%, 121 minutes", 0.13, 0.28, 0.18, 121*minute),
		makePreset("factor40", "40",
			"softening by 40%, 30 minutes", 0.137, 0.4, 0.4, 30*minute),
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].Name < presets[j].Name
	})

	return presets
}

// LookupPreset finds a preset by name.
func LookupPreset(name string) (Preset, error) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, nil
		}
	}

	return Preset{}, fmt.Errorf("unknown preset %q", name)
}

func makePreset(
	name, label, description string,
	vp, stiffnessFactor, integrinFactor, timeLimit float64,
) Preset {
	cfg := clutch.DefaultConfig()
	cfg.Vp = vp
	cfg.StiffnessFactor = stiffnessFactor
	cfg.IntegrinFactor = integrinFactor
	cfg.KsScale = clutch.GeometricKsScale

	return Preset{
		Name:        name,
		Label:       label,
		Description: description,
		Model:       cfg,
		Run: RunConfig{
			TimeLimit:      timeLimit,
			TogglePeriod:   minute,
			SampleInterval: 1000,
		},
	}
}
