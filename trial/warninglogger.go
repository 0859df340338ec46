package trial

import (
	"log"

	"github.com/sarchlab/motorclutch/clutch"
	"github.com/sarchlab/motorclutch/sim"
)

// WarningLogger is a hook that logs numeric warnings and stiffness switches
// of a model.
type WarningLogger struct {
	sim.LogHookBase
}

// NewWarningLogger creates a WarningLogger that writes into the logger.
func NewWarningLogger(logger *log.Logger) *WarningLogger {
	h := new(WarningLogger)
	h.Logger = logger

	return h
}

// Func writes the warning or the switch into the logger.
func (h *WarningLogger) Func(ctx sim.HookCtx) {
	name := "model"
	if named, ok := ctx.Domain.(sim.Named); ok {
		name = named.Name()
	}

	switch ctx.Pos {
	case clutch.HookPosNumericInstability:
		w, ok := ctx.Detail.(clutch.NumericWarning)
		if ok {
			h.Printf("%s: warning: %s", name, w)
		}
	case clutch.HookPosToggle:
		s, ok := ctx.Item.(*clutch.State)
		if ok {
			h.Printf("%s: t=%g switched to %s, ks=%g",
				name, s.ElapsedTime, s.Mode, s.LoadStiffness)
		}
	}
}
