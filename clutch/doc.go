// Package clutch implements the motor-clutch model of cell-substrate
// mechanical coupling.
//
// A growing ensemble of clutches binds to and unbinds from a substrate that
// moves at the retrograde flow rate. Bound clutches stretch and load a spring
// in series with them, and the ensemble feeds a damped membrane term that
// tracks the substrate radius. Each call to Tick advances one time step:
//
//	ResampleBindings -> Grow -> SolveForces -> AdvanceSubstrate
//
// Toggle switches the load spring between its hard and soft regimes and
// re-equilibrates the springs without advancing time.
//
// A State is owned by a single caller. Independent trials each own a State
// and a RandSource, so they can be run side by side without sharing memory.
package clutch
