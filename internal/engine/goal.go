package engine

import "time"

// GoalStatus classifies actual production against the proportional goal.
type GoalStatus string

const (
	StatusOverproduction GoalStatus = "Overproduction"
	StatusOnTarget       GoalStatus = "On target"
	StatusNearTarget     GoalStatus = "Near target"
	StatusOffTarget      GoalStatus = "Off target"
)

// ShiftDuration is the productive span goal math assumes for every shift,
// regardless of the shift's wall-clock window.
const ShiftDuration = 8 * time.Hour

// GoalBand is the absolute width of the classification bands around the
// expected total.
const GoalBand = 100

// Classify computes the proportional expected total for a workstation at a
// moment inside a shift and places the actual total in a status band. The
// expected total grows linearly from 0 at shift start to the full target at
// the 8-hour mark; elapsed time outside [0, 8h] is clamped, so calling this
// before the shift starts or after it ends is safe. Pure function, invoked
// once per (workstation, shift) rollup.
func Classify(actual, target int, shiftStart, now time.Time) (int, GoalStatus) {
	elapsed := now.Sub(shiftStart)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > ShiftDuration {
		elapsed = ShiftDuration
	}

	expected := int(float64(target) / ShiftDuration.Minutes() * elapsed.Minutes())

	switch {
	case actual >= expected+GoalBand:
		return expected, StatusOverproduction
	case actual >= expected:
		return expected, StatusOnTarget
	case actual >= expected-GoalBand:
		return expected, StatusNearTarget
	default:
		return expected, StatusOffTarget
	}
}
