// Package weights converts between per-side and total set weight and between
// pounds and kilograms. Every function is pure; callers are expected to have
// already coerced user input to finite numbers (see Input and Sanitize).
package weights

import (
	"math"
	"strconv"
)

// EffectiveBarWeight returns the bar weight used for a set. A custom bar
// weight always wins, even for equipment that normally has no bar.
func EffectiveBarWeight(e Equipment, u Unit, custom *float64) float64 {
	if custom != nil {
		return *custom
	}
	if UsesBarWeight(e) {
		return u.DefaultBarWeight()
	}
	return 0
}

// TotalFromPerSide derives the total load of a set from its per-side weight.
// This is the canonical derivation; the result is neither clamped nor rounded.
func TotalFromPerSide(perSide float64, e Equipment, u Unit, custom *float64) float64 {
	switch e {
	case Barbell, TrapBar:
		return perSide*2 + EffectiveBarWeight(e, u, custom)
	case Dumbbell:
		// a pair
		return perSide * 2
	case Kettlebell:
		// a single implement
		return perSide
	case Landmine:
		return perSide + EffectiveBarWeight(e, u, custom)
	default:
		return perSide
	}
}

// PerSideFromTotal is the algebraic inverse of TotalFromPerSide.
func PerSideFromTotal(total float64, e Equipment, u Unit, custom *float64) float64 {
	switch e {
	case Barbell, TrapBar:
		return (total - EffectiveBarWeight(e, u, custom)) / 2
	case Dumbbell:
		return total / 2
	case Kettlebell:
		return total
	case Landmine:
		return total - EffectiveBarWeight(e, u, custom)
	default:
		return total
	}
}

// Convert converts a weight between units.
func Convert(w float64, from, to Unit) float64 {
	if from == to {
		return w
	}
	switch {
	case from == Pounds && to == Kilograms:
		return w * PoundsToKilograms
	case from == Kilograms && to == Pounds:
		return w * KilogramsToPounds
	}
	return w
}

// Round rounds to the unit's increment, half away from zero.
func Round(w float64, u Unit) float64 {
	steps := 1 / u.Increment()
	return math.Round(w*steps) / steps
}

// Format rounds w for display and appends the unit label, e.g. "137.5 lbs"
// or "61.25 kg". Whole numbers are shown without decimals.
func Format(w float64, u Unit) string {
	r := Round(w, u)
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 0, 64) + " " + string(u)
	}
	return strconv.FormatFloat(r, 'f', u.decimals(), 64) + " " + string(u)
}

// Display converts a stored weight to the display unit and formats it.
func Display(w float64, stored, display Unit) string {
	return Format(Convert(w, stored, display), display)
}

// Sanitize maps NaN and infinities to 0.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
