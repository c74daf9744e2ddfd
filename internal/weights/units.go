package weights

import "fmt"

// Unit is a weight unit of measurement.
type Unit string

const (
	Pounds    Unit = "lbs"
	Kilograms Unit = "kg"
)

// Conversion factors. They are not exact reciprocals, so a round trip is only
// stable to within the display increment.
const (
	PoundsToKilograms = 0.453592
	KilogramsToPounds = 2.20462
)

// Standard bar weights.
const (
	BarbellWeightLbs = 45
	BarbellWeightKg  = 20
)

var barWeightOptions = map[Unit][]float64{
	Pounds:    {15, 25, 35, 45, 55},
	Kilograms: {10, 15, 17.5, 20, 25},
}

// ParseUnit validates a unit string.
func ParseUnit(s string) (Unit, error) {
	u := Unit(s)
	if !u.Valid() {
		return "", fmt.Errorf("unknown weight unit %q", s)
	}
	return u, nil
}

// Valid reports whether u is lbs or kg.
func (u Unit) Valid() bool {
	return u == Pounds || u == Kilograms
}

// DefaultBarWeight returns the standard barbell weight for the unit.
func (u Unit) DefaultBarWeight() float64 {
	if u == Kilograms {
		return BarbellWeightKg
	}
	return BarbellWeightLbs
}

// Increment is the display rounding granularity: 0.5 lbs or 0.25 kg.
func (u Unit) Increment() float64 {
	if u == Kilograms {
		return 0.25
	}
	return 0.5
}

// Toggle returns the other unit.
func (u Unit) Toggle() Unit {
	if u == Kilograms {
		return Pounds
	}
	return Kilograms
}

// BarWeightOptions lists the five common bar weights offered for selection.
func (u Unit) BarWeightOptions() []float64 {
	opts := barWeightOptions[u]
	if opts == nil {
		opts = barWeightOptions[Pounds]
	}
	return append([]float64(nil), opts...)
}

// decimals is the number of fractional digits needed to show the increment.
func (u Unit) decimals() int {
	if u == Kilograms {
		return 2
	}
	return 1
}
