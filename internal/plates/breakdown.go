package plates

import (
	"math"
	"slices"
)

// Breakdown suggests the plates to load for a target total. Plates are chosen
// greedily from the heaviest denomination down. Remainder is the part of the
// target that the catalog cannot make up exactly (always >= 0); a target at
// or below the bar weight loads nothing.
type Breakdown struct {
	Target    float64       `json:"target"`
	PerSide   float64       `json:"per_side"`
	Plates    []LoadedPlate `json:"plates"`
	Remainder float64       `json:"remainder"`
}

// epsilon absorbs float drift from fractional plates like 1.25.
const epsilon = 1e-9

// Suggest computes a Breakdown for target. A nil catalog uses Catalog.
func Suggest(target, barWeight float64, doubled bool, catalog []float64) Breakdown {
	if catalog == nil {
		catalog = Catalog
	}
	denoms := slices.Clone(catalog)
	slices.SortFunc(denoms, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})

	sides := 1.0
	if doubled {
		sides = 2
	}
	load := target - barWeight
	if load < 0 {
		load = 0
	}
	need := load / sides

	var rack Rack
	for _, d := range denoms {
		if d <= 0 {
			continue
		}
		for need+epsilon >= d {
			rack = rack.Add(d)
			need -= d
		}
	}

	perSide := rack.PerSide()
	remainder := load - perSide*sides
	if math.Abs(remainder) < epsilon || remainder < 0 {
		remainder = 0
	}
	return Breakdown{
		Target:    target,
		PerSide:   perSide,
		Plates:    nonNil(rack.Plates()),
		Remainder: remainder,
	}
}
