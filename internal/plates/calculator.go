package plates

import (
	"encoding/json"
	"slices"

	"github.com/claude/liftlog/internal/weights"
)

// Calculator is a snapshot of the plate calculator. Every command returns a
// new snapshot and leaves the receiver untouched.
type Calculator struct {
	Rack             Rack
	Doubled          bool
	IncludeBarWeight bool
	BarWeight        float64
	Unit             weights.Unit
}

// NewCalculator returns an empty calculator that mirrors plates on both sides
// and includes the standard bar for the unit.
func NewCalculator(unit weights.Unit) Calculator {
	return Calculator{
		Doubled:          true,
		IncludeBarWeight: true,
		BarWeight:        unit.DefaultBarWeight(),
		Unit:             unit,
	}
}

// AddPlate loads one plate of the given weight.
func (c Calculator) AddPlate(weight float64) Calculator {
	c.Rack = c.Rack.Add(weight)
	return c
}

// AddPlates loads n plates of the given weight.
func (c Calculator) AddPlates(weight float64, n int) Calculator {
	c.Rack = c.Rack.AddN(weight, n)
	return c
}

// RemovePlate unloads one plate of the given weight.
func (c Calculator) RemovePlate(weight float64) Calculator {
	c.Rack = c.Rack.Remove(weight)
	return c
}

// ClearPlates unloads the bar.
func (c Calculator) ClearPlates() Calculator {
	c.Rack = c.Rack.Clear()
	return c
}

// SetDoubled sets whether plates are mirrored on both sides.
func (c Calculator) SetDoubled(doubled bool) Calculator {
	c.Doubled = doubled
	return c
}

// SetIncludeBarWeight sets whether the bar counts toward the total.
func (c Calculator) SetIncludeBarWeight(include bool) Calculator {
	c.IncludeBarWeight = include
	return c
}

// SetBarWeight sets the bar weight, coercing invalid values to 0.
func (c Calculator) SetBarWeight(w float64) Calculator {
	c.BarWeight = weights.Sanitize(w)
	return c
}

// SetUnit relabels the calculator. A bar weight still at the old unit's
// default follows the new unit's default; plates are left as they are.
func (c Calculator) SetUnit(u weights.Unit) Calculator {
	if c.BarWeight == c.Unit.DefaultBarWeight() {
		c.BarWeight = u.DefaultBarWeight()
	}
	c.Unit = u
	return c
}

// PerSide is the weight loaded on one side.
func (c Calculator) PerSide() float64 {
	return c.Rack.PerSide()
}

// Total is the resolved load on the bar.
func (c Calculator) Total() float64 {
	return TotalWeight(c.Rack.plates, c.BarWeight, c.Doubled, c.IncludeBarWeight)
}

// MarshalJSON renders the snapshot together with its derived views.
func (c Calculator) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Plates           []LoadedPlate `json:"plates"`
		Bar              []float64     `json:"bar"`
		Doubled          bool          `json:"doubled"`
		IncludeBarWeight bool          `json:"include_bar_weight"`
		BarWeight        float64       `json:"bar_weight"`
		Unit             weights.Unit  `json:"unit"`
		PerSide          float64       `json:"per_side"`
		Total            float64       `json:"total"`
		TotalDisplay     string        `json:"total_display"`
	}{
		Plates:           nonNil(c.Rack.Plates()),
		Bar:              nonNilFloats(slices.Collect(Expand(c.Rack.plates))),
		Doubled:          c.Doubled,
		IncludeBarWeight: c.IncludeBarWeight,
		BarWeight:        c.BarWeight,
		Unit:             c.Unit,
		PerSide:          c.PerSide(),
		Total:            c.Total(),
		TotalDisplay:     weights.Format(c.Total(), c.Unit),
	})
}

func nonNil(p []LoadedPlate) []LoadedPlate {
	if p == nil {
		return []LoadedPlate{}
	}
	return p
}

func nonNilFloats(f []float64) []float64 {
	if f == nil {
		return []float64{}
	}
	return f
}
