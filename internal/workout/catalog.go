package workout

import (
	"github.com/claude/liftlog/internal/plates"
	"github.com/claude/liftlog/internal/weights"
)

// PlateInfo is a plate denomination and its display colour.
type PlateInfo struct {
	Weight float64 `json:"weight"`
	Colour string  `json:"colour"`
}

// UnitInfo describes the bar and rounding defaults of a unit.
type UnitInfo struct {
	DefaultBarWeight float64   `json:"default_bar_weight"`
	Increment        float64   `json:"increment"`
	BarWeightOptions []float64 `json:"bar_weight_options"`
}

// Catalog is everything a client needs to render pickers.
type Catalog struct {
	Plates    []PlateInfo               `json:"plates"`
	Equipment []weights.Equipment       `json:"equipment"`
	Units     map[weights.Unit]UnitInfo `json:"units"`
	Series    []Series                  `json:"series"`
	Exercises []Template                `json:"exercises"`
}

func NewCatalog() Catalog {
	c := Catalog{
		Equipment: weights.AllEquipment(),
		Units:     make(map[weights.Unit]UnitInfo, 2),
		Series:    append([]Series(nil), SeriesOptions...),
		Exercises: Templates(),
	}
	for _, w := range plates.Catalog {
		c.Plates = append(c.Plates, PlateInfo{Weight: w, Colour: plates.Colour(w)})
	}
	for _, u := range []weights.Unit{weights.Pounds, weights.Kilograms} {
		c.Units[u] = UnitInfo{
			DefaultBarWeight: u.DefaultBarWeight(),
			Increment:        u.Increment(),
			BarWeightOptions: u.BarWeightOptions(),
		}
	}
	return c
}
