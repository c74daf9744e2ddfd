// Package plates tracks the plates loaded on a calculator bar and resolves the
// resulting load.
package plates

import (
	"iter"
	"slices"
)

// MaxPlateCount caps how many plates of one weight a single request may load.
const MaxPlateCount = 100

// Catalog lists the plate denominations offered on the rack, heaviest first.
var Catalog = []float64{55, 45, 35, 25, 15, 10, 5, 2.5, 1.25}

var colours = map[float64]string{
	55:   "red",
	45:   "blue",
	35:   "yellow",
	25:   "green",
	15:   "black",
	10:   "black",
	5:    "blue",
	2.5:  "green",
	1.25: "off-white",
}

// Colour returns the display colour of a plate, or "" for weights outside
// the catalog. It has no effect on any calculation.
func Colour(weight float64) string {
	return colours[weight]
}

// LoadedPlate is a plate denomination and how many of it are loaded.
type LoadedPlate struct {
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// Rack is an immutable collection of loaded plates keyed by weight. It never
// holds two entries for the same weight or an entry with a zero count.
// The zero value is an empty rack.
type Rack struct {
	plates []LoadedPlate
}

// NewRack builds a rack from arbitrary entries, merging duplicate weights and
// dropping non-positive counts.
func NewRack(entries []LoadedPlate) Rack {
	var r Rack
	for _, e := range entries {
		r = r.AddN(e.Weight, e.Count)
	}
	return r
}

func (r Rack) index(weight float64) int {
	return slices.IndexFunc(r.plates, func(p LoadedPlate) bool { return p.Weight == weight })
}

// Add loads one more plate of the given weight.
func (r Rack) Add(weight float64) Rack {
	return r.AddN(weight, 1)
}

// AddN loads n more plates of the given weight. Non-positive n is a no-op.
func (r Rack) AddN(weight float64, n int) Rack {
	if n <= 0 {
		return r
	}
	next := slices.Clone(r.plates)
	if i := r.index(weight); i >= 0 {
		next[i].Count += n
		return Rack{plates: next}
	}
	return Rack{plates: append(next, LoadedPlate{Weight: weight, Count: n})}
}

// Remove unloads one plate of the given weight. Removing the last plate of a
// weight deletes its entry; removing an absent weight is a no-op.
func (r Rack) Remove(weight float64) Rack {
	i := r.index(weight)
	if i < 0 {
		return r
	}
	if r.plates[i].Count <= 1 {
		return Rack{plates: slices.Delete(slices.Clone(r.plates), i, i+1)}
	}
	next := slices.Clone(r.plates)
	next[i].Count--
	return Rack{plates: next}
}

// Clear unloads every plate.
func (r Rack) Clear() Rack {
	return Rack{}
}

// Count returns how many plates of the given weight are loaded.
func (r Rack) Count(weight float64) int {
	if i := r.index(weight); i >= 0 {
		return r.plates[i].Count
	}
	return 0
}

// Len returns the number of distinct weights loaded.
func (r Rack) Len() int {
	return len(r.plates)
}

// Plates returns a copy of the loaded entries in insertion order.
func (r Rack) Plates() []LoadedPlate {
	return slices.Clone(r.plates)
}

// PerSide returns the weight loaded on one side.
func (r Rack) PerSide() float64 {
	return PerSide(r.plates)
}

// PerSide sums weight × count over all entries.
func PerSide(plates []LoadedPlate) float64 {
	var sum float64
	for _, p := range plates {
		sum += p.Weight * float64(p.Count)
	}
	return sum
}

// TotalWeight resolves the load on the bar. With doubled set the plates are
// mirrored on both sides; the bar weight is added only when includeBar is set.
func TotalWeight(plates []LoadedPlate, barWeight float64, doubled, includeBar bool) float64 {
	total := PerSide(plates)
	if doubled {
		total *= 2
	}
	if includeBar {
		total += barWeight
	}
	return total
}

// Expand yields one value per physical plate, heaviest first (nearest the
// bar). The sequence can be ranged over any number of times and does not
// modify plates.
func Expand(plates []LoadedPlate) iter.Seq[float64] {
	sorted := slices.Clone(plates)
	slices.SortStableFunc(sorted, func(a, b LoadedPlate) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})
	return func(yield func(float64) bool) {
		for _, p := range sorted {
			for range p.Count {
				if !yield(p.Weight) {
					return
				}
			}
		}
	}
}
