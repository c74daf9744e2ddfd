package weights

import "fmt"

// Equipment determines which weight formula applies to a set.
type Equipment string

const (
	Barbell    Equipment = "barbell"
	Dumbbell   Equipment = "dumbbell"
	Kettlebell Equipment = "kettlebell"
	TrapBar    Equipment = "trap-bar"
	Landmine   Equipment = "landmine"
	Machine    Equipment = "machine"
	Cable      Equipment = "cable"
	Bodyweight Equipment = "bodyweight"
	Other      Equipment = "other"
)

var allEquipment = []Equipment{
	Barbell, Dumbbell, Kettlebell, TrapBar, Landmine, Machine, Cable, Bodyweight, Other,
}

// AllEquipment returns every equipment type in display order.
func AllEquipment() []Equipment {
	return append([]Equipment(nil), allEquipment...)
}

// ParseEquipment validates an equipment string.
func ParseEquipment(s string) (Equipment, error) {
	e := Equipment(s)
	if !e.Valid() {
		return "", fmt.Errorf("unknown equipment type %q", s)
	}
	return e, nil
}

// Valid reports whether e is one of the known equipment types.
func (e Equipment) Valid() bool {
	for _, known := range allEquipment {
		if e == known {
			return true
		}
	}
	return false
}

// UsesBarWeight reports whether the equipment carries a bar whose weight is
// part of the total: barbell, trap bar and landmine.
func UsesBarWeight(e Equipment) bool {
	return e == Barbell || e == TrapBar || e == Landmine
}
