package workout

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/claude/liftlog/internal/weights"
	"github.com/google/uuid"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSetNotFound      = errors.New("set not found")
)

// Editor applies commands to session snapshots. It owns the ID source and
// the clock; the clock is read once per command.
type Editor struct {
	now   func() time.Time
	newID func() uuid.UUID
}

// Option configures an Editor.
type Option func(*Editor)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithIDs replaces uuid.New.
func WithIDs(newID func() uuid.UUID) Option {
	return func(e *Editor) { e.newID = newID }
}

// NewEditor creates an Editor.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExerciseDef describes an exercise to add to a session.
type ExerciseDef struct {
	Name         string
	Category     string
	MuscleGroups []string
	Equipment    weights.Equipment
	Series       Series
	Unit         *weights.Unit
	BarWeight    *float64
	Instructions string
	Notes        string
}

// SetDraft holds the user-entered fields of a new set.
type SetDraft struct {
	WeightPerSide float64
	// Equipment defaults to the exercise's equipment when empty.
	Equipment weights.Equipment
	Reps      int
}

// SetPatch changes selected fields of a set. When only TotalWeight is given,
// the per-side weight is derived from it; WeightPerSide wins when both are.
type SetPatch struct {
	WeightPerSide *float64
	TotalWeight   *float64
	Equipment     *weights.Equipment
	Unit          *weights.Unit
	Reps          *int
}

// ExercisePatch changes selected fields of an exercise.
type ExercisePatch struct {
	Name      *string
	Series    *Series
	Equipment *weights.Equipment
	Notes     *string
	Unit      *weights.Unit
	BarWeight *float64
	// ResetBarWeight drops a custom bar weight, returning to the standard one.
	ResetBarWeight bool
}

// Start begins an empty session.
func (ed *Editor) Start(unit weights.Unit) Session {
	return Session{
		ID:        ed.newID(),
		StartTime: ed.now(),
		Unit:      unit,
		Exercises: []Exercise{},
	}
}

// AddExercise appends an exercise with one empty default set and returns the
// new exercise's ID.
func (ed *Editor) AddExercise(s Session, def ExerciseDef) (Session, uuid.UUID) {
	equipment := def.Equipment
	if equipment == "" {
		equipment = weights.Other
	}
	series := def.Series
	if series == "" {
		series = SeriesA
	}

	ex := Exercise{
		ID:               ed.newID(),
		Name:             def.Name,
		Category:         def.Category,
		MuscleGroups:     slices.Clone(def.MuscleGroups),
		DefaultEquipment: equipment,
		Equipment:        equipment,
		Series:           series,
		Unit:             def.Unit,
		BarWeight:        def.BarWeight,
		Instructions:     def.Instructions,
		Notes:            def.Notes,
	}
	ex = ex.clone()
	ex.Sets = []Set{ex.derive(Set{
		ID:        ed.newID(),
		Number:    1,
		Equipment: equipment,
		Unit:      ex.EffectiveUnit(s.Unit),
		Timestamp: ed.now(),
	})}

	next := s.clone()
	next.Exercises = append(next.Exercises, ex)
	return next, ex.ID
}

// RemoveExercise deletes an exercise and its sets.
func (ed *Editor) RemoveExercise(s Session, exerciseID uuid.UUID) (Session, error) {
	i := s.exerciseIndex(exerciseID)
	if i < 0 {
		return s, ErrExerciseNotFound
	}
	next := s.clone()
	next.Exercises = slices.Delete(next.Exercises, i, i+1)
	return next, nil
}

// UpdateExercise merges a patch into an exercise. A bar weight change
// recomputes the total of every set on a bar; a unit change relabels every
// set the same way ToggleExerciseUnit does.
func (ed *Editor) UpdateExercise(s Session, exerciseID uuid.UUID, p ExercisePatch) (Session, error) {
	i := s.exerciseIndex(exerciseID)
	if i < 0 {
		return s, ErrExerciseNotFound
	}
	next := s.clone()
	ex := &next.Exercises[i]

	if p.Name != nil {
		ex.Name = *p.Name
	}
	if p.Series != nil {
		ex.Series = *p.Series
	}
	if p.Equipment != nil {
		ex.Equipment = *p.Equipment
	}
	if p.Notes != nil {
		ex.Notes = *p.Notes
	}

	barChanged := false
	switch {
	case p.BarWeight != nil:
		b := *p.BarWeight
		barChanged = ex.BarWeight == nil || *ex.BarWeight != b
		ex.BarWeight = &b
	case p.ResetBarWeight && ex.BarWeight != nil:
		ex.BarWeight = nil
		barChanged = true
	}
	if barChanged {
		for j, set := range ex.Sets {
			if weights.UsesBarWeight(set.Equipment) {
				ex.Sets[j] = ex.derive(set)
			}
		}
	}

	if p.Unit != nil && *p.Unit != ex.EffectiveUnit(next.Unit) {
		relabel(ex, *p.Unit)
	}
	return next, nil
}

// ToggleExerciseUnit flips the exercise between lbs and kg. The numbers are
// relabelled, not converted: 100 lbs per side becomes 100 kg per side and
// every total is recomputed in the new unit.
func (ed *Editor) ToggleExerciseUnit(s Session, exerciseID uuid.UUID) (Session, error) {
	i := s.exerciseIndex(exerciseID)
	if i < 0 {
		return s, ErrExerciseNotFound
	}
	next := s.clone()
	ex := &next.Exercises[i]
	relabel(ex, ex.EffectiveUnit(next.Unit).Toggle())
	return next, nil
}

// ConvertExerciseUnit flips the exercise between lbs and kg and converts
// every per-side weight, and a custom bar weight, into the new unit rounded
// to its increment.
func (ed *Editor) ConvertExerciseUnit(s Session, exerciseID uuid.UUID) (Session, error) {
	i := s.exerciseIndex(exerciseID)
	if i < 0 {
		return s, ErrExerciseNotFound
	}
	next := s.clone()
	ex := &next.Exercises[i]
	to := ex.EffectiveUnit(next.Unit).Toggle()

	if ex.BarWeight != nil {
		b := weights.Round(weights.Convert(*ex.BarWeight, ex.EffectiveUnit(next.Unit), to), to)
		ex.BarWeight = &b
	}
	for j, set := range ex.Sets {
		set.WeightPerSide = weights.Round(weights.Convert(set.WeightPerSide, set.Unit, to), to)
		ex.Sets[j] = set
	}
	relabel(ex, to)
	return next, nil
}

func relabel(ex *Exercise, to weights.Unit) {
	ex.Unit = &to
	for j, set := range ex.Sets {
		set.Unit = to
		ex.Sets[j] = ex.derive(set)
	}
}

// AddSet appends a set numbered after the existing ones and returns its ID.
func (ed *Editor) AddSet(s Session, exerciseID uuid.UUID, d SetDraft) (Session, uuid.UUID, error) {
	i := s.exerciseIndex(exerciseID)
	if i < 0 {
		return s, uuid.Nil, ErrExerciseNotFound
	}
	next := s.clone()
	ex := &next.Exercises[i]

	equipment := d.Equipment
	if equipment == "" {
		equipment = ex.Equipment
	}
	set := ex.derive(Set{
		ID:            ed.newID(),
		Number:        len(ex.Sets) + 1,
		WeightPerSide: weights.Sanitize(d.WeightPerSide),
		Equipment:     equipment,
		Unit:          ex.EffectiveUnit(next.Unit),
		Reps:          d.Reps,
		Timestamp:     ed.now(),
	})
	ex.Sets = append(ex.Sets, set)
	return next, set.ID, nil
}

// RemoveSet deletes a set and renumbers the remaining sets 1..N.
func (ed *Editor) RemoveSet(s Session, exerciseID, setID uuid.UUID) (Session, error) {
	i := s.exerciseIndex(exerciseID)
	if i < 0 {
		return s, ErrExerciseNotFound
	}
	j := s.Exercises[i].setIndex(setID)
	if j < 0 {
		return s, ErrSetNotFound
	}
	next := s.clone()
	ex := &next.Exercises[i]
	ex.Sets = slices.Delete(ex.Sets, j, j+1)
	renumber(ex.Sets)
	return next, nil
}

func renumber(sets []Set) {
	for n := range sets {
		sets[n].Number = n + 1
	}
}

// UpdateSet applies a patch to a set and then derives its total from the
// resulting per-side weight, equipment and unit.
func (ed *Editor) UpdateSet(s Session, exerciseID, setID uuid.UUID, p SetPatch) (Session, error) {
	i := s.exerciseIndex(exerciseID)
	if i < 0 {
		return s, ErrExerciseNotFound
	}
	j := s.Exercises[i].setIndex(setID)
	if j < 0 {
		return s, ErrSetNotFound
	}
	next := s.clone()
	ex := &next.Exercises[i]
	set := ex.Sets[j]

	if p.Equipment != nil {
		set.Equipment = *p.Equipment
	}
	if p.Unit != nil {
		set.Unit = *p.Unit
	}
	if p.Reps != nil {
		set.Reps = *p.Reps
	}
	switch {
	case p.WeightPerSide != nil:
		set.WeightPerSide = weights.Sanitize(*p.WeightPerSide)
	case p.TotalWeight != nil:
		total := weights.Sanitize(*p.TotalWeight)
		set.WeightPerSide = weights.PerSideFromTotal(total, set.Equipment, set.Unit, ex.BarWeight)
	}

	ex.Sets[j] = ex.derive(set)
	return next, nil
}

// UpdateNotes replaces the session notes.
func (ed *Editor) UpdateNotes(s Session, notes string) Session {
	next := s.clone()
	next.Notes = notes
	return next
}

// End stamps the end time and the duration in whole minutes. Ending an
// already ended session stamps it again.
func (ed *Editor) End(s Session) Session {
	end := ed.now()
	minutes := int(math.Round(end.Sub(s.StartTime).Seconds() / 60))
	next := s.clone()
	next.EndTime = &end
	next.Duration = &minutes
	return next
}

// Rebuild renumbers every set and re-derives every total. Snapshots decoded
// from storage go through Rebuild so a stored total is never trusted.
func Rebuild(s Session) Session {
	next := s.clone()
	if !next.Unit.Valid() {
		next.Unit = weights.Pounds
	}
	if next.Exercises == nil {
		next.Exercises = []Exercise{}
	}
	for i := range next.Exercises {
		ex := &next.Exercises[i]
		unit := ex.EffectiveUnit(next.Unit)
		for j, set := range ex.Sets {
			if set.Equipment == "" {
				set.Equipment = ex.Equipment
			}
			if !set.Unit.Valid() {
				set.Unit = unit
			}
			ex.Sets[j] = ex.derive(set)
		}
		renumber(ex.Sets)
	}
	return next
}
