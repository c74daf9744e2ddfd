// Package workout holds the in-memory workout session graph. Sessions are
// immutable snapshots: every command on an Editor returns a new Session and
// leaves its input untouched, so a reader never observes a half-applied edit.
package workout

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/claude/liftlog/internal/weights"
	"github.com/google/uuid"
)

// Series groups exercises for display. It has no effect on calculations.
type Series string

const (
	SeriesA Series = "A"
	SeriesB Series = "B"
	SeriesC Series = "C"
	SeriesD Series = "D"
	SeriesE Series = "E"
)

// SeriesOptions lists the available series in display order.
var SeriesOptions = []Series{SeriesA, SeriesB, SeriesC, SeriesD, SeriesE}

// ParseSeries validates a series label.
func ParseSeries(s string) (Series, error) {
	if slices.Contains(SeriesOptions, Series(s)) {
		return Series(s), nil
	}
	return "", fmt.Errorf("unknown series %q", s)
}

// Status is the lifecycle state of a session.
type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// Set is one set of an exercise. Its total weight is derived from the
// per-side weight, equipment, unit and the exercise's bar weight and can only
// be read; the Editor recomputes it on every edit.
type Set struct {
	ID            uuid.UUID         `json:"id"`
	Number        int               `json:"set_number"`
	WeightPerSide float64           `json:"weight_per_side"`
	Equipment     weights.Equipment `json:"equipment"`
	Unit          weights.Unit      `json:"unit"`
	Reps          int               `json:"reps"`
	Timestamp     time.Time         `json:"timestamp"`

	total float64
}

// TotalWeight returns the derived total load of the set.
func (s Set) TotalWeight() float64 {
	return s.total
}

// MarshalJSON includes the derived total. Decoding ignores it; totals are
// rebuilt from per-side weight when a snapshot is loaded.
func (s Set) MarshalJSON() ([]byte, error) {
	type plain Set
	return json.Marshal(struct {
		plain
		TotalWeight  float64 `json:"total_weight"`
		TotalDisplay string  `json:"total_display"`
	}{
		plain:        plain(s),
		TotalWeight:  s.total,
		TotalDisplay: weights.Format(s.total, s.Unit),
	})
}

// Exercise is an exercise performed within a session.
type Exercise struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	Category         string            `json:"category,omitempty"`
	MuscleGroups     []string          `json:"muscle_groups,omitempty"`
	DefaultEquipment weights.Equipment `json:"default_equipment"`
	Equipment        weights.Equipment `json:"equipment"`
	Series           Series            `json:"series"`
	// Unit overrides the session unit when set.
	Unit *weights.Unit `json:"unit,omitempty"`
	// BarWeight overrides the standard bar weight when set.
	BarWeight    *float64 `json:"bar_weight,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Sets         []Set    `json:"sets"`
}

// EffectiveUnit returns the exercise's unit override or the session default.
func (e Exercise) EffectiveUnit(sessionUnit weights.Unit) weights.Unit {
	if e.Unit != nil {
		return *e.Unit
	}
	return sessionUnit
}

// Set returns the set with the given ID.
func (e Exercise) Set(id uuid.UUID) (Set, bool) {
	if i := e.setIndex(id); i >= 0 {
		return e.Sets[i], true
	}
	return Set{}, false
}

// NextDraft returns a draft that repeats the last set, or an empty draft on
// the exercise's equipment when there are no sets.
func (e Exercise) NextDraft() SetDraft {
	d := SetDraft{Equipment: e.Equipment}
	if n := len(e.Sets); n > 0 {
		last := e.Sets[n-1]
		d.WeightPerSide = last.WeightPerSide
		d.Reps = last.Reps
	}
	return d
}

func (e Exercise) setIndex(id uuid.UUID) int {
	return slices.IndexFunc(e.Sets, func(s Set) bool { return s.ID == id })
}

// derive recomputes the cached total of a set. It is the only place a total
// is ever assigned.
func (e Exercise) derive(s Set) Set {
	s.total = weights.TotalFromPerSide(s.WeightPerSide, s.Equipment, s.Unit, e.BarWeight)
	return s
}

func (e Exercise) clone() Exercise {
	e.MuscleGroups = slices.Clone(e.MuscleGroups)
	e.Sets = slices.Clone(e.Sets)
	if e.Unit != nil {
		u := *e.Unit
		e.Unit = &u
	}
	if e.BarWeight != nil {
		b := *e.BarWeight
		e.BarWeight = &b
	}
	return e
}

// Session is the root aggregate of a workout.
type Session struct {
	ID           uuid.UUID    `json:"id"`
	StartTime    time.Time    `json:"start_time"`
	EndTime      *time.Time   `json:"end_time,omitempty"`
	Duration     *int         `json:"duration_minutes,omitempty"`
	Unit         weights.Unit `json:"unit"`
	TemplateName string       `json:"template_name,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Exercises    []Exercise   `json:"exercises"`
}

// Status reports whether the session has been ended.
func (s Session) Status() Status {
	if s.EndTime != nil {
		return StatusEnded
	}
	return StatusActive
}

// Exercise returns the exercise with the given ID.
func (s Session) Exercise(id uuid.UUID) (Exercise, bool) {
	if i := s.exerciseIndex(id); i >= 0 {
		return s.Exercises[i], true
	}
	return Exercise{}, false
}

// MarshalJSON adds the status to the encoded snapshot.
func (s Session) MarshalJSON() ([]byte, error) {
	type plain Session
	p := plain(s)
	if p.Exercises == nil {
		p.Exercises = []Exercise{}
	}
	return json.Marshal(struct {
		plain
		Status Status `json:"status"`
	}{p, s.Status()})
}

func (s Session) exerciseIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.Exercises, func(e Exercise) bool { return e.ID == id })
}

func (s Session) clone() Session {
	exercises := make([]Exercise, len(s.Exercises))
	for i, e := range s.Exercises {
		exercises[i] = e.clone()
	}
	s.Exercises = exercises
	if s.EndTime != nil {
		t := *s.EndTime
		s.EndTime = &t
	}
	if s.Duration != nil {
		d := *s.Duration
		s.Duration = &d
	}
	return s
}
