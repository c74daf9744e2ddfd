// Package sessions keeps the live workout sessions and plate calculators of
// every user in memory. Each command swaps a whole snapshot under the lock,
// so readers always see either the state before or the state after an edit.
package sessions

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/plates"
	"github.com/claude/liftlog/internal/weights"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// EndedRetention is how long an ended and archived session stays live before
// the owner's next Put drops it.
const EndedRetention = 12 * time.Hour

type entry struct {
	owner    string
	session  workout.Session
	archived bool
}

// Registry is safe for concurrent use.
type Registry struct {
	mu          sync.Mutex
	sessions    map[uuid.UUID]entry
	calculators map[string]plates.Calculator
	defaultUnit weights.Unit
	defaultBar  float64
	now         func() time.Time
}

// New creates a registry. Calculators are created lazily in defaultUnit with
// bar weight defaultBar, or the unit's standard bar when defaultBar is 0.
func New(defaultUnit weights.Unit, defaultBar float64) *Registry {
	return &Registry{
		sessions:    make(map[uuid.UUID]entry),
		calculators: make(map[string]plates.Calculator),
		defaultUnit: defaultUnit,
		defaultBar:  defaultBar,
		now:         time.Now,
	}
}

// DefaultUnit is the unit new sessions and calculators start in.
func (r *Registry) DefaultUnit() weights.Unit {
	return r.defaultUnit
}

// Put stores a session for user, replacing any session with the same ID.
// User's sessions that were archived and ended more than EndedRetention ago
// are dropped.
func (r *Registry) Put(user string, s workout.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-EndedRetention)
	for id, e := range r.sessions {
		if e.owner == user && e.archived && e.session.EndTime != nil && e.session.EndTime.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
	r.sessions[s.ID] = entry{owner: user, session: s}
}

// MarkArchived records that the current snapshot of a session has been
// archived. Any later Update clears the mark.
func (r *Registry) MarkArchived(user string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.owner != user {
		return ErrSessionNotFound
	}
	e.archived = true
	r.sessions[id] = e
	return nil
}

// Get returns the current snapshot of a session owned by user.
func (r *Registry) Get(user string, id uuid.UUID) (workout.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.owner != user {
		return workout.Session{}, ErrSessionNotFound
	}
	return e.session, nil
}

// List returns user's sessions, most recently started first.
func (r *Registry) List(user string) []workout.Session {
	r.mu.Lock()
	out := make([]workout.Session, 0, len(r.sessions))
	for _, e := range r.sessions {
		if e.owner == user {
			out = append(out, e.session)
		}
	}
	r.mu.Unlock()

	slices.SortFunc(out, func(a, b workout.Session) int {
		return b.StartTime.Compare(a.StartTime)
	})
	return out
}

// Update applies fn to the current snapshot and stores the result. When fn
// fails the stored snapshot is left as it was and the error is returned.
func (r *Registry) Update(user string, id uuid.UUID, fn func(workout.Session) (workout.Session, error)) (workout.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.owner != user {
		return workout.Session{}, ErrSessionNotFound
	}
	next, err := fn(e.session)
	if err != nil {
		return e.session, err
	}
	r.sessions[id] = entry{owner: user, session: next}
	return next, nil
}

// Delete discards a session.
func (r *Registry) Delete(user string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.owner != user {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Calculator returns user's plate calculator.
func (r *Registry) Calculator(user string) plates.Calculator {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calculatorLocked(user)
}

// UpdateCalculator applies fn to user's calculator and stores the result.
func (r *Registry) UpdateCalculator(user string, fn func(plates.Calculator) plates.Calculator) plates.Calculator {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := fn(r.calculatorLocked(user))
	r.calculators[user] = next
	return next
}

func (r *Registry) calculatorLocked(user string) plates.Calculator {
	c, ok := r.calculators[user]
	if !ok {
		c = plates.NewCalculator(r.defaultUnit)
		if r.defaultBar > 0 {
			c = c.SetBarWeight(r.defaultBar)
		}
		r.calculators[user] = c
	}
	return c
}
