package alpha

import (
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/weights"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
)

// namespace seeds session IDs so importing the same export twice replaces
// the earlier copy.
var namespace = uuid.MustParse("5b0a4c7e-2f7d-4a8e-9d53-0b6c1d2e3f40")

// SessionID is the stable ID of a session imported by userID.
func SessionID(userID int, s Session) uuid.UUID {
	return uuid.NewSHA1(namespace, fmt.Appendf(nil, "%d|%s|%s", userID, s.Name, s.Start.Format(time.RFC3339)))
}

// Equipment maps the app's equipment label onto the equipment categories.
func Equipment(label string) weights.Equipment {
	switch l := strings.ToLower(strings.TrimSpace(label)); {
	case l == "barbell" || l == "ez bar" || l == "ez-bar":
		return weights.Barbell
	case strings.HasPrefix(l, "dumbbell"):
		return weights.Dumbbell
	case strings.HasPrefix(l, "kettlebell"):
		return weights.Kettlebell
	case l == "trap bar" || l == "hex bar":
		return weights.TrapBar
	case l == "landmine":
		return weights.Landmine
	case strings.Contains(l, "machine"):
		return weights.Machine
	case strings.HasPrefix(l, "cable"):
		return weights.Cable
	case l == "bodyweight":
		return weights.Bodyweight
	}
	return weights.Other
}

// ToSession rebuilds an exported session as an ended kilogram session.
// Warmups are left out. Dumbbell loads are per hand and are stored as the
// per-side weight; every other load is the total and the per-side weight is
// derived from it.
func ToSession(userID int, s Session) (workout.Session, int, error) {
	now := s.Start
	ed := workout.NewEditor(workout.WithClock(func() time.Time { return now }))

	session := ed.Start(weights.Kilograms)
	session.ID = SessionID(userID, s)
	session.TemplateName = s.Name

	skipped := 0
	for _, ex := range s.Exercises {
		var exID uuid.UUID
		session, exID = ed.AddExercise(session, workout.ExerciseDef{
			Name:      ex.Name,
			Equipment: Equipment(ex.Equipment),
			Notes:     fmt.Sprintf("target %d reps", ex.TargetReps),
		})
		added, _ := session.Exercise(exID)
		setID := added.Sets[0].ID

		logged := 0
		for _, set := range ex.Sets {
			if set.Warmup {
				skipped++
				continue
			}
			if logged > 0 {
				var err error
				session, setID, err = ed.AddSet(session, exID, workout.SetDraft{})
				if err != nil {
					return workout.Session{}, 0, err
				}
			}
			patch := workout.SetPatch{Reps: &set.Reps}
			if added.Equipment == weights.Dumbbell {
				patch.WeightPerSide = &set.Load
			} else {
				patch.TotalWeight = &set.Load
			}
			var err error
			if session, err = ed.UpdateSet(session, exID, setID, patch); err != nil {
				return workout.Session{}, 0, err
			}
			logged++
		}
		if logged == 0 {
			var err error
			if session, err = ed.RemoveSet(session, exID, setID); err != nil {
				return workout.Session{}, 0, err
			}
		}
	}

	now = s.Start.Add(s.Duration)
	return ed.End(session), skipped, nil
}
