package workout

import "github.com/claude/liftlog/internal/weights"

// Summary aggregates a session for history listings.
type Summary struct {
	Exercises int          `json:"exercises"`
	Sets      int          `json:"sets"`
	Reps      int          `json:"reps"`
	Tonnage   float64      `json:"tonnage"`
	Unit      weights.Unit `json:"unit"`
}

// Summarize counts exercises, sets and reps and totals the tonnage
// (reps × total weight) in the session's unit.
func Summarize(s Session) Summary {
	sum := Summary{Exercises: len(s.Exercises), Unit: s.Unit}
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			sum.Sets++
			sum.Reps += set.Reps
			sum.Tonnage += float64(set.Reps) * weights.Convert(set.TotalWeight(), set.Unit, s.Unit)
		}
	}
	return sum
}
