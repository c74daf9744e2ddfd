package plates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/claude/liftlog/internal/weights"
)

// ParseRack reads a plate list such as "45x2, 25, 2.5x2": comma separated
// weights, each optionally followed by "x" and a count of at most
// MaxPlateCount. An empty string is an empty rack.
func ParseRack(s string) (Rack, error) {
	var r Rack
	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		weightStr, countStr, hasCount := strings.Cut(strings.ToLower(field), "x")
		weight, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
		if err != nil || weights.Sanitize(weight) <= 0 {
			return Rack{}, fmt.Errorf("invalid plate weight %q", field)
		}
		count := 1
		if hasCount {
			count, err = strconv.Atoi(strings.TrimSpace(countStr))
			if err != nil || count < 1 || count > MaxPlateCount {
				return Rack{}, fmt.Errorf("invalid plate count %q", field)
			}
		}
		r = r.AddN(weight, count)
	}
	return r, nil
}

// String renders the rack in the form ParseRack reads.
func (r Rack) String() string {
	parts := make([]string, 0, len(r.plates))
	for _, p := range r.plates {
		w := strconv.FormatFloat(p.Weight, 'f', -1, 64)
		if p.Count == 1 {
			parts = append(parts, w)
			continue
		}
		parts = append(parts, fmt.Sprintf("%sx%d", w, p.Count))
	}
	return strings.Join(parts, ",")
}
