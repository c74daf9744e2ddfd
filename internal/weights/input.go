package weights

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Input is a numeric field typed by a user. It decodes from a JSON number or
// string; anything that does not parse to a finite number becomes 0.
type Input float64

// UnmarshalJSON implements json.Unmarshaler. It never returns an error.
func (in *Input) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*in = 0
			return nil
		}
		*in = Input(ParseInput(s))
		return nil
	}
	*in = Input(ParseInput(string(data)))
	return nil
}

// Float returns the value as a float64.
func (in Input) Float() float64 {
	return float64(in)
}

// Int returns the value rounded to the nearest whole number, for rep counts.
func (in Input) Int() int {
	return int(math.Round(float64(in)))
}

// ParseInput parses user-typed text, coercing malformed input to 0.
// A comma decimal separator ("37,5") is accepted.
func ParseInput(s string) float64 {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Sanitize(v)
}
