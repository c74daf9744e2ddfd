package main

import (
	"testing"

	"github.com/claude/liftlog/internal/plates"
	"github.com/claude/liftlog/internal/weights"
)

// TestPicture verifies plates are drawn heaviest nearest the bar on each side.
func TestPicture(t *testing.T) {
	rack, err := plates.ParseRack("25,45x2")
	if err != nil {
		t.Fatal(err)
	}
	c := plates.NewCalculator(weights.Pounds)
	c.Rack = rack

	if got, want := picture(c), "|25||45||45|[bar]|45||45||25|"; got != want {
		t.Errorf("picture = %q, want %q", got, want)
	}
	if got, want := picture(c.SetDoubled(false)), "[bar]|45||45||25|"; got != want {
		t.Errorf("single picture = %q, want %q", got, want)
	}
}
