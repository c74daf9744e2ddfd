package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/claude/liftlog/internal/plates"
	"github.com/claude/liftlog/internal/weights"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	plateList := flag.String("plates", "", `plates on one side, e.g. "45x2,25"`)
	target := flag.Float64("target", 0, "total weight to break down into plates")
	unitName := flag.String("unit", "lbs", "weight unit (lbs or kg)")
	bar := flag.Float64("bar", -1, "bar weight (default: standard bar for the unit)")
	single := flag.Bool("single", false, "plates are loaded on one side only")
	noBar := flag.Bool("no-bar", false, "leave the bar out of the total")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("platecalc", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	unit, err := weights.ParseUnit(*unitName)
	if err != nil {
		log.Error("invalid unit", "error", err)
		os.Exit(2)
	}
	rack, err := plates.ParseRack(*plateList)
	if err != nil {
		log.Error("invalid plates", "error", err)
		os.Exit(2)
	}
	if rack.Len() == 0 && *target <= 0 {
		fmt.Fprintf(os.Stderr, "Usage: platecalc -plates <list> | -target <weight> [-unit kg] [-bar N] [-single] [-no-bar]\n\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	c := plates.NewCalculator(unit).
		SetDoubled(!*single).
		SetIncludeBarWeight(!*noBar)
	if *bar >= 0 {
		c = c.SetBarWeight(*bar)
	}

	if *target > 0 {
		printBreakdown(c, *target)
		return
	}
	c.Rack = rack
	printLoad(c)
}

func printLoad(c plates.Calculator) {
	fmt.Printf("Plates:   %s\n", c.Rack)
	fmt.Printf("Per side: %s\n", weights.Format(c.PerSide(), c.Unit))
	fmt.Printf("Total:    %s\n", weights.Format(c.Total(), c.Unit))
	fmt.Println(picture(c))
}

func printBreakdown(c plates.Calculator, target float64) {
	bar := c.BarWeight
	if !c.IncludeBarWeight {
		bar = 0
	}
	b := plates.Suggest(target, bar, c.Doubled, nil)

	c.Rack = plates.NewRack(b.Plates)
	fmt.Printf("Target:   %s\n", weights.Format(b.Target, c.Unit))
	printLoad(c)
	if b.Remainder > 0 {
		fmt.Printf("Short by: %s\n", weights.Format(b.Remainder, c.Unit))
	}
}

// picture draws the loaded bar, heaviest plates nearest the sleeve.
func picture(c plates.Calculator) string {
	var side []string
	for w := range plates.Expand(c.Rack.Plates()) {
		side = append(side, "|"+strconv.FormatFloat(w, 'f', -1, 64)+"|")
	}
	right := strings.Join(side, "")
	if !c.Doubled {
		return "[bar]" + right
	}
	slices.Reverse(side)
	return strings.Join(side, "") + "[bar]" + right
}
