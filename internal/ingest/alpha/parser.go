package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Session is one workout from an Alpha Progression CSV export. Loads are in
// kilograms exactly as the app records them.
type Session struct {
	Name      string
	Start     time.Time
	Duration  time.Duration
	Exercises []Exercise
}

// Exercise is a numbered exercise block of a session.
type Exercise struct {
	Name       string
	Equipment  string
	TargetReps int
	Sets       []Set
}

// Set is one logged set. Bodyweight sets record the added load ("+35").
type Set struct {
	Load       float64
	Bodyweight bool
	Reps       int
	RIR        float64
	Warmup     bool
}

var (
	// "Session Name";"2026-02-19 4:54 h";"1:02 hr"
	sessionRe = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)

	// "1. Exercise Name · Equipment · 8 reps[· modifiers]"[;"warmups"]
	exerciseRe = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)

	// 1;115;8;1
	setRe = regexp.MustCompile(`^(\d+);(.+);(\d+);(.+)$`)

	// WU1 · 37,5 kg · 9 reps
	warmupRe = regexp.MustCompile(`WU\d+\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)

	// "1:02 hr" or "48 min"
	durationRe = regexp.MustCompile(`^(?:(\d+):(\d{2})\s*hr?|(\d+)\s*min)$`)
)

const columnHeader = "#;KG;REPS;RIR"

// parser accumulates sessions line by line. A blank line or a new session
// header closes the current session.
type parser struct {
	sessions []Session
	session  *Session
}

// Parse reads an Alpha Progression CSV export. Unrecognised lines are skipped.
func Parse(r io.Reader) ([]Session, error) {
	var p parser
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := p.line(strings.TrimSpace(scanner.Text())); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	p.flush()
	return p.sessions, nil
}

func (p *parser) line(line string) error {
	if line == "" {
		p.flush()
		return nil
	}
	if line == columnHeader {
		return nil
	}

	if m := sessionRe.FindStringSubmatch(line); m != nil {
		p.flush()
		start, err := parseStart(m[2])
		if err != nil {
			return err
		}
		p.session = &Session{Name: m[1], Start: start, Duration: parseDuration(m[3])}
		return nil
	}

	if m := exerciseRe.FindStringSubmatch(line); m != nil {
		if p.session == nil {
			return fmt.Errorf("exercise without session: %q", line)
		}
		target, _ := strconv.Atoi(m[4])
		p.session.Exercises = append(p.session.Exercises, Exercise{
			Name:       strings.TrimSpace(m[2]),
			Equipment:  strings.TrimSpace(m[3]),
			TargetReps: target,
			Sets:       parseWarmups(m[6]),
		})
		return nil
	}

	if m := setRe.FindStringSubmatch(line); m != nil {
		if p.session == nil || len(p.session.Exercises) == 0 {
			return fmt.Errorf("set without exercise: %q", line)
		}
		ex := &p.session.Exercises[len(p.session.Exercises)-1]
		load, bw := parseLoad(m[2])
		reps, _ := strconv.Atoi(m[3])
		ex.Sets = append(ex.Sets, Set{Load: load, Bodyweight: bw, Reps: reps, RIR: parseDecimal(m[4])})
	}
	return nil
}

func (p *parser) flush() {
	if p.session != nil {
		p.sessions = append(p.sessions, *p.session)
		p.session = nil
	}
}

// parseStart accepts both "2026-02-19 4:54" and "2026-02-19 16:54".
func parseStart(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse session start %q", s)
}

// parseDuration reads "1:02 hr" or "48 min". Anything else is zero.
func parseDuration(s string) time.Duration {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	if m[3] != "" {
		minutes, _ := strconv.Atoi(m[3])
		return time.Duration(minutes) * time.Minute
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
}

// parseWarmups reads "WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps".
func parseWarmups(s string) []Set {
	var sets []Set
	for part := range strings.SplitSeq(s, "<br>") {
		m := warmupRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		load, bw := parseLoad(m[1])
		reps, _ := strconv.Atoi(m[2])
		sets = append(sets, Set{Load: load, Bodyweight: bw, Reps: reps, Warmup: true})
	}
	return sets
}

// parseLoad handles decimal commas and the bodyweight-plus prefix:
// "+35" is (35, true), "102,5" is (102.5, false).
func parseLoad(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		return parseDecimal(rest), true
	}
	return parseDecimal(s), false
}

func parseDecimal(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	return f
}
