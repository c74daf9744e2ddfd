package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/liftlog/internal/plates"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/weights"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	return timeRange(startStr, endStr, 7)
}

// timeRange returns start/end, defaulting end to now and start to days
// before end.
func timeRange(startStr, endStr string, days int) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -days)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// unitArg reads a unit argument, defaulting to pounds.
func unitArg(req mcp.CallToolRequest, key string) (weights.Unit, error) {
	return weights.ParseUnit(req.GetString(key, string(weights.Pounds)))
}

// barArg reads an optional custom bar weight. Absent or negative means the
// standard bar for the equipment and unit.
func barArg(req mcp.CallToolRequest) *float64 {
	b := req.GetFloat("bar_weight", -1)
	if b < 0 {
		return nil
	}
	return &b
}

var unitEnum = mcp.Enum(string(weights.Pounds), string(weights.Kilograms))

func equipmentEnum() mcp.PropertyOption {
	all := weights.AllEquipment()
	names := make([]string, len(all))
	for i, e := range all {
		names[i] = string(e)
	}
	return mcp.Enum(names...)
}

// --- Tool definitions ---

var toolCalculateLoad = mcp.NewTool("calculate_load",
	mcp.WithDescription("Resolve the total load on a barbell from the plates loaded on one side. Returns per-side weight, total, and the bar picture heaviest plate first."),
	mcp.WithString("plates", mcp.Required(), mcp.Description("Plates on one side, comma separated with optional counts (e.g. '45x2,25,2.5')")),
	mcp.WithString("unit", mcp.Description("Weight unit. Defaults to lbs."), unitEnum),
	mcp.WithNumber("bar_weight", mcp.Description("Bar weight. Defaults to 45 lbs / 20 kg.")),
	mcp.WithBoolean("doubled", mcp.Description("Mirror the plates on both sides. Defaults to true.")),
	mcp.WithBoolean("include_bar", mcp.Description("Add the bar weight to the total. Defaults to true.")),
)

var toolPlateBreakdown = mcp.NewTool("plate_breakdown",
	mcp.WithDescription("Suggest the plates to load for a target total weight using the fewest plates from the standard catalog. Reports any remainder that cannot be loaded."),
	mcp.WithNumber("target", mcp.Required(), mcp.Description("Target total weight including the bar")),
	mcp.WithString("unit", mcp.Description("Weight unit. Defaults to lbs."), unitEnum),
	mcp.WithNumber("bar_weight", mcp.Description("Bar weight. Defaults to 45 lbs / 20 kg.")),
	mcp.WithBoolean("doubled", mcp.Description("Load both sides symmetrically. Defaults to true.")),
)

var toolConvertWeight = mcp.NewTool("convert_weight",
	mcp.WithDescription("Convert a weight between lbs and kg. Returns the exact value and a display string rounded to the unit's plate increment."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight to convert")),
	mcp.WithString("from", mcp.Required(), mcp.Description("Source unit"), unitEnum),
	mcp.WithString("to", mcp.Required(), mcp.Description("Target unit"), unitEnum),
)

var toolTotalWeight = mcp.NewTool("total_weight",
	mcp.WithDescription("Compute the total weight of a set from the weight per side (per hand for dumbbells, per bell for kettlebells) for the given equipment."),
	mcp.WithNumber("per_side", mcp.Required(), mcp.Description("Weight per side")),
	mcp.WithString("equipment", mcp.Required(), mcp.Description("Equipment type"), equipmentEnum()),
	mcp.WithString("unit", mcp.Description("Weight unit. Defaults to lbs."), unitEnum),
	mcp.WithNumber("bar_weight", mcp.Description("Custom bar weight. Defaults to the standard bar for the unit.")),
)

var toolPerSideWeight = mcp.NewTool("per_side_weight",
	mcp.WithDescription("Compute the weight per side needed to reach a total weight for the given equipment."),
	mcp.WithNumber("total", mcp.Required(), mcp.Description("Total weight")),
	mcp.WithString("equipment", mcp.Required(), mcp.Description("Equipment type"), equipmentEnum()),
	mcp.WithString("unit", mcp.Description("Weight unit. Defaults to lbs."), unitEnum),
	mcp.WithNumber("bar_weight", mcp.Description("Custom bar weight. Defaults to the standard bar for the unit.")),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List archived workouts with summary counts: exercises, sets, reps, and tonnage."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Retrieve one archived workout with every exercise and set."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout ID (UUID)")),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Query logged sets for an exercise across workouts. Returns per-side and total weight, unit, and reps for each set."),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match, e.g. 'squat')")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Aggregate statistics over all archived workouts: totals and per-exercise set counts, reps and heaviest total."),
)

// --- Tool handlers ---

func (h *handlers) calculateLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := req.RequireString("plates")
	if err != nil {
		return mcp.NewToolResultError("plates parameter is required"), nil
	}
	rack, err := plates.ParseRack(list)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	unit, err := unitArg(req, "unit")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	calc := plates.NewCalculator(unit).
		SetDoubled(req.GetBool("doubled", true)).
		SetIncludeBarWeight(req.GetBool("include_bar", true))
	if b := barArg(req); b != nil {
		calc = calc.SetBarWeight(*b)
	}
	calc.Rack = rack

	result, err := mcp.NewToolResultJSON(calc)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) plateBreakdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireFloat("target")
	if err != nil {
		return mcp.NewToolResultError("target parameter is required"), nil
	}
	unit, err := unitArg(req, "unit")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bar := unit.DefaultBarWeight()
	if b := barArg(req); b != nil {
		bar = *b
	}

	bd := plates.Suggest(weights.Sanitize(target), bar, req.GetBool("doubled", true), nil)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"breakdown":  bd,
		"unit":       unit,
		"bar_weight": bar,
		"loaded":     weights.Format(bd.Target-bd.Remainder, unit),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) convertWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	from, err := weights.ParseUnit(req.GetString("from", ""))
	if err != nil {
		return mcp.NewToolResultError("from: " + err.Error()), nil
	}
	to, err := weights.ParseUnit(req.GetString("to", ""))
	if err != nil {
		return mcp.NewToolResultError("to: " + err.Error()), nil
	}

	converted := weights.Convert(weights.Sanitize(w), from, to)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"weight":  converted,
		"unit":    to,
		"display": weights.Format(converted, to),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) totalWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	perSide, err := req.RequireFloat("per_side")
	if err != nil {
		return mcp.NewToolResultError("per_side parameter is required"), nil
	}
	equipment, unit, errResult := equipmentAndUnit(req)
	if errResult != nil {
		return errResult, nil
	}

	total := weights.TotalFromPerSide(weights.Sanitize(perSide), equipment, unit, barArg(req))
	result, err := mcp.NewToolResultJSON(map[string]any{
		"per_side":   perSide,
		"total":      total,
		"unit":       unit,
		"equipment":  equipment,
		"bar_weight": weights.EffectiveBarWeight(equipment, unit, barArg(req)),
		"display":    weights.Format(total, unit),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) perSideWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	total, err := req.RequireFloat("total")
	if err != nil {
		return mcp.NewToolResultError("total parameter is required"), nil
	}
	equipment, unit, errResult := equipmentAndUnit(req)
	if errResult != nil {
		return errResult, nil
	}

	perSide := weights.PerSideFromTotal(weights.Sanitize(total), equipment, unit, barArg(req))
	result, err := mcp.NewToolResultJSON(map[string]any{
		"total":     total,
		"per_side":  perSide,
		"unit":      unit,
		"equipment": equipment,
		"display":   weights.Format(perSide, unit),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func equipmentAndUnit(req mcp.CallToolRequest) (weights.Equipment, weights.Unit, *mcp.CallToolResult) {
	equipment, err := weights.ParseEquipment(req.GetString("equipment", ""))
	if err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	unit, err := unitArg(req, "unit")
	if err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	return equipment, unit, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)

	workouts, err := h.ds.QueryWorkouts(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid workout ID"), nil
	}

	s, err := h.ds.GetWorkout(ctx, id, UserIDFromContext(ctx))
	if errors.Is(err, storage.ErrWorkoutNotFound) {
		return mcp.NewToolResultError("workout not found"), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"workout": s,
		"summary": workout.Summarize(s),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRange(req.GetString("start", ""), req.GetString("end", ""), 90)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	exerciseFilter := req.GetString("exercise", "")

	sets, err := h.ds.QueryExerciseSets(ctx, start, end, uid, exerciseFilter)
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.GetDataStats(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
