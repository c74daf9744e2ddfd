package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/claude/liftlog/internal/plates"
	"github.com/claude/liftlog/internal/weights"
	"github.com/go-chi/chi/v5"
)

type patchCalculatorRequest struct {
	Doubled          *bool          `json:"doubled"`
	IncludeBarWeight *bool          `json:"include_bar_weight"`
	BarWeight        *weights.Input `json:"bar_weight"`
	Unit             *string        `json:"unit"`
}

type addPlateRequest struct {
	Weight weights.Input `json:"weight"`
	Count  int           `json:"count"`
}

func (s *Server) handleGetCalculator(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.live.Calculator(login(r)))
}

func (s *Server) handlePatchCalculator(w http.ResponseWriter, r *http.Request) {
	var req patchCalculatorRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	var unit weights.Unit
	if req.Unit != nil {
		u, err := weights.ParseUnit(*req.Unit)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		unit = u
	}

	c := s.live.UpdateCalculator(login(r), func(c plates.Calculator) plates.Calculator {
		if unit != "" {
			c = c.SetUnit(unit)
		}
		if req.Doubled != nil {
			c = c.SetDoubled(*req.Doubled)
		}
		if req.IncludeBarWeight != nil {
			c = c.SetIncludeBarWeight(*req.IncludeBarWeight)
		}
		if req.BarWeight != nil {
			c = c.SetBarWeight(req.BarWeight.Float())
		}
		return c
	})
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleAddPlate(w http.ResponseWriter, r *http.Request) {
	var req addPlateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	weight := req.Weight.Float()
	if weight <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "plate weight must be positive"})
		return
	}
	count := max(req.Count, 1)
	if count > plates.MaxPlateCount {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("plate count must be at most %d", plates.MaxPlateCount)})
		return
	}

	c := s.live.UpdateCalculator(login(r), func(c plates.Calculator) plates.Calculator {
		return c.AddPlates(weight, count)
	})
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleRemovePlate(w http.ResponseWriter, r *http.Request) {
	weight, err := strconv.ParseFloat(chi.URLParam(r, "weight"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plate weight"})
		return
	}
	c := s.live.UpdateCalculator(login(r), func(c plates.Calculator) plates.Calculator {
		return c.RemovePlate(weight)
	})
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleClearPlates(w http.ResponseWriter, r *http.Request) {
	c := s.live.UpdateCalculator(login(r), plates.Calculator.ClearPlates)
	writeJSON(w, http.StatusOK, c)
}

// handleBreakdown suggests plates for ?target= using the caller's bar weight
// and mirroring setting. ?bar_weight= overrides the bar.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := weights.ParseInput(q.Get("target"))
	if target <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target parameter required"})
		return
	}

	c := s.live.Calculator(login(r))
	bar := c.BarWeight
	if !c.IncludeBarWeight {
		bar = 0
	}
	if v := q.Get("bar_weight"); v != "" {
		bar = weights.ParseInput(v)
	}
	writeJSON(w, http.StatusOK, plates.Suggest(target, bar, c.Doubled, nil))
}
