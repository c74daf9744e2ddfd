package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/weights"
	"github.com/claude/liftlog/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type startSessionRequest struct {
	Unit         string `json:"unit"`
	TemplateName string `json:"template_name"`
	Notes        string `json:"notes"`
}

type patchSessionRequest struct {
	Notes *string `json:"notes"`
}

type exerciseRequest struct {
	TemplateID   string         `json:"template_id"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	MuscleGroups []string       `json:"muscle_groups"`
	Equipment    string         `json:"equipment"`
	Series       string         `json:"series"`
	Unit         string         `json:"unit"`
	BarWeight    *weights.Input `json:"bar_weight"`
	Instructions string         `json:"instructions"`
	Notes        string         `json:"notes"`
}

type patchExerciseRequest struct {
	Name           *string        `json:"name"`
	Series         *string        `json:"series"`
	Equipment      *string        `json:"equipment"`
	Notes          *string        `json:"notes"`
	Unit           *string        `json:"unit"`
	BarWeight      *weights.Input `json:"bar_weight"`
	ResetBarWeight bool           `json:"reset_bar_weight"`
}

type setRequest struct {
	// RepeatLast copies weight and reps from the exercise's last set.
	RepeatLast    bool          `json:"repeat_last"`
	WeightPerSide weights.Input `json:"weight_per_side"`
	Equipment     string        `json:"equipment"`
	Reps          weights.Input `json:"reps"`
}

type patchSetRequest struct {
	WeightPerSide *weights.Input `json:"weight_per_side"`
	TotalWeight   *weights.Input `json:"total_weight"`
	Equipment     *string        `json:"equipment"`
	Unit          *string        `json:"unit"`
	Reps          *weights.Input `json:"reps"`
}

// login keys the live registry by the caller's login.
func login(r *http.Request) string {
	return userInfoFromContext(r).Login
}

// pathIDs parses the UUID path parameters in order, writing a 400 on the
// first invalid one.
func pathIDs(w http.ResponseWriter, r *http.Request, names ...string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		id, err := uuid.Parse(chi.URLParam(r, name))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	unit := s.live.DefaultUnit()
	if req.Unit != "" {
		u, err := weights.ParseUnit(req.Unit)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		unit = u
	}

	session := s.editor.Start(unit)
	session.TemplateName = req.TemplateName
	session.Notes = req.Notes
	s.live.Put(login(r), session)
	s.log.Info("session started", "user", login(r), "session", session.ID, "unit", unit)
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.live.List(login(r)))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	session, err := s.live.Get(login(r), ids[0])
	if err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handlePatchSession(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req patchSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	s.update(w, r, ids[0], func(cur workout.Session) (workout.Session, error) {
		if req.Notes == nil {
			return cur, nil
		}
		return s.editor.UpdateNotes(cur, *req.Notes), nil
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	if err := s.live.Delete(login(r), ids[0]); err != nil {
		writeEditError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEndSession stamps the end time and archives the session. The session
// stays in the live registry so it can still be corrected and ended again,
// until the user starts a session after sessions.EndedRetention has passed.
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	session, err := s.live.Update(login(r), ids[0], func(cur workout.Session) (workout.Session, error) {
		return s.editor.End(cur), nil
	})
	if err != nil {
		writeEditError(w, err)
		return
	}

	if err := s.archive.SaveWorkout(r.Context(), userIDFromContext(r), session); err != nil {
		s.log.Error("archiving session", "session", session.ID, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrWorkoutOwned) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	if err := s.live.MarkArchived(login(r), session.ID); err != nil {
		s.log.Warn("session gone after archiving", "session", session.ID, "error", err)
	}
	s.log.Info("session archived", "session", session.ID, "duration_minutes", *session.Duration)
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req exerciseRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	def, err := req.def()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var exerciseID uuid.UUID
	session, err := s.live.Update(login(r), ids[0], func(cur workout.Session) (workout.Session, error) {
		next, id := s.editor.AddExercise(cur, def)
		exerciseID = id
		return next, nil
	})
	if err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"exercise_id": exerciseID, "session": session})
}

// def resolves the request into an ExerciseDef. A template supplies the
// defaults; explicit fields override it.
func (req exerciseRequest) def() (workout.ExerciseDef, error) {
	series := workout.SeriesA
	if req.Series != "" {
		sr, err := workout.ParseSeries(req.Series)
		if err != nil {
			return workout.ExerciseDef{}, err
		}
		series = sr
	}

	var def workout.ExerciseDef
	if req.TemplateID != "" {
		t, ok := workout.LookupTemplate(req.TemplateID)
		if !ok {
			return workout.ExerciseDef{}, fmt.Errorf("unknown exercise template %q", req.TemplateID)
		}
		def = t.Def(series)
	}
	def.Series = series

	if req.Name != "" {
		def.Name = req.Name
	}
	if def.Name == "" {
		return workout.ExerciseDef{}, errors.New("name or template_id required")
	}
	if req.Category != "" {
		def.Category = req.Category
	}
	if len(req.MuscleGroups) > 0 {
		def.MuscleGroups = req.MuscleGroups
	}
	if req.Equipment != "" {
		e, err := weights.ParseEquipment(req.Equipment)
		if err != nil {
			return workout.ExerciseDef{}, err
		}
		def.Equipment = e
	}
	if req.Unit != "" {
		u, err := weights.ParseUnit(req.Unit)
		if err != nil {
			return workout.ExerciseDef{}, err
		}
		def.Unit = &u
	}
	if req.BarWeight != nil {
		b := weights.Sanitize(req.BarWeight.Float())
		def.BarWeight = &b
	}
	if req.Instructions != "" {
		def.Instructions = req.Instructions
	}
	def.Notes = req.Notes
	return def, nil
}

func (s *Server) handlePatchExercise(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "exerciseID")
	if !ok {
		return
	}
	var req patchExerciseRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	p := workout.ExercisePatch{Name: req.Name, Notes: req.Notes, ResetBarWeight: req.ResetBarWeight}
	if req.Series != nil {
		sr, err := workout.ParseSeries(*req.Series)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		p.Series = &sr
	}
	if req.Equipment != nil {
		e, err := weights.ParseEquipment(*req.Equipment)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		p.Equipment = &e
	}
	if req.Unit != nil {
		u, err := weights.ParseUnit(*req.Unit)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		p.Unit = &u
	}
	if req.BarWeight != nil {
		b := req.BarWeight.Float()
		p.BarWeight = &b
	}

	s.update(w, r, ids[0], func(cur workout.Session) (workout.Session, error) {
		return s.editor.UpdateExercise(cur, ids[1], p)
	})
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "exerciseID")
	if !ok {
		return
	}
	s.update(w, r, ids[0], func(cur workout.Session) (workout.Session, error) {
		return s.editor.RemoveExercise(cur, ids[1])
	})
}

func (s *Server) handleToggleUnit(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "exerciseID")
	if !ok {
		return
	}
	s.update(w, r, ids[0], func(cur workout.Session) (workout.Session, error) {
		return s.editor.ToggleExerciseUnit(cur, ids[1])
	})
}

func (s *Server) handleConvertUnit(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "exerciseID")
	if !ok {
		return
	}
	s.update(w, r, ids[0], func(cur workout.Session) (workout.Session, error) {
		return s.editor.ConvertExerciseUnit(cur, ids[1])
	})
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "exerciseID")
	if !ok {
		return
	}
	var req setRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	var equipment weights.Equipment
	if req.Equipment != "" {
		e, err := weights.ParseEquipment(req.Equipment)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		equipment = e
	}

	var setID uuid.UUID
	session, err := s.live.Update(login(r), ids[0], func(cur workout.Session) (workout.Session, error) {
		draft := workout.SetDraft{WeightPerSide: req.WeightPerSide.Float(), Equipment: equipment, Reps: req.Reps.Int()}
		if req.RepeatLast {
			ex, ok := cur.Exercise(ids[1])
			if !ok {
				return cur, workout.ErrExerciseNotFound
			}
			draft = ex.NextDraft()
		}
		next, id, err := s.editor.AddSet(cur, ids[1], draft)
		setID = id
		return next, err
	})
	if err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"set_id": setID, "session": session})
}

func (s *Server) handlePatchSet(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "exerciseID", "setID")
	if !ok {
		return
	}
	var req patchSetRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	var p workout.SetPatch
	if req.WeightPerSide != nil {
		v := req.WeightPerSide.Float()
		p.WeightPerSide = &v
	}
	if req.TotalWeight != nil {
		v := req.TotalWeight.Float()
		p.TotalWeight = &v
	}
	if req.Reps != nil {
		v := req.Reps.Int()
		p.Reps = &v
	}
	if req.Equipment != nil {
		e, err := weights.ParseEquipment(*req.Equipment)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		p.Equipment = &e
	}
	if req.Unit != nil {
		u, err := weights.ParseUnit(*req.Unit)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		p.Unit = &u
	}

	s.update(w, r, ids[0], func(cur workout.Session) (workout.Session, error) {
		return s.editor.UpdateSet(cur, ids[1], ids[2], p)
	})
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "exerciseID", "setID")
	if !ok {
		return
	}
	s.update(w, r, ids[0], func(cur workout.Session) (workout.Session, error) {
		return s.editor.RemoveSet(cur, ids[1], ids[2])
	})
}

// update applies fn to the caller's live session and writes the new snapshot.
func (s *Server) update(w http.ResponseWriter, r *http.Request, id uuid.UUID, fn func(workout.Session) (workout.Session, error)) {
	session, err := s.live.Update(login(r), id, fn)
	if err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
