package httpapi

import (
	"net/http"
	"strings"

	"fitbase.org/internal/fitness"
)

type exerciseRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	BodyPart         string  `json:"body_part"`
	VideoURL         string  `json:"video_url"`
	BurnedCalories   float64 `json:"burned_calories"`
	IsWeightTraining *bool   `json:"is_weight_training"`
	Difficulty       int     `json:"difficulty"`
	Series           int     `json:"series"`
	Repetition       int     `json:"repetition"`
	Weight           int     `json:"weight"`
}

func (r exerciseRequest) toExercise() *fitness.Exercise {
	return &fitness.Exercise{
		Name:             r.Name,
		Description:      r.Description,
		BodyPart:         r.BodyPart,
		VideoURL:         r.VideoURL,
		BurnedCalories:   r.BurnedCalories,
		IsWeightTraining: r.IsWeightTraining,
		Difficulty:       r.Difficulty,
		Series:           r.Series,
		Repetition:       r.Repetition,
		Weight:           r.Weight,
	}
}

// handleExercises serves the catalog collection. Reads are open to anyone,
// writes are admin-only.
func (a *API) handleExercises(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		skip := queryInt(r, "skip", 0)
		take := queryInt(r, "take", defaultPageSize)
		if take > maxPageSize {
			take = maxPageSize
		}
		exercises, err := a.workouts.ListExercises(r.Context(), skip, take)
		if err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"exercises": exercises})
	case http.MethodPost:
		if _, ok := ensureAdmin(w, r); !ok {
			return
		}
		var req exerciseRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		exercise := req.toExercise()
		if err := a.workouts.CreateExercise(r.Context(), exercise); err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, exercise)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleExerciseScoped(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/exercises/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		exercise, err := a.workouts.FindExercise(r.Context(), id)
		if err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, exercise)
	case http.MethodPut:
		if _, ok := ensureAdmin(w, r); !ok {
			return
		}
		var req exerciseRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		exercise := req.toExercise()
		exercise.ID = id
		if err := a.workouts.UpdateExercise(r.Context(), exercise); err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, exercise)
	case http.MethodDelete:
		if _, ok := ensureAdmin(w, r); !ok {
			return
		}
		if err := a.workouts.DeleteExercise(r.Context(), id); err != nil {
			handleStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
