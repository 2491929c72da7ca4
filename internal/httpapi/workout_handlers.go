package httpapi

import (
	"net/http"
	"strings"
	"time"

	"fitbase.org/internal/auth"
	"fitbase.org/internal/fitness"
)

type workoutRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Completed   *time.Time `json:"completed"`
}

// handleUserWorkouts serves the collection scoped to one account:
// GET lists, POST creates. The route is owner-only.
func (a *API) handleUserWorkouts(w http.ResponseWriter, r *http.Request, accountID string) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok || !auth.RouteOwnership(caller, accountID) {
		writeError(w, r, http.StatusForbidden, "not your account")
		return
	}
	switch r.Method {
	case http.MethodGet:
		workouts, err := a.workouts.ListByAccount(r.Context(), accountID)
		if err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"workouts": workouts})
	case http.MethodPost:
		var req workoutRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		workout, err := a.workouts.Create(r.Context(), accountID, req.Name, req.Description)
		if err != nil {
			handleStoreError(w, r, err)
			return
		}
		if req.Completed != nil {
			workout.Completed = req.Completed
			if err := a.workouts.Update(r.Context(), workout); err != nil {
				handleStoreError(w, r, err)
				return
			}
		}
		writeJSON(w, http.StatusCreated, workout)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleWorkouts serves the admin-only listing of every account's workouts.
func (a *API) handleWorkouts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := ensureAdmin(w, r); !ok {
		return
	}
	skip := queryInt(r, "skip", 0)
	take := queryInt(r, "take", defaultPageSize)
	if take > maxPageSize {
		take = maxPageSize
	}
	workouts, err := a.workouts.List(r.Context(), skip, take)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workouts": workouts})
}

// handleWorkoutScoped serves /v1/workouts/{id} and its exercise links.
// Access requires ownership of the stored resource, checked after the
// lookup.
func (a *API) handleWorkoutScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/workouts/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" || len(parts) > 3 {
		http.NotFound(w, r)
		return
	}
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing caller")
		return
	}

	workout, err := a.workouts.Find(r.Context(), id)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	if !auth.ResourceOwnership(caller, workout) {
		writeError(w, r, http.StatusForbidden, "not your workout")
		return
	}

	if len(parts) > 1 {
		if parts[1] != "exercises" {
			http.NotFound(w, r)
			return
		}
		switch len(parts) {
		case 2:
			a.handleWorkoutExercises(w, r, workout)
		case 3:
			a.handleWorkoutExerciseLink(w, r, workout, parts[2])
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, workout)
	case http.MethodPut:
		var req workoutRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		workout.Name = req.Name
		workout.Description = req.Description
		workout.Completed = req.Completed
		if err := a.workouts.Update(r.Context(), workout); err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, workout)
	case http.MethodDelete:
		if err := a.workouts.Delete(r.Context(), id); err != nil {
			handleStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleWorkoutExercises lists the catalog exercises linked to a workout.
func (a *API) handleWorkoutExercises(w http.ResponseWriter, r *http.Request, workout *fitness.Workout) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	exercises, err := a.workouts.WorkoutExercises(r.Context(), workout.ID)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercises": exercises})
}

// handleWorkoutExerciseLink attaches a catalog exercise to a workout.
func (a *API) handleWorkoutExerciseLink(w http.ResponseWriter, r *http.Request, workout *fitness.Workout, exerciseID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if err := a.workouts.AttachExercise(r.Context(), workout.ID, exerciseID); err != nil {
		handleStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
