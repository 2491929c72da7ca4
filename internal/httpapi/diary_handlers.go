package httpapi

import (
	"net/http"
	"time"

	"fitbase.org/internal/auth"
)

type assignProductRequest struct {
	ProductID string    `json:"product_id"`
	Date      time.Time `json:"date"`
	Weight    *int      `json:"weight"`
	Count     int       `json:"count"`
}

// parseDay accepts a calendar date or a full timestamp.
func parseDay(raw string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func diaryCaller(w http.ResponseWriter, r *http.Request, accountID string) bool {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok || !auth.RouteOwnership(caller, accountID) {
		writeError(w, r, http.StatusForbidden, "not your account")
		return false
	}
	return true
}

// handleDiaryList serves GET /v1/users/{id}/products with optional
// skip/take/date filters.
func (a *API) handleDiaryList(w http.ResponseWriter, r *http.Request, accountID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !diaryCaller(w, r, accountID) {
		return
	}
	skip := queryInt(r, "skip", 0)
	take := queryInt(r, "take", defaultPageSize)
	if take > maxPageSize {
		take = maxPageSize
	}
	var day *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := parseDay(raw)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "invalid date")
			return
		}
		day = &parsed
	}
	entries, err := a.workouts.ListAssignedProducts(r.Context(), accountID, skip, take, day)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assigned_products": entries})
}

// handleDiaryAssign serves PUT /v1/users/{id}/product. Assigning a product
// already present on that day is a no-op.
func (a *API) handleDiaryAssign(w http.ResponseWriter, r *http.Request, accountID string) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	if !diaryCaller(w, r, accountID) {
		return
	}
	var req assignProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	day := req.Date
	if day.IsZero() {
		day = time.Now()
	}
	count := req.Count
	if count == 0 {
		count = 1
	}
	entry, err := a.workouts.AssignProduct(r.Context(), accountID, req.ProductID, day, req.Weight, count)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleDiaryUnassign serves DELETE /v1/users/{id}/product/{assignedID}
// with a required date query parameter scoping the entry's day.
func (a *API) handleDiaryUnassign(w http.ResponseWriter, r *http.Request, accountID, assignedID string) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	if !diaryCaller(w, r, accountID) {
		return
	}
	day, ok := parseDay(r.URL.Query().Get("date"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid date")
		return
	}
	if err := a.workouts.UnassignProduct(r.Context(), accountID, assignedID, day); err != nil {
		handleStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
