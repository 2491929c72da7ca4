package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"fitbase.org/internal/audit"
	"fitbase.org/internal/auth"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// handleUsers serves the admin-only account listing. email and username
// query parameters switch it into an exact-match search.
func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := ensureAdmin(w, r); !ok {
		return
	}

	email := r.URL.Query().Get("email")
	username := r.URL.Query().Get("username")
	if email != "" || username != "" {
		accounts, err := a.accounts.Search(r.Context(), email, username)
		if err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": accounts})
		return
	}

	skip := queryInt(r, "skip", 0)
	take := queryInt(r, "take", defaultPageSize)
	if take > maxPageSize {
		take = maxPageSize
	}
	accounts, err := a.accounts.List(r.Context(), skip, take)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": accounts,
		"skip":  skip,
		"take":  take,
	})
}

// handleUserScoped dispatches /v1/users/{id} and its sub-resources.
func (a *API) handleUserScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	parts := strings.SplitN(rest, "/", 2)
	accountID := parts[0]
	if accountID == "" {
		http.NotFound(w, r)
		return
	}
	if len(parts) == 1 {
		a.handleUserByID(w, r, accountID)
		return
	}
	sub := parts[1]
	switch {
	case sub == "details":
		a.handleUserDetails(w, r, accountID)
	case sub == "roles":
		a.handleUserRoles(w, r, accountID)
	case sub == "workouts":
		a.handleUserWorkouts(w, r, accountID)
	case sub == "products":
		a.handleDiaryList(w, r, accountID)
	case sub == "product":
		a.handleDiaryAssign(w, r, accountID)
	case strings.HasPrefix(sub, "product/"):
		a.handleDiaryUnassign(w, r, accountID, strings.TrimPrefix(sub, "product/"))
	default:
		http.NotFound(w, r)
	}
}

func (a *API) handleUserByID(w http.ResponseWriter, r *http.Request, accountID string) {
	if _, ok := ensureAdmin(w, r); !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		account, err := a.accounts.Find(r.Context(), accountID)
		if err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, account)
	case http.MethodDelete:
		if err := a.accounts.Delete(r.Context(), accountID); err != nil {
			handleStoreError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "user.delete", map[string]any{"account_id": accountID})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

type detailsRequest struct {
	Weight       *int `json:"weight"`
	Height       *int `json:"height"`
	TargetWeight *int `json:"target_weight"`
	Age          *int `json:"age"`
	Kcal         *int `json:"kcal"`
}

// handleUserDetails reads and writes the optional profile fields. Only the
// account owner (or an admin) may touch them.
func (a *API) handleUserDetails(w http.ResponseWriter, r *http.Request, accountID string) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok || !auth.RouteOwnership(caller, accountID) {
		writeError(w, r, http.StatusForbidden, "not your account")
		return
	}
	switch r.Method {
	case http.MethodGet:
		account, err := a.accounts.Find(r.Context(), accountID)
		if err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, detailsRequest{
			Weight:       account.Weight,
			Height:       account.Height,
			TargetWeight: account.TargetWeight,
			Age:          account.Age,
			Kcal:         account.Kcal,
		})
	case http.MethodPut:
		var req detailsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		account, err := a.accounts.Find(r.Context(), accountID)
		if err != nil {
			handleStoreError(w, r, err)
			return
		}
		account.Weight = req.Weight
		account.Height = req.Height
		account.TargetWeight = req.TargetWeight
		account.Age = req.Age
		account.Kcal = req.Kcal
		if err := a.accounts.Update(r.Context(), account); err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, account)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

type rolesRequest struct {
	Roles []string `json:"roles"`
}

func (a *API) handleUserRoles(w http.ResponseWriter, r *http.Request, accountID string) {
	if _, ok := ensureAdmin(w, r); !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		roles, err := a.accounts.Roles(r.Context(), accountID)
		if err != nil {
			handleStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rolesRequest{Roles: roles})
	case http.MethodPut:
		var req rolesRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.accounts.SetRoles(r.Context(), accountID, req.Roles); err != nil {
			handleStoreError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "user.roles.set", map[string]any{
			"account_id": accountID,
			"roles":      req.Roles,
		})
		writeJSON(w, http.StatusOK, rolesRequest{Roles: req.Roles})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
