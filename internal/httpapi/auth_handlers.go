package httpapi

import (
	"net/http"
	"time"

	"fitbase.org/internal/audit"
	"fitbase.org/internal/auth"
	"fitbase.org/internal/obs"
)

const refreshCookieName = "refreshToken"

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type federatedRequest struct {
	AccessToken string `json:"access_token"`
}

type authResponse struct {
	UserID                 string    `json:"user_id,omitempty"`
	Token                  string    `json:"token"`
	RefreshTokenExpiration time.Time `json:"refresh_token_expiration"`
}

type authFailure struct {
	Errors []string `json:"errors"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	res, err := a.auth.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "authentication unavailable")
		return
	}
	obs.ObserveAuthFlow("register", res.Success)
	if res.Success {
		_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{"account_id": res.AccountID})
	}
	a.writeAuthResult(w, r, res, http.StatusCreated)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	res, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "authentication unavailable")
		return
	}
	obs.ObserveAuthFlow("login", res.Success)
	if res.Success {
		_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{"account_id": res.AccountID})
	}
	a.writeAuthResult(w, r, res, http.StatusOK)
}

func (a *API) handleFederated(provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		var req federatedRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		res, err := a.auth.FederatedLogin(r.Context(), provider, req.AccessToken)
		if err != nil {
			writeError(w, r, http.StatusNotImplemented, "provider not configured")
			return
		}
		obs.ObserveAuthFlow(string(provider), res.Success)
		if res.Success {
			_ = audit.LogEvent(r.Context(), "auth.federated."+string(provider), map[string]any{"account_id": res.AccountID})
		}
		a.writeAuthResult(w, r, res, http.StatusOK)
	}
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusUnauthorized, authFailure{Errors: []string{"Token does not exist"}})
		return
	}
	res, err := a.auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "authentication unavailable")
		return
	}
	obs.ObserveAuthFlow("refresh", res.Success)
	if res.Success {
		obs.ObserveRefreshRotation()
		_ = audit.LogEvent(r.Context(), "auth.refresh", map[string]any{"account_id": res.AccountID})
		// Replace the old cookie with the rotated token.
		clearRefreshCookie(w)
	}
	a.writeAuthResult(w, r, res, http.StatusOK)
}

// writeAuthResult renders a Result, attaching the refresh cookie on success.
// Failures come back as 401 with the flow's error messages.
func (a *API) writeAuthResult(w http.ResponseWriter, r *http.Request, res auth.Result, okCode int) {
	if !res.Success {
		writeJSON(w, http.StatusUnauthorized, authFailure{Errors: res.Errors})
		return
	}
	setRefreshCookie(w, res.RefreshToken)
	writeJSON(w, okCode, authResponse{
		UserID:                 res.AccountID,
		Token:                  res.AccessToken,
		RefreshTokenExpiration: res.RefreshToken.ExpiresAt,
	})
}

func setRefreshCookie(w http.ResponseWriter, tok *auth.RefreshToken) {
	if tok == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    tok.Value,
		Path:     "/",
		Expires:  tok.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
