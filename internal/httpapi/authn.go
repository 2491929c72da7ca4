package httpapi

import (
	"net/http"
	"strings"

	"fitbase.org/internal/auth"
)

// publicPaths are reachable without a bearer token.
var publicPaths = map[string]bool{
	"/":                 true,
	"/healthz":          true,
	"/readyz":           true,
	"/metrics":          true,
	"/openapi.yaml":     true,
	"/v1/info":          true,
	"/v1/auth/register": true,
	"/v1/auth/login":    true,
	"/v1/auth/facebook": true,
	"/v1/auth/google":   true,
	"/v1/auth/refresh":  true,
}

// withAuth validates the Authorization header on protected routes and
// installs the caller identity into the request context.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] || publicRead(r) {
			next.ServeHTTP(w, r)
			return
		}

		raw := bearerToken(r)
		if raw == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="fitbase"`)
			writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := a.issuer.ParseAndValidate(raw)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="fitbase", error="invalid_token"`)
			writeError(w, r, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		caller := auth.Caller{AccountID: claims.Subject, Roles: claims.Roles}
		ctx := auth.ContextWithCaller(r.Context(), caller)
		ctx = auth.ContextWithToken(ctx, raw)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// publicRead allows anonymous reads of the exercise catalog.
func publicRead(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	return r.URL.Path == "/v1/exercises" || strings.HasPrefix(r.URL.Path, "/v1/exercises/")
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ensureAdmin writes a 403 and returns false when the caller lacks the
// admin role.
func ensureAdmin(w http.ResponseWriter, r *http.Request) (auth.Caller, bool) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok || !caller.HasRole(auth.RoleAdmin) {
		writeError(w, r, http.StatusForbidden, "admin role required")
		return auth.Caller{}, false
	}
	return caller, true
}
