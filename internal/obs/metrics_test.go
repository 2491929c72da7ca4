package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                             "/",
		"/metrics":                     "/metrics",
		"/v1/auth/login":               "/v1/auth/login",
		"/v1/users/abc":                "/v1/users/:id",
		"/v1/users/abc/details":        "/v1/users/:id/details",
		"/v1/users/abc/workouts":       "/v1/users/:id/workouts",
		"/v1/users/abc/products":       "/v1/users/:id/products",
		"/v1/users/abc/product/ap1":    "/v1/users/:id/product/:id",
		"/v1/users/abc/details/extra":  "/v1/users/:id/details/extra",
		"/v1/workouts/abc":             "/v1/workouts/:id",
		"/v1/workouts/abc/exercises":   "/v1/workouts/:id/exercises",
		"/v1/workouts/w1/exercises/e2": "/v1/workouts/:id/exercises/:id",
		"/v1/exercises/e1":             "/v1/exercises/:id",
		"/v1/products/p1":              "/v1/products/:id",
		"/v1/products/search":          "/v1/products/search",
		"/v1/users/abc?take=10":        "/v1/users/:id",
		"/v1/users":                    "/v1/users",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
