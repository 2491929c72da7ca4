package auth

import "testing"

type testResource struct {
	owner string
}

func (r testResource) OwnerAccountID() string { return r.owner }

func TestRouteOwnership(t *testing.T) {
	cases := []struct {
		name   string
		caller Caller
		route  string
		want   bool
	}{
		{"owner", Caller{AccountID: "u1"}, "u1", true},
		{"other user denied", Caller{AccountID: "u1"}, "u2", false},
		{"admin override", Caller{AccountID: "u1", Roles: []string{RoleAdmin}}, "u2", true},
		{"missing caller id", Caller{}, "u2", false},
		{"missing route id", Caller{AccountID: "u1"}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RouteOwnership(tc.caller, tc.route); got != tc.want {
				t.Fatalf("RouteOwnership = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResourceOwnership(t *testing.T) {
	cases := []struct {
		name     string
		caller   Caller
		resource OwnedResource
		want     bool
	}{
		{"owner", Caller{AccountID: "u1"}, testResource{owner: "u1"}, true},
		{"other user denied", Caller{AccountID: "u1"}, testResource{owner: "u2"}, false},
		{"admin override", Caller{AccountID: "u1", Roles: []string{RoleAdmin}}, testResource{owner: "u2"}, true},
		{"nil resource", Caller{AccountID: "u1"}, nil, false},
		{"ownerless resource", Caller{AccountID: "u1"}, testResource{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResourceOwnership(tc.caller, tc.resource); got != tc.want {
				t.Fatalf("ResourceOwnership = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHasRoleIsCaseInsensitive(t *testing.T) {
	caller := Caller{AccountID: "u1", Roles: []string{"Admin"}}
	if !caller.HasRole("admin") {
		t.Fatalf("expected case-insensitive role match")
	}
	if caller.HasRole("") {
		t.Fatalf("empty role must never match")
	}
}
