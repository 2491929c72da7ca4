package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"fitbase.org/internal/auth"
)

// promote grants the admin role directly in the store and returns a fresh
// access token carrying it.
func (c *apiClient) promote(email, password string) string {
	c.t.Helper()
	account, err := c.accounts.FindByEmail(context.Background(), email)
	if err != nil {
		c.t.Fatalf("find account: %v", err)
	}
	if err := c.accounts.SetRoles(context.Background(), account.ID, []string{"admin"}); err != nil {
		c.t.Fatalf("set roles: %v", err)
	}
	resp := c.post("/v1/auth/login", loginRequest{Email: email, Password: password}, nil)
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("login status = %d", resp.StatusCode)
	}
	return decode[authResponse](c.t, resp).Token
}

func TestUserListRequiresAdmin(t *testing.T) {
	c := newTestAPI(t)
	payload, _ := c.register("anna", "anna@example.com", "secret1")

	resp := c.get("/v1/users", nil, c.bearer(payload.Token))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin list status = %d", resp.StatusCode)
	}

	admin := c.promote("anna@example.com", "secret1")
	resp2 := c.get("/v1/users", nil, c.bearer(admin))
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("admin list status = %d", resp2.StatusCode)
	}
}

func TestUserDetailsOwnership(t *testing.T) {
	c := newTestAPI(t)
	anna, _ := c.register("anna", "anna@example.com", "secret1")
	bob, _ := c.register("bob", "bob@example.com", "secret1")

	weight, height := 80, 184
	body := detailsRequest{Weight: &weight, Height: &height}

	// Owner writes and reads back.
	resp := c.do(http.MethodPut, "/v1/users/"+anna.UserID+"/details", body, c.bearer(anna.Token))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner put status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.get("/v1/users/"+anna.UserID+"/details", nil, c.bearer(anna.Token))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner get status = %d", resp.StatusCode)
	}
	got := decode[detailsRequest](t, resp)
	if got.Weight == nil || *got.Weight != weight || got.Height == nil || *got.Height != height {
		t.Fatalf("details round trip = %+v", got)
	}
	if got.Age != nil {
		t.Fatalf("unset field came back non-nil")
	}

	// A stranger is refused.
	resp = c.get("/v1/users/"+anna.UserID+"/details", nil, c.bearer(bob.Token))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("stranger get status = %d", resp.StatusCode)
	}

	// An admin passes the ownership check.
	admin := c.promote("bob@example.com", "secret1")
	resp2 := c.get("/v1/users/"+anna.UserID+"/details", nil, c.bearer(admin))
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("admin get status = %d", resp2.StatusCode)
	}
}

func TestUserRolesRoundTrip(t *testing.T) {
	c := newTestAPI(t)
	anna, _ := c.register("anna", "anna@example.com", "secret1")
	admin := c.promote("anna@example.com", "secret1")

	resp := c.do(http.MethodPut, "/v1/users/"+anna.UserID+"/roles",
		rolesRequest{Roles: []string{"admin", "coach"}}, c.bearer(admin))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put roles status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.get("/v1/users/"+anna.UserID+"/roles", nil, c.bearer(admin))
	got := decode[rolesRequest](t, resp)
	if len(got.Roles) != 2 {
		t.Fatalf("roles = %v", got.Roles)
	}
}

func TestUserDeleteCascades(t *testing.T) {
	c := newTestAPI(t)
	anna, annaCookie := c.register("anna", "anna@example.com", "secret1")
	c.register("boss", "boss@example.com", "secret1")
	admin := c.promote("boss@example.com", "secret1")

	resp := c.do(http.MethodDelete, "/v1/users/"+anna.UserID, nil, c.bearer(admin))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	// The account's refresh token died with it.
	req, _ := http.NewRequest(http.MethodPost, c.baseURL+"/v1/auth/refresh", nil)
	req.AddCookie(annaCookie)
	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("refresh after delete status = %d", resp.StatusCode)
	}
}

type userListResponse struct {
	Users []auth.Account `json:"users"`
}

func TestUserSearch(t *testing.T) {
	c := newTestAPI(t)
	c.register("anna", "anna@example.com", "secret1")
	c.register("bob", "bob@example.com", "secret1")
	admin := c.promote("anna@example.com", "secret1")

	resp := c.get("/v1/users", url.Values{"email": {"bob@example.com"}}, c.bearer(admin))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", resp.StatusCode)
	}
	byEmail := decode[userListResponse](t, resp)
	if len(byEmail.Users) != 1 || byEmail.Users[0].Username != "bob" {
		t.Fatalf("unexpected result: %+v", byEmail.Users)
	}

	resp = c.get("/v1/users", url.Values{"username": {"anna"}}, c.bearer(admin))
	byName := decode[userListResponse](t, resp)
	if len(byName.Users) != 1 || byName.Users[0].Email != "anna@example.com" {
		t.Fatalf("unexpected result: %+v", byName.Users)
	}

	// Matches are exact, not substring.
	resp = c.get("/v1/users", url.Values{"username": {"ann"}}, c.bearer(admin))
	partial := decode[userListResponse](t, resp)
	if len(partial.Users) != 0 {
		t.Fatalf("partial username must not match: %+v", partial.Users)
	}

	// Both criteria must hold together.
	resp = c.get("/v1/users", url.Values{"email": {"bob@example.com"}, "username": {"anna"}}, c.bearer(admin))
	both := decode[userListResponse](t, resp)
	if len(both.Users) != 0 {
		t.Fatalf("mismatched criteria must not match: %+v", both.Users)
	}
}
