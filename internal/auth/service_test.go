package auth

import (
	"context"
	"sync"
	"testing"
	"time"
)

type staticVerifier struct {
	profile Profile
	err     error
}

func (v staticVerifier) ValidateToken(ctx context.Context, token string) (Profile, error) {
	if v.err != nil {
		return Profile{}, v.err
	}
	return v.profile, nil
}

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc, err := NewService(store, store, newTestIssuer(t), opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Register(context.Background(), "a@x.com", "alice", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got errors %v", res.Errors)
	}
	if res.AccessToken == "" {
		t.Fatalf("expected an access token")
	}
	if res.RefreshToken == nil {
		t.Fatalf("expected a refresh token")
	}
	until := time.Until(res.RefreshToken.ExpiresAt)
	if until < 6*24*time.Hour || until > 8*24*time.Hour {
		t.Fatalf("expected a ~7 day refresh expiry, got %v", until)
	}
	if res.AccountID == "" {
		t.Fatalf("expected the new account id")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	if res, err := svc.Register(context.Background(), "a@x.com", "alice", "secret1"); err != nil || !res.Success {
		t.Fatalf("first registration failed: %v %v", err, res.Errors)
	}
	res, err := svc.Register(context.Background(), "a@x.com", "alice2", "secret2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.Success {
		t.Fatalf("expected duplicate email to fail")
	}
	if len(res.Errors) != 1 || res.Errors[0] != msgEmailExists {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func TestRegisterWeakPasswordReportsReasons(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Register(context.Background(), "a@x.com", "alice", "abc")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.Success {
		t.Fatalf("expected weak password to fail")
	}
	if len(res.Errors) == 0 {
		t.Fatalf("expected the policy reasons to be reported")
	}
}

func TestLoginEnumerationResistance(t *testing.T) {
	svc, _ := newTestService(t)

	if res, err := svc.Register(context.Background(), "a@x.com", "alice", "secret1"); err != nil || !res.Success {
		t.Fatalf("registration failed: %v %v", err, res.Errors)
	}

	wrongPassword, err := svc.Login(context.Background(), "a@x.com", "wrong-pass1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	noSuchUser, err := svc.Login(context.Background(), "missing@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if wrongPassword.Success || noSuchUser.Success {
		t.Fatalf("expected both logins to fail")
	}
	if len(wrongPassword.Errors) != 1 || len(noSuchUser.Errors) != 1 ||
		wrongPassword.Errors[0] != noSuchUser.Errors[0] {
		t.Fatalf("expected identical error messages, got %v and %v",
			wrongPassword.Errors, noSuchUser.Errors)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestService(t)

	reg, err := svc.Register(context.Background(), "a@x.com", "alice", "secret1")
	if err != nil || !reg.Success {
		t.Fatalf("registration failed: %v %v", err, reg.Errors)
	}

	res, err := svc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %v", res.Errors)
	}
	if res.RefreshToken.Value != reg.RefreshToken.Value {
		t.Fatalf("login within the validity window must reuse the refresh token")
	}
}

func TestFederatedLoginReusesAccountByEmail(t *testing.T) {
	svc, store := newTestService(t, WithVerifier(ProviderGoogle, staticVerifier{
		profile: Profile{Email: "a@x.com", Name: "Alice"},
	}))

	reg, err := svc.Register(context.Background(), "a@x.com", "alice", "secret1")
	if err != nil || !reg.Success {
		t.Fatalf("registration failed: %v %v", err, reg.Errors)
	}

	res, err := svc.FederatedLogin(context.Background(), ProviderGoogle, "opaque-google-token")
	if err != nil {
		t.Fatalf("FederatedLogin: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %v", res.Errors)
	}
	if res.AccountID != reg.AccountID {
		t.Fatalf("expected the existing account to be linked, got %s", res.AccountID)
	}
	accounts, err := store.List(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected no duplicate account, got %d", len(accounts))
	}
}

func TestFederatedLoginCreatesPasswordlessAccount(t *testing.T) {
	svc, store := newTestService(t, WithVerifier(ProviderFacebook, staticVerifier{
		profile: Profile{Email: "b@x.com", Name: "Bob"},
	}))

	res, err := svc.FederatedLogin(context.Background(), ProviderFacebook, "opaque-fb-token")
	if err != nil {
		t.Fatalf("FederatedLogin: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %v", res.Errors)
	}
	account, err := store.Find(context.Background(), res.AccountID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if account.Username != "Bob" {
		t.Fatalf("expected the verified name as username, got %s", account.Username)
	}
	if account.PasswordHash != "" {
		t.Fatalf("federated account must not carry a local credential")
	}
	// No local password means no password login.
	login, err := svc.Login(context.Background(), "b@x.com", "anything1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.Success {
		t.Fatalf("password login against a federated account must fail")
	}
}

// conflictOnCreateStore simulates losing a first-login create race: the
// account row appears under the same email just before our insert lands.
type conflictOnCreateStore struct {
	*MemoryStore
}

func (s *conflictOnCreateStore) Create(ctx context.Context, account *Account, password string) error {
	winner := &Account{Email: account.Email, Username: "winner"}
	if err := s.MemoryStore.Create(ctx, winner, ""); err != nil {
		return err
	}
	return ErrConflict
}

func TestFederatedLoginConcurrentFirstLogin(t *testing.T) {
	inner := NewMemoryStore()
	store := &conflictOnCreateStore{MemoryStore: inner}
	svc, err := NewService(store, inner, newTestIssuer(t), WithVerifier(ProviderGoogle, staticVerifier{
		profile: Profile{Email: "c@x.com", Name: "Carol"},
	}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	res, err := svc.FederatedLogin(context.Background(), ProviderGoogle, "opaque-google-token")
	if err != nil {
		t.Fatalf("FederatedLogin: %v", err)
	}
	if !res.Success {
		t.Fatalf("losing the create race must still sign in, got %v", res.Errors)
	}
	account, err := inner.FindByEmail(context.Background(), "c@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if res.AccountID != account.ID {
		t.Fatalf("expected the already-created account, got %s want %s", res.AccountID, account.ID)
	}
	accounts, err := inner.List(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected a single account, got %d", len(accounts))
	}
}

func TestFederatedLoginRejectedToken(t *testing.T) {
	svc, _ := newTestService(t, WithVerifier(ProviderGoogle, staticVerifier{err: ErrInvalidToken}))

	res, err := svc.FederatedLogin(context.Background(), ProviderGoogle, "bad-token")
	if err != nil {
		t.Fatalf("FederatedLogin: %v", err)
	}
	if res.Success {
		t.Fatalf("expected rejection")
	}
	if len(res.Errors) != 1 || res.Errors[0] != msgBadFederated {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func TestFederatedLoginUnknownProvider(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.FederatedLogin(context.Background(), Provider("myspace"), "tok"); err == nil {
		t.Fatalf("expected a configuration error for an unknown provider")
	}
}

func TestRefreshPicksUpRoleChanges(t *testing.T) {
	svc, store := newTestService(t)

	reg, err := svc.Register(context.Background(), "a@x.com", "alice", "secret1")
	if err != nil || !reg.Success {
		t.Fatalf("registration failed: %v %v", err, reg.Errors)
	}
	if err := store.SetRoles(context.Background(), reg.AccountID, []string{RoleAdmin}); err != nil {
		t.Fatalf("SetRoles: %v", err)
	}

	res, err := svc.Refresh(context.Background(), reg.RefreshToken.Value)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %v", res.Errors)
	}
	claims, err := svc.issuer.ParseAndValidate(res.AccessToken)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != RoleAdmin {
		t.Fatalf("refreshed token must carry the current role set, got %v", claims.Roles)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Refresh(context.Background(), "never-issued")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failure")
	}
	if len(res.Errors) != 1 || res.Errors[0] != msgTokenNotFound {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	svc, _ := newTestService(t)

	reg, err := svc.Register(context.Background(), "a@x.com", "alice", "secret1")
	if err != nil || !reg.Success {
		t.Fatalf("registration failed: %v %v", err, reg.Errors)
	}
	stale := reg.RefreshToken.Value

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	results := make(chan Result, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			res, err := svc.Refresh(context.Background(), stale)
			if err != nil {
				t.Errorf("unexpected refresh error: %v", err)
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	fail := 0
	for res := range results {
		if res.Success {
			success++
			if res.RefreshToken.Value == stale {
				t.Fatalf("winner must receive a rotated token")
			}
			continue
		}
		if len(res.Errors) != 1 || res.Errors[0] != msgTokenNotFound {
			t.Fatalf("loser saw unexpected errors: %v", res.Errors)
		}
		fail++
	}
	if success != 1 {
		t.Fatalf("expected exactly one refresh success, got %d", success)
	}
	if fail != n-1 {
		t.Fatalf("expected %d refresh failures, got %d", n-1, fail)
	}
}
