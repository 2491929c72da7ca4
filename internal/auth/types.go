package auth

import "time"

// Account represents a registered user. PasswordHash is empty for accounts
// created through a federated login.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Optional profile details, maintained through the details endpoints.
	Weight       *int `json:"weight,omitempty"`
	Height       *int `json:"height,omitempty"`
	TargetWeight *int `json:"target_weight,omitempty"`
	Age          *int `json:"age,omitempty"`
	Kcal         *int `json:"kcal,omitempty"`
}

// RefreshToken is the single long-lived opaque credential of an account.
// Its value is overwritten in place on every successful redemption.
type RefreshToken struct {
	ID        string    `json:"-"`
	AccountID string    `json:"-"`
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"-"`
}

// Expired reports whether the token is stale at the given instant.
// A token whose expiry equals now is already expired.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Claim is a named attribute embedded into a signed access token.
type Claim struct {
	Name  string
	Value string
}

// Profile holds identity fields vouched for by an external provider.
type Profile struct {
	Email      string
	Name       string
	PictureURL string
}

// Result is the uniform outcome of every authentication flow. Errors is
// populated only when Success is false.
type Result struct {
	Success      bool
	Errors       []string
	AccessToken  string
	RefreshToken *RefreshToken
	AccountID    string
}

func failure(msgs ...string) Result {
	return Result{Errors: msgs}
}

// OwnedResource is any entity that exposes its owning account.
type OwnedResource interface {
	OwnerAccountID() string
}
