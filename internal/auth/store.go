package auth

import "context"

// AccountStore describes account persistence required by the auth subsystem.
type AccountStore interface {
	Find(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// Create persists a new account. An empty password creates a federated
	// account without a local credential; otherwise the password is checked
	// against the policy (reasons reported via *ValidationError) and hashed.
	// Duplicate emails yield ErrConflict.
	Create(ctx context.Context, account *Account, password string) error

	Update(ctx context.Context, account *Account) error

	// Delete removes the account and cascades its refresh token.
	Delete(ctx context.Context, id string) error

	// VerifyPassword checks the stored credential. Accounts without a local
	// password never verify.
	VerifyPassword(ctx context.Context, accountID, password string) error

	List(ctx context.Context, skip, take int) ([]*Account, error)

	// Search returns accounts matching the given email and/or username
	// exactly. Empty criteria are ignored; both empty matches nothing.
	Search(ctx context.Context, email, username string) ([]*Account, error)

	Roles(ctx context.Context, accountID string) ([]string, error)
	SetRoles(ctx context.Context, accountID string, roles []string) error
}

// RefreshTokenStore manages the one-token-per-account refresh slot.
type RefreshTokenStore interface {
	FindByAccount(ctx context.Context, accountID string) (*RefreshToken, error)
	FindByValue(ctx context.Context, value string) (*RefreshToken, error)

	// Save upserts the account's token slot, replacing any previous token.
	Save(ctx context.Context, tok *RefreshToken) error

	// Rotate atomically replaces the token whose current value equals
	// presented and which is still live, with next's value and expiry.
	// It returns ErrNotFound when no live token matches, which is also what
	// a concurrent redeemer that lost the race observes.
	Rotate(ctx context.Context, presented string, next *RefreshToken) (*RefreshToken, error)
}
