package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"fitbase.org/internal/ids"
)

const (
	defaultRefreshTTL = 7 * 24 * time.Hour
	refreshValueBytes = 32
)

// RefreshTokenManager owns the per-account refresh token lifecycle:
// absent -> issue -> live; live and valid -> unchanged; live and stale ->
// rotate. Each account holds at most one live token.
type RefreshTokenManager struct {
	tokens   RefreshTokenStore
	accounts AccountStore
	ttl      time.Duration
	now      func() time.Time
}

// NewRefreshTokenManager constructs a manager with a 7 day token lifetime.
func NewRefreshTokenManager(tokens RefreshTokenStore, accounts AccountStore) (*RefreshTokenManager, error) {
	if tokens == nil || accounts == nil {
		return nil, errors.New("auth: refresh token and account stores are required")
	}
	return &RefreshTokenManager{
		tokens:   tokens,
		accounts: accounts,
		ttl:      defaultRefreshTTL,
		now:      time.Now,
	}, nil
}

// GetOrCreate returns the account's live refresh token, minting a replacement
// only when the slot is empty or stale. Reading never rotates.
func (m *RefreshTokenManager) GetOrCreate(ctx context.Context, account *Account) (*RefreshToken, error) {
	if account == nil || account.ID == "" {
		return nil, fmt.Errorf("%w: account is required", ErrInvalidInput)
	}
	existing, err := m.tokens.FindByAccount(ctx, account.ID)
	if err == nil && !existing.Expired(m.now().UTC()) {
		return existing, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	tok, err := m.newToken(account.ID)
	if err != nil {
		return nil, err
	}
	if err := m.tokens.Save(ctx, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// Redeem exchanges a presented token string for the owning account and a
// rotated replacement. The rotation is a single conditional update keyed on
// the presented value, so the string is single-use: with concurrent redeemers
// exactly one wins and the rest observe ErrNotFound.
func (m *RefreshTokenManager) Redeem(ctx context.Context, presented string) (*Account, *RefreshToken, error) {
	if presented == "" {
		return nil, nil, ErrNotFound
	}
	current, err := m.tokens.FindByValue(ctx, presented)
	if err != nil {
		return nil, nil, err
	}
	if current.Expired(m.now().UTC()) {
		// The slot stays occupied; a stale token is refused, not cleared.
		return nil, nil, ErrTokenExpired
	}
	next, err := m.newToken(current.AccountID)
	if err != nil {
		return nil, nil, err
	}
	rotated, err := m.tokens.Rotate(ctx, presented, next)
	if err != nil {
		return nil, nil, err
	}
	account, err := m.accounts.Find(ctx, rotated.AccountID)
	if err != nil {
		return nil, nil, err
	}
	return account, rotated, nil
}

func (m *RefreshTokenManager) newToken(accountID string) (*RefreshToken, error) {
	raw := make([]byte, refreshValueBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	now := m.now().UTC()
	return &RefreshToken{
		ID:        ids.New(),
		AccountID: accountID,
		Value:     base64.StdEncoding.EncodeToString(raw),
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}, nil
}
