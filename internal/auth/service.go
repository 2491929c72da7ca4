package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// User-facing messages. Login deliberately reports one identical message for
// an unknown email and a wrong password to prevent account enumeration.
const (
	msgEmailExists    = "User with the specified e-mail address already exists"
	msgBadCredentials = "Incorrect e-mail or password"
	msgBadFederated   = "The specified access token is not valid"
	msgTokenNotFound  = "Token does not exist"
	msgTokenExpired   = "Token expired"
	msgStorageFailure = "Unexpected storage error"
)

// Service composes the account store, token issuer, refresh token manager and
// identity verifiers into the register/login/federated-login/refresh flows.
// Every flow returns a Result; the error return is reserved for configuration
// faults, which are fatal and never surfaced as a flow outcome.
type Service struct {
	accounts  AccountStore
	refresh   *RefreshTokenManager
	issuer    *TokenIssuer
	verifiers map[Provider]IdentityVerifier
	now       func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service) error

// WithVerifier registers an identity verifier for a provider.
func WithVerifier(provider Provider, verifier IdentityVerifier) ServiceOption {
	return func(s *Service) error {
		if provider == "" || verifier == nil {
			return errors.New("auth: provider and verifier are required")
		}
		s.verifiers[provider] = verifier
		return nil
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
			s.refresh.now = fn
			s.issuer.now = fn
		}
		return nil
	}
}

// NewService wires the orchestrator. The refresh token manager is built on
// the same stores so rotation and issuance share one unit of consistency.
func NewService(accounts AccountStore, tokens RefreshTokenStore, issuer *TokenIssuer, opts ...ServiceOption) (*Service, error) {
	if accounts == nil || tokens == nil {
		return nil, errors.New("auth: account and refresh token stores are required")
	}
	if issuer == nil {
		return nil, errors.New("auth: token issuer is required")
	}
	refresh, err := NewRefreshTokenManager(tokens, accounts)
	if err != nil {
		return nil, err
	}
	svc := &Service{
		accounts:  accounts,
		refresh:   refresh,
		issuer:    issuer,
		verifiers: make(map[Provider]IdentityVerifier),
		now:       time.Now,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// RefreshTokens exposes the manager for callers that only rotate tokens.
func (s *Service) RefreshTokens() *RefreshTokenManager {
	return s.refresh
}

// Register creates an account with a local password and issues both tokens.
// A duplicate email or a policy violation fails without side effects.
func (s *Service) Register(ctx context.Context, email, username, password string) (Result, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return failure(msgEmailExists), nil
	} else if !errors.Is(err, ErrNotFound) {
		return failure(msgStorageFailure), nil
	}

	account := &Account{Email: email, Username: strings.TrimSpace(username)}
	if err := s.accounts.Create(ctx, account, password); err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			return failure(verr.Reasons...), nil
		case errors.Is(err, ErrConflict):
			return failure(msgEmailExists), nil
		default:
			return failure(msgStorageFailure), nil
		}
	}
	return s.issueFor(ctx, account)
}

// Login authenticates a local credential and issues both tokens.
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return failure(msgBadCredentials), nil
	}
	if err := s.accounts.VerifyPassword(ctx, account.ID, password); err != nil {
		return failure(msgBadCredentials), nil
	}
	return s.issueFor(ctx, account)
}

// FederatedLogin validates a provider token and signs the verified identity
// in. An account is looked up by the verified email or created without a
// local password, the verified name becoming the username.
//
// Linking by verified email is a deliberate policy (LinkByVerifiedEmail):
// any configured provider vouching for an email is merged into the one local
// account holding it.
func (s *Service) FederatedLogin(ctx context.Context, provider Provider, token string) (Result, error) {
	verifier, ok := s.verifiers[provider]
	if !ok {
		return Result{}, fmt.Errorf("auth: no verifier configured for provider %q", provider)
	}
	profile, err := verifier.ValidateToken(ctx, token)
	if err != nil {
		return failure(msgBadFederated), nil
	}

	email := strings.TrimSpace(strings.ToLower(profile.Email))
	account, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		account = &Account{Email: email, Username: profile.Name}
		if err := s.accounts.Create(ctx, account, ""); err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr):
				return failure(verr.Reasons...), nil
			case errors.Is(err, ErrConflict):
				// A concurrent first login won the create; sign into the
				// account it made.
				account, err = s.accounts.FindByEmail(ctx, email)
				if err != nil {
					return failure(msgStorageFailure), nil
				}
			default:
				return failure(msgStorageFailure), nil
			}
		}
	case err != nil:
		return failure(msgStorageFailure), nil
	}
	return s.issueFor(ctx, account)
}

// Refresh redeems a refresh token string for a new token pair. The new access
// token carries the account's current role set, so role changes take effect
// on the next refresh.
func (s *Service) Refresh(ctx context.Context, refreshTokenString string) (Result, error) {
	account, rotated, err := s.refresh.Redeem(ctx, refreshTokenString)
	switch {
	case errors.Is(err, ErrTokenExpired):
		return failure(msgTokenExpired), nil
	case errors.Is(err, ErrNotFound):
		return failure(msgTokenNotFound), nil
	case err != nil:
		return failure(msgStorageFailure), nil
	}

	roles, err := s.accounts.Roles(ctx, account.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return failure(msgStorageFailure), nil
	}
	accessToken, _, err := s.issuer.Issue(account, roles, nil)
	if err != nil {
		// Signing only fails on broken configuration; abort, don't degrade.
		return Result{}, err
	}
	return Result{
		Success:      true,
		AccessToken:  accessToken,
		RefreshToken: rotated,
		AccountID:    account.ID,
	}, nil
}

// issueFor mints the access token from the account's current roles and
// ensures a live refresh token exists.
func (s *Service) issueFor(ctx context.Context, account *Account) (Result, error) {
	roles, err := s.accounts.Roles(ctx, account.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return failure(msgStorageFailure), nil
	}
	accessToken, _, err := s.issuer.Issue(account, roles, nil)
	if err != nil {
		// Signing only fails on broken configuration; abort, don't degrade.
		return Result{}, err
	}
	refreshToken, err := s.refresh.GetOrCreate(ctx, account)
	if err != nil {
		return failure(msgStorageFailure), nil
	}
	return Result{
		Success:      true,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccountID:    account.ID,
	}, nil
}
