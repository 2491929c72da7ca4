package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultAccessTTL = 15 * time.Minute

// AccessClaims are the verified claims of an access token.
type AccessClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer builds short-lived signed access tokens. Issuer and audience
// are fixed per deployment and checked identically on verification.
type TokenIssuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenIssuer validates the signing configuration up front. A missing key,
// issuer or audience is a configuration fault and is never retried per request.
func NewTokenIssuer(key, issuer, audience string, ttl time.Duration) (*TokenIssuer, error) {
	key = strings.TrimSpace(key)
	issuer = strings.TrimSpace(issuer)
	audience = strings.TrimSpace(audience)
	if key == "" {
		return nil, errors.New("auth: signing key is not configured")
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("auth: token issuer and audience are required")
	}
	if ttl <= 0 {
		ttl = defaultAccessTTL
	}
	return &TokenIssuer{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Issue signs an HS256 token for the account: subject = account id, a fresh
// jti nonce, one roles entry per role and the custom claims passed through.
func (i *TokenIssuer) Issue(account *Account, roles []string, custom []Claim) (string, time.Time, error) {
	if account == nil || strings.TrimSpace(account.ID) == "" {
		return "", time.Time{}, fmt.Errorf("%w: account is required", ErrInvalidInput)
	}
	now := i.now().UTC()
	expiresAt := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"iss": i.issuer,
		"aud": i.audience,
		"sub": account.ID,
		"jti": uuid.NewString(),
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(expiresAt),
	}
	if normalized := dedupeRoles(roles); len(normalized) > 0 {
		claims["roles"] = normalized
	}
	for _, c := range custom {
		name := strings.TrimSpace(c.Name)
		if name == "" || isRegisteredClaim(name) {
			continue
		}
		claims[name] = c.Value
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAndValidate verifies signature, method, issuer, audience and expiry.
func (i *TokenIssuer) ParseAndValidate(token string) (*AccessClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return i.key, nil
	},
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	claims.Roles = dedupeRoles(claims.Roles)
	return claims, nil
}

func isRegisteredClaim(name string) bool {
	switch name {
	case "iss", "aud", "sub", "jti", "iat", "exp", "nbf", "roles":
		return true
	}
	return false
}

func dedupeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(roles))
	var normalized []string
	for _, role := range roles {
		role = strings.TrimSpace(strings.ToLower(role))
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		normalized = append(normalized, role)
	}
	return normalized
}
