package auth

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"
)

// GoogleVerifier validates Google ID tokens: the signed payload is verified
// against Google's published keys with the configured audience (client id).
type GoogleVerifier struct {
	audience string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier requires the OAuth client id the tokens must be issued for.
func NewGoogleVerifier(clientID string) (*GoogleVerifier, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, errors.New("auth: google client id is required")
	}
	return &GoogleVerifier{
		audience: clientID,
		validate: idtoken.Validate,
	}, nil
}

// ValidateToken verifies the ID token and extracts the verified profile.
// Any verification or network failure maps to ErrInvalidToken.
func (v *GoogleVerifier) ValidateToken(ctx context.Context, token string) (Profile, error) {
	if strings.TrimSpace(token) == "" {
		return Profile{}, ErrInvalidToken
	}
	payload, err := v.validate(ctx, token, v.audience)
	if err != nil {
		return Profile{}, ErrInvalidToken
	}
	email, _ := payload.Claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return Profile{}, ErrInvalidToken
	}
	picture, _ := payload.Claims["picture"].(string)
	return Profile{
		Email:      email,
		Name:       givenName(payload.Claims),
		PictureURL: picture,
	}, nil
}

// givenName prefers the given_name claim and falls back to the first word of
// the full name, matching how the provider reports first names.
func givenName(claims map[string]any) string {
	if given, _ := claims["given_name"].(string); given != "" {
		if fields := strings.Fields(given); len(fields) > 0 {
			return fields[0]
		}
	}
	if full, _ := claims["name"].(string); full != "" {
		if fields := strings.Fields(full); len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}
