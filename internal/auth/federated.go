package auth

import "context"

// Provider names an external identity provider.
type Provider string

const (
	ProviderFacebook Provider = "facebook"
	ProviderGoogle   Provider = "google"
)

// IdentityVerifier validates an opaque third-party token and extracts the
// verified profile. Implementations collapse every transport, decoding or
// audience failure into ErrInvalidToken; they never panic and never retry.
type IdentityVerifier interface {
	ValidateToken(ctx context.Context, token string) (Profile, error)
}
