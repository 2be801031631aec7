package identity

import (
	"context"
	"strings"
)

// Identity is the session identity the cart is bound to. The zero value is a
// guest: no credential, no user, no roles.
type Identity struct {
	UserID     string
	Username   string
	Roles      []string
	Credential string
}

// Guest returns the anonymous identity
func Guest() Identity {
	return Identity{}
}

// Authenticated returns true when an auth credential is present
func (i Identity) Authenticated() bool {
	return i.Credential != ""
}

// HasAnyRole reports whether the identity holds at least one of roles.
// Comparison is case-insensitive.
func (i Identity) HasAnyRole(roles ...string) bool {
	for _, have := range i.Roles {
		for _, want := range roles {
			if strings.EqualFold(strings.TrimSpace(have), strings.TrimSpace(want)) {
				return true
			}
		}
	}
	return false
}

// Resolver turns a raw credential into an Identity.
// Implementations return an error for expired or tampered credentials.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (Identity, error)
}

// CredentialSource reads the single auth-credential slot.
// An absent credential is reported as "" with a nil error.
type CredentialSource interface {
	Credential(ctx context.Context) (string, error)
}
