package models

import (
	"fmt"
	"slices"
	"strings"
)

// Provider tags how an [Identity] signed in.
type Provider string

const (
	ProviderEmail    Provider = "email"
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
	ProviderApple    Provider = "apple"
)

// providerMatchers is checked in order; the first needle found in a provider id wins.
var providerMatchers = []struct {
	needle   string
	provider Provider
}{
	{"google", ProviderGoogle},
	{"facebook", ProviderFacebook},
	{"apple", ProviderApple},
}

// ProviderFromID derives a [Provider] from an identity provider id such as "google.com" or "password".
// Anything unrecognised, including the empty string, is [ProviderEmail].
func ProviderFromID(providerID string) Provider {
	for _, m := range providerMatchers {
		if strings.Contains(providerID, m.needle) {
			return m.provider
		}
	}
	return ProviderEmail
}

// SocialProviders lists the providers that sign in through an interactive consent flow.
func SocialProviders() []Provider {
	return []Provider{ProviderGoogle, ProviderFacebook, ProviderApple}
}

// ParseSocialProvider accepts "google", "facebook" or "apple".
func ParseSocialProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.Social() {
		return "", fmt.Errorf("unsupported sign-in provider %q (want google, facebook or apple)", s)
	}
	return p, nil
}

// Social reports whether p uses an interactive consent flow.
func (p Provider) Social() bool {
	return slices.Contains(SocialProviders(), p)
}

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	return p == ProviderEmail || p.Social()
}

// ProviderID returns the identity provider's id for p ("google.com", "password", ...).
func (p Provider) ProviderID() string {
	switch p {
	case ProviderGoogle:
		return "google.com"
	case ProviderFacebook:
		return "facebook.com"
	case ProviderApple:
		return "apple.com"
	default:
		return "password"
	}
}

// Identity is the signed-in user. It is persisted locally as JSON under the session key,
// using the same field names the web client wrote.
type Identity struct {
	ID          string   `json:"uid"`
	Email       *string  `json:"email"`
	DisplayName *string  `json:"displayName"`
	AvatarURL   *string  `json:"photoURL"`
	Provider    Provider `json:"provider"`
}

// Validate checks that the identity can be persisted.
func (i *Identity) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("identity id is required")
	}
	if !i.Provider.Valid() {
		return fmt.Errorf("unknown provider %q", i.Provider)
	}
	return nil
}

// Name returns the best human-readable label: display name, then email, then id.
func (i *Identity) Name() string {
	if i.DisplayName != nil && *i.DisplayName != "" {
		return *i.DisplayName
	}
	if i.Email != nil && *i.Email != "" {
		return *i.Email
	}
	return i.ID
}

// Clone returns a deep copy so callers cannot mutate store-owned state.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	c.Email = clonePtr(i.Email)
	c.DisplayName = clonePtr(i.DisplayName)
	c.AvatarURL = clonePtr(i.AvatarURL)
	return &c
}

// OptionalString maps the empty string to nil.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
