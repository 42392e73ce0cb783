package providers

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// Provider defines the common interface implemented by all implicit-grant OAuth providers.
type Provider interface {
	// Name returns the lower-case identifier of the provider (e.g. "twitch").
	Name() string
	// Endpoint returns the provider's OAuth 2.0 endpoints. Only AuthURL is used by the implicit grant.
	Endpoint() oauth2.Endpoint
	// BaseScopes returns the scopes that are requested on every authorization attempt.
	BaseScopes() []string
	// ForceVerify returns the provider-specific authorize parameters that force (or explicitly
	// do not force) the consent screen. Providers may return nil when force is false.
	ForceVerify(force bool) []oauth2.AuthCodeOption
}

// AuthorizeRequest holds the per-attempt values that go into an authorize URL.
type AuthorizeRequest struct {
	ClientID    string   // OAuth client ID registered with the provider.
	RedirectURI string   // Loopback redirect URI the provider sends the browser back to.
	State       string   // Anti-forgery token bound to this attempt.
	Scopes      []string // Requested scopes, merged with the provider's base scopes.
	ForceVerify bool     // Whether the consent screen must be shown again.
}

// Predefined errors related to provider lookup.
var (
	// ErrUnknownProvider indicates that no provider is registered under the requested name.
	ErrUnknownProvider = errors.New("unknown oauth provider")
)

// AuthorizeURL builds the implicit-grant authorize URL for the given provider.
// The scope parameter is the deduplicated, order-preserving union of the provider's
// base scopes and the requested scopes, space-joined.
func AuthorizeURL(p Provider, req AuthorizeRequest) string {
	config := &oauth2.Config{
		ClientID:    req.ClientID,
		RedirectURL: req.RedirectURI,
		Endpoint:    p.Endpoint(),
		Scopes:      UnionScopes(p.BaseScopes(), req.Scopes),
	}

	// AuthCodeURL always writes response_type=code, the implicit grant overrides it.
	opts := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("response_type", "token")}
	opts = append(opts, p.ForceVerify(req.ForceVerify)...)
	return config.AuthCodeURL(req.State, opts...)
}

// Lookup returns the built-in provider registered under name, configured with the given base scopes.
// Okta needs a domain and is therefore not available through Lookup; use NewOkta instead.
func Lookup(name string, baseScopes ...string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "twitch":
		return &Twitch{Scopes: baseScopes}, nil
	case "discord":
		return &Discord{Scopes: baseScopes}, nil
	case "google":
		return &Google{Scopes: baseScopes}, nil
	case "facebook":
		return &Facebook{Scopes: baseScopes}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
