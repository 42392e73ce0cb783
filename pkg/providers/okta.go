package providers

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// ===== Okta OAuth =====

// Okta implements the Provider interface for an Okta authorization server.
// Okta requires a per-organization domain, so it is built with NewOkta rather than Lookup.
type Okta struct {
	endpoint oauth2.Endpoint // Endpoints derived from the Okta domain.
	scopes   []string        // Base scopes, "openid" is always included.
}

// NewOkta creates an Okta provider for the given domain (e.g. "dev-123456.okta.com")
// using the org authorization server (https://{domain}/oauth2/v1).
func NewOkta(domain string, scopes ...string) *Okta {
	domain = strings.TrimSuffix(strings.TrimPrefix(domain, "https://"), "/")
	base := fmt.Sprintf("https://%s/oauth2/v1", domain)
	return &Okta{
		endpoint: oauth2.Endpoint{
			AuthURL:  base + "/authorize",
			TokenURL: base + "/token",
		},
		scopes: UnionScopes([]string{"openid"}, scopes),
	}
}

// Name returns "okta".
func (o *Okta) Name() string { return "okta" }

// Endpoint returns the endpoints derived from the Okta domain.
func (o *Okta) Endpoint() oauth2.Endpoint { return o.endpoint }

// BaseScopes returns "openid" followed by the configured scopes.
func (o *Okta) BaseScopes() []string { return o.scopes }

// ForceVerify adds prompt=consent when forced.
func (o *Okta) ForceVerify(force bool) []oauth2.AuthCodeOption {
	if !force {
		return nil
	}
	return []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("prompt", "consent")}
}
