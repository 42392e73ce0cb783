package providers

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ===== Google OAuth =====

// Google implements the Provider interface for Google's client-side (implicit) web flow.
// See: https://developers.google.com/identity/protocols/oauth2/javascript-implicit-flow
type Google struct {
	Scopes []string // e.g. "https://www.googleapis.com/auth/userinfo.email".
}

// Name returns "google".
func (g *Google) Name() string { return "google" }

// Endpoint returns Google's OAuth2 endpoints.
func (g *Google) Endpoint() oauth2.Endpoint { return google.Endpoint }

// BaseScopes returns the configured base scopes.
func (g *Google) BaseScopes() []string { return g.Scopes }

// ForceVerify adds prompt=consent when forced. Google treats prompt=none as
// "fail if any interaction is needed", so nothing is sent otherwise.
func (g *Google) ForceVerify(force bool) []oauth2.AuthCodeOption {
	if !force {
		return nil
	}
	return []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("prompt", "consent")}
}
