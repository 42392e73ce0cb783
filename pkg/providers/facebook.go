package providers

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

// ===== Facebook OAuth =====

// Facebook implements the Provider interface for Facebook Login's token response type.
// See: https://developers.facebook.com/docs/facebook-login/guides/advanced/manual-flow
type Facebook struct {
	Scopes []string // e.g. "email", "public_profile".
}

// Name returns "facebook".
func (f *Facebook) Name() string { return "facebook" }

// Endpoint returns Facebook's OAuth2 endpoints from golang.org/x/oauth2/facebook.
func (f *Facebook) Endpoint() oauth2.Endpoint { return facebook.Endpoint }

// BaseScopes returns the configured base scopes.
func (f *Facebook) BaseScopes() []string { return f.Scopes }

// ForceVerify asks Facebook to re-request previously declined permissions.
func (f *Facebook) ForceVerify(force bool) []oauth2.AuthCodeOption {
	if !force {
		return nil
	}
	return []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("auth_type", "rerequest")}
}
