package providers

import (
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/twitch"
)

// ===== Twitch OAuth =====

// Twitch implements the Provider interface for Twitch's implicit grant flow.
// See: https://dev.twitch.tv/docs/authentication/getting-tokens-oauth/#implicit-grant-flow
type Twitch struct {
	Scopes []string // Base scopes requested on every login, e.g. "user:read:email".
}

// Name returns "twitch".
func (t *Twitch) Name() string { return "twitch" }

// Endpoint returns Twitch's OAuth2 endpoints (https://id.twitch.tv/oauth2/authorize).
func (t *Twitch) Endpoint() oauth2.Endpoint { return twitch.Endpoint }

// BaseScopes returns the configured base scopes.
func (t *Twitch) BaseScopes() []string { return t.Scopes }

// ForceVerify always emits the force_verify parameter, Twitch documents both true and false.
func (t *Twitch) ForceVerify(force bool) []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("force_verify", strconv.FormatBool(force))}
}
