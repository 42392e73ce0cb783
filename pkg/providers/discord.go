package providers

import (
	"github.com/julien040/go-ternary"
	"golang.org/x/oauth2"
	// Discord endpoint is defined manually
)

// ===== Discord OAuth =====

// discordEndpoint holds Discord's OAuth2 endpoints.
// See: https://discord.com/developers/docs/topics/oauth2#implicit-grant
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/api/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// Discord implements the Provider interface for Discord's implicit grant flow.
// Common Discord scopes: identify (basic user info), email.
type Discord struct {
	Scopes []string
}

// Name returns "discord".
func (d *Discord) Name() string { return "discord" }

// Endpoint returns the manually defined Discord endpoints.
func (d *Discord) Endpoint() oauth2.Endpoint { return discordEndpoint }

// BaseScopes returns the configured base scopes.
func (d *Discord) BaseScopes() []string { return d.Scopes }

// ForceVerify maps to Discord's prompt parameter: "consent" re-shows the authorization screen,
// "none" skips it when the user has already authorized the application.
func (d *Discord) ForceVerify(force bool) []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("prompt", ternary.If(force, "consent", "none"))}
}
