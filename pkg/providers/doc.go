// Package providers defines the OAuth 2.0 identity providers that can be used with the
// implicit grant (response_type=token) and builds their authorize URLs.
//
// Each provider knows its authorize endpoint, the scopes it always requests and how it
// spells "show the consent screen again" (Twitch: force_verify, Discord/Google/Okta: prompt,
// Facebook: auth_type).
package providers
