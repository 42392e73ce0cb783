package server

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/Suhaibinator/GOAuthLocal/pkg/providers"
)

const (
	// DefaultLoginTimeout is how long a login attempt may wait for its callback.
	DefaultLoginTimeout = 5 * time.Minute
	// DefaultCloseTimeout is how long the listener stays up after a settled attempt,
	// so the final page can reach the browser.
	DefaultCloseTimeout = 2 * time.Second
)

// Config holds the configuration of the callback listener.
type Config struct {
	// ClientID is the OAuth client ID registered with the provider (required).
	ClientID string

	// RedirectURI is the loopback redirect URI registered with the provider, e.g.
	// "http://localhost:3000/auth" (required). Its host and port define where the
	// listener binds and its path is where the auth landing page is served.
	// Port 0 binds an ephemeral port; the effective URI is then reported by Server.RedirectURI.
	RedirectURI string

	// Provider builds the authorize URL. Default: Twitch without base scopes.
	Provider providers.Provider

	// LoginTimeout bounds how long an attempt waits for its callback.
	// Default: 5 minutes
	LoginTimeout time.Duration

	// CloseTimeout is the grace period between settling an attempt and closing the listener.
	// Default: 2 seconds
	CloseTimeout time.Duration

	// ForceVerify forces the consent screen on every authorize URL.
	ForceVerify bool

	// ForceVerifyOnce forces the consent screen on the next authorize URL only.
	ForceVerifyOnce bool

	// Logger for structured logging (optional, discards logs if not provided)
	Logger *zap.Logger

	// Events receives lifecycle events (optional).
	Events EventSink

	// OpenURL opens the authorize URL in the user's browser.
	// Default: browser.OpenURL from github.com/pkg/browser
	OpenURL func(url string) error

	// Clock drives the login and close timers. Default: the real clock.
	Clock clockwork.Clock
}

// applyDefaults fills unset optional fields.
func (c *Config) applyDefaults() {
	if c.Provider == nil {
		c.Provider = &providers.Twitch{}
	}
	if c.LoginTimeout <= 0 {
		c.LoginTimeout = DefaultLoginTimeout
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = DefaultCloseTimeout
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Events == nil {
		c.Events = MultiSink(nil)
	}
	if c.OpenURL == nil {
		c.OpenURL = browser.OpenURL
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
}

// parseRedirectURI validates the redirect URI and returns it together with the
// address to bind and the path of the auth landing page.
func parseRedirectURI(raw string) (u *url.URL, bindAddr string, authPath string, err error) {
	u, err = url.Parse(raw)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %v", ErrInvalidRedirectURI, err)
	}
	if u.Scheme != "http" || u.Hostname() == "" {
		return nil, "", "", fmt.Errorf("%w: %q", ErrInvalidRedirectURI, raw)
	}

	port := u.Port()
	if port == "" {
		port = "80"
	}
	authPath = u.Path
	if authPath == "" {
		authPath = "/"
	}
	return u, net.JoinHostPort(u.Hostname(), port), authPath, nil
}
