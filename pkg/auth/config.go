package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/Suhaibinator/GOAuthLocal/pkg/providers"
	"github.com/Suhaibinator/GOAuthLocal/pkg/server"
)

// EnvConfig is the login configuration read from the environment.
type EnvConfig struct {
	ClientID     string        `env:"GOAUTH_CLIENT_ID"`
	RedirectURI  string        `env:"GOAUTH_REDIRECT_URI" envDefault:"http://localhost:3000/auth"`
	Provider     string        `env:"GOAUTH_PROVIDER" envDefault:"twitch"`
	OktaDomain   string        `env:"GOAUTH_OKTA_DOMAIN"`
	BaseScopes   string        `env:"GOAUTH_BASE_SCOPES"` // Requested on every login.
	Scopes       string        `env:"GOAUTH_SCOPES"`      // Requested by the caller, space/comma/plus separated.
	LoginTimeout time.Duration `env:"GOAUTH_LOGIN_TIMEOUT" envDefault:"5m"`
	CloseTimeout time.Duration `env:"GOAUTH_CLOSE_TIMEOUT" envDefault:"2s"`
	ForceVerify  bool          `env:"GOAUTH_FORCE_VERIFY"`
}

// ErrMissingOktaDomain indicates that the okta provider was selected without GOAUTH_OKTA_DOMAIN.
var ErrMissingOktaDomain = errors.New("okta provider requires GOAUTH_OKTA_DOMAIN")

// LoadEnvConfig parses EnvConfig from the process environment.
func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// BuildProvider resolves the configured provider with its base scopes.
func (c EnvConfig) BuildProvider() (providers.Provider, error) {
	base := providers.ParseScopes(c.BaseScopes)
	if strings.EqualFold(strings.TrimSpace(c.Provider), "okta") {
		if c.OktaDomain == "" {
			return nil, ErrMissingOktaDomain
		}
		return providers.NewOkta(c.OktaDomain, base...), nil
	}
	return providers.Lookup(c.Provider, base...)
}

// ServerConfig converts the environment configuration into a server.Config.
// Logger, events and the browser launcher are left for the caller to set.
func (c EnvConfig) ServerConfig(logger *zap.Logger) (server.Config, error) {
	provider, err := c.BuildProvider()
	if err != nil {
		return server.Config{}, err
	}
	return server.Config{
		ClientID:     c.ClientID,
		RedirectURI:  c.RedirectURI,
		Provider:     provider,
		LoginTimeout: c.LoginTimeout,
		CloseTimeout: c.CloseTimeout,
		ForceVerify:  c.ForceVerify,
		Logger:       logger,
	}, nil
}

// TokenProviderOptions returns the facade options for this configuration.
func (c EnvConfig) TokenProviderOptions() TokenProviderOptions {
	return TokenProviderOptions{
		ClientID:    c.ClientID,
		RedirectURI: c.RedirectURI,
	}
}

// RequestedScopes returns GOAUTH_SCOPES as a list.
func (c EnvConfig) RequestedScopes() []string {
	return providers.ParseScopes(c.Scopes)
}

func joinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}
