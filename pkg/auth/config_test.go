package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Suhaibinator/GOAuthLocal/pkg/providers"
)

func TestLoadEnvConfig_Defaults(t *testing.T) {
	t.Setenv("GOAUTH_CLIENT_ID", "client-id")

	cfg, err := LoadEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, "client-id", cfg.ClientID)
	assert.Equal(t, "http://localhost:3000/auth", cfg.RedirectURI)
	assert.Equal(t, "twitch", cfg.Provider)
	assert.Equal(t, 5*time.Minute, cfg.LoginTimeout)
	assert.Equal(t, 2*time.Second, cfg.CloseTimeout)
	assert.False(t, cfg.ForceVerify)
}

func TestLoadEnvConfig_Values(t *testing.T) {
	t.Setenv("GOAUTH_CLIENT_ID", "client-id")
	t.Setenv("GOAUTH_REDIRECT_URI", "http://127.0.0.1:8080/callback")
	t.Setenv("GOAUTH_PROVIDER", "discord")
	t.Setenv("GOAUTH_BASE_SCOPES", "identify")
	t.Setenv("GOAUTH_SCOPES", "email,guilds")
	t.Setenv("GOAUTH_LOGIN_TIMEOUT", "90s")
	t.Setenv("GOAUTH_CLOSE_TIMEOUT", "500ms")
	t.Setenv("GOAUTH_FORCE_VERIFY", "true")

	cfg, err := LoadEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "guilds"}, cfg.RequestedScopes())

	srvCfg, err := cfg.ServerConfig(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "client-id", srvCfg.ClientID)
	assert.Equal(t, "http://127.0.0.1:8080/callback", srvCfg.RedirectURI)
	assert.Equal(t, 90*time.Second, srvCfg.LoginTimeout)
	assert.Equal(t, 500*time.Millisecond, srvCfg.CloseTimeout)
	assert.True(t, srvCfg.ForceVerify)
	assert.Equal(t, "discord", srvCfg.Provider.Name())
	assert.Equal(t, []string{"identify"}, srvCfg.Provider.BaseScopes())

	opts := cfg.TokenProviderOptions()
	assert.Equal(t, "client-id", opts.ClientID)
	assert.Equal(t, "http://127.0.0.1:8080/callback", opts.RedirectURI)
}

func TestLoadEnvConfig_InvalidDuration(t *testing.T) {
	t.Setenv("GOAUTH_LOGIN_TIMEOUT", "soon")
	_, err := LoadEnvConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestBuildProvider(t *testing.T) {
	_, err := EnvConfig{Provider: "okta"}.BuildProvider()
	require.ErrorIs(t, err, ErrMissingOktaDomain)

	p, err := EnvConfig{Provider: "okta", OktaDomain: "dev-1.okta.com", BaseScopes: "profile"}.BuildProvider()
	require.NoError(t, err)
	assert.Equal(t, []string{"openid", "profile"}, p.BaseScopes())

	_, err = EnvConfig{Provider: "myspace"}.BuildProvider()
	require.ErrorIs(t, err, providers.ErrUnknownProvider)
}
