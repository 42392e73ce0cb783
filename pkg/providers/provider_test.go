package providers

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func parseAuthorizeURL(t *testing.T, raw string) (*url.URL, url.Values) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u, u.Query()
}

func TestAuthorizeURL_Twitch(t *testing.T) {
	p := &Twitch{Scopes: []string{"user:read"}}
	raw := AuthorizeURL(p, AuthorizeRequest{
		ClientID:    "client-123",
		RedirectURI: "http://localhost:3000/auth",
		State:       "state-abc",
		Scopes:      []string{"chat:read"},
	})

	u, q := parseAuthorizeURL(t, raw)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "id.twitch.tv", u.Host)
	assert.Equal(t, "/oauth2/authorize", u.Path)
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "http://localhost:3000/auth", q.Get("redirect_uri"))
	assert.Equal(t, "token", q.Get("response_type"))
	assert.Equal(t, "state-abc", q.Get("state"))
	assert.Equal(t, "false", q.Get("force_verify"))
	assert.Equal(t, "user:read chat:read", q.Get("scope"))
	assert.Contains(t, raw, "scope=user%3Aread+chat%3Aread")
}

func TestAuthorizeURL_DeduplicatesScopes(t *testing.T) {
	p := &Twitch{Scopes: []string{"user:read", "chat:read"}}
	raw := AuthorizeURL(p, AuthorizeRequest{
		ClientID: "c",
		State:    "s",
		Scopes:   []string{"chat:read", "chat:edit", "user:read"},
	})
	_, q := parseAuthorizeURL(t, raw)
	assert.Equal(t, "user:read chat:read chat:edit", q.Get("scope"))
}

func TestAuthorizeURL_ForceVerify(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		force    bool
		param    string
		want     string
	}{
		{"twitch forced", &Twitch{}, true, "force_verify", "true"},
		{"twitch not forced", &Twitch{}, false, "force_verify", "false"},
		{"discord forced", &Discord{}, true, "prompt", "consent"},
		{"discord not forced", &Discord{}, false, "prompt", "none"},
		{"google forced", &Google{}, true, "prompt", "consent"},
		{"google not forced", &Google{}, false, "prompt", ""},
		{"facebook forced", &Facebook{}, true, "auth_type", "rerequest"},
		{"okta forced", NewOkta("dev-1.okta.com"), true, "prompt", "consent"},
		{"generic forced", &Generic{ForceVerifyParam: "force"}, true, "force", "true"},
		{"generic without param", &Generic{}, true, "force", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := AuthorizeURL(tt.provider, AuthorizeRequest{ClientID: "c", State: "s", ForceVerify: tt.force})
			_, q := parseAuthorizeURL(t, raw)
			assert.Equal(t, tt.want, q.Get(tt.param))
			assert.Equal(t, "token", q.Get("response_type"))
		})
	}
}

func TestOktaEndpoint(t *testing.T) {
	p := NewOkta("https://dev-1.okta.com/", "profile")
	assert.Equal(t, "https://dev-1.okta.com/oauth2/v1/authorize", p.Endpoint().AuthURL)
	assert.Equal(t, []string{"openid", "profile"}, p.BaseScopes())
}

func TestGenericEndpoint(t *testing.T) {
	p := &Generic{AuthEndpoint: oauth2.Endpoint{AuthURL: "https://auth.example.com/oauth2/authorize"}}
	raw := AuthorizeURL(p, AuthorizeRequest{ClientID: "c", State: "s"})
	assert.True(t, strings.HasPrefix(raw, "https://auth.example.com/oauth2/authorize?"))
	assert.Equal(t, "generic", p.Name())
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"", "twitch", "Twitch", "discord", "google", "facebook"} {
		p, err := Lookup(name, "a")
		require.NoError(t, err, name)
		assert.Equal(t, []string{"a"}, p.BaseScopes())
	}

	p, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "twitch", p.Name())

	_, err = Lookup("myspace")
	require.ErrorIs(t, err, ErrUnknownProvider)
}
